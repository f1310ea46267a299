package controllers

import (
	"net/http"
	"time"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/services"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// sumEntries sums ledger amounts of one type in [from, to).
func sumEntries(entryType string, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := config.DB.Model(&models.BookkeepingEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("type = ? AND date >= ? AND date < ?", entryType, from, to).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// sumEntriesByCategory sums ledger amounts of one category in [from, to).
func sumEntriesByCategory(categoryID uint, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := config.DB.Model(&models.BookkeepingEntry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("category_id = ? AND date >= ? AND date < ?", categoryID, from, to).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

type monthFigures struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Profit   decimal.Decimal `json:"profit"`
}

// GetDashboard aggregates the key business figures: customer and order
// counts, invoice status, the current year's result, a rolling 12-month
// income/expense series and the labor-vs-material revenue split.
func GetDashboard(c *gin.Context) {
	var customerTotal, privateCount, businessCount int64
	if err := config.DB.Model(&models.Customer{}).Count(&customerTotal).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := config.DB.Model(&models.Customer{}).Where("kind = ?", models.CustomerKindPrivate).Count(&privateCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := config.DB.Model(&models.Customer{}).Where("kind = ?", models.CustomerKindBusiness).Count(&businessCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var orderCount int64
	if err := config.DB.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var openInvoices, paidInvoices int64
	if err := config.DB.Model(&models.Invoice{}).Where("paid = ?", false).Count(&openInvoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := config.DB.Model(&models.Invoice{}).Where("paid = ?", true).Count(&paidInvoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	now := time.Now().UTC()
	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	yearEnd := yearStart.AddDate(1, 0, 0)

	yearIncome, err := sumEntries(models.EntryIncome, yearStart, yearEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	yearExpenses, err := sumEntries(models.EntryExpense, yearStart, yearEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	yearProfit := yearIncome.Sub(yearExpenses)

	margin := decimal.Zero
	if yearIncome.IsPositive() {
		margin = yearProfit.Div(yearIncome).Mul(decimal.NewFromInt(100)).Round(1)
	}

	// Rolling 12 months ending with the current one.
	months := make([]monthFigures, 0, 12)
	for i := 11; i >= 0; i-- {
		monthStart := utils.BeginningOfMonth(now.AddDate(0, -i, 0))
		monthEnd := monthStart.AddDate(0, 1, 0)

		income, err := sumEntries(models.EntryIncome, monthStart, monthEnd)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		expenses, err := sumEntries(models.EntryExpense, monthStart, monthEnd)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}

		months = append(months, monthFigures{
			Month:    monthStart.Format("2006-01"),
			Income:   income,
			Expenses: expenses,
			Profit:   income.Sub(expenses),
		})
	}

	laborRevenue, err := sumEntriesByCategory(services.WellKnown().LaborRevenue, yearStart, yearEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	materialRevenue, err := sumEntriesByCategory(services.WellKnown().MaterialRevenue, yearStart, yearEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	materialCosts, err := sumEntriesByCategory(services.WellKnown().MaterialCosts, yearStart, yearEnd)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": gin.H{
			"total":    customerTotal,
			"private":  privateCount,
			"business": businessCount,
		},
		"orders": gin.H{
			"total": orderCount,
		},
		"invoices": gin.H{
			"open": openInvoices,
			"paid": paidInvoices,
		},
		"currentYear": gin.H{
			"year":            now.Year(),
			"income":          yearIncome,
			"expenses":        yearExpenses,
			"profit":          yearProfit,
			"profitMargin":    margin,
			"laborRevenue":    laborRevenue,
			"materialRevenue": materialRevenue,
			"materialCosts":   materialCosts,
			"materialMargin":  materialRevenue.Sub(materialCosts),
		},
		"months": months,
	})
}
