package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"buildflow-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The reconciler keeps the EÜR ledger consistent with invoice payment
// state. It is driven exclusively by the invoice lifecycle transitions in
// invoice_service.go, never called by users directly. Re-triggering the
// same transition never duplicates entries: all entries linked to the
// invoice are removed before any are emitted.

// RemoveInvoiceEntries deletes every ledger entry linked to the invoice,
// regardless of type or category.
func RemoveInvoiceEntries(tx *gorm.DB, invoiceID uint) error {
	return tx.Where("invoice_id = ?", invoiceID).Delete(&models.BookkeepingEntry{}).Error
}

// EmitPaymentEntries creates the income entries for a paid invoice: one
// per material component with a positive selling price, and at most one
// for the summed labor revenue. Zero and negative amounts are skipped.
func EmitPaymentEntries(tx *gorm.DB, invoice *models.Invoice, work []models.WorkComponent, materials []models.MaterialComponent, paymentDate time.Time) error {
	invoiceID := invoice.ID

	for i := range materials {
		mk := &materials[i]
		amount := mk.SellingPrice()
		if !amount.IsPositive() {
			continue
		}
		entry := models.BookkeepingEntry{
			Date:        paymentDate,
			Type:        models.EntryIncome,
			Amount:      amount,
			Description: materialEntryDescription(mk),
			CategoryID:  wellKnown.MaterialRevenue,
			InvoiceID:   &invoiceID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}

	laborTotal := WorkTotal(work)
	if laborTotal.IsPositive() {
		entry := models.BookkeepingEntry{
			Date:        paymentDate,
			Type:        models.EntryIncome,
			Amount:      laborTotal,
			Description: laborEntryDescription(work),
			CategoryID:  wellKnown.LaborRevenue,
			InvoiceID:   &invoiceID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}

	return nil
}

func materialEntryDescription(mk *models.MaterialComponent) string {
	if mk.Name == "" {
		return "Materialerlöse"
	}
	return "Materialerlöse " + mk.Name
}

// laborEntryDescription aggregates per-component fragments like
// "Fliesen legen (16h)" or "Spachteln (24m²)".
func laborEntryDescription(work []models.WorkComponent) string {
	var fragments []string
	for _, wc := range work {
		if wc.Description == "" {
			continue
		}
		switch wc.Basis {
		case models.BasisHours:
			fragments = append(fragments, fmt.Sprintf("%s (%sh)", wc.Description, wc.Hours.String()))
		case models.BasisArea:
			fragments = append(fragments, fmt.Sprintf("%s (%sm²)", wc.Description, wc.Area.String()))
		}
	}
	if len(fragments) == 0 {
		return "Arbeitserlöse"
	}
	return fmt.Sprintf("Arbeitserlöse (%s)", strings.Join(fragments, ", "))
}

// RecordMaterialCosts stores actual material costs for an invoice's order
// and rewrites the derived expense entries. Prior auto-generated material
// cost entries for the invoice are deleted first so re-submitting the form
// never duplicates expenses. A nil cost date falls back to the invoice
// date. An explicit zero cost is recorded and emits a zero-amount entry.
func RecordMaterialCosts(tx *gorm.DB, invoiceID uint, costDate *time.Time, costs map[uint]decimal.Decimal) error {
	var invoice models.Invoice
	if err := tx.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	date := invoice.InvoiceDate
	if costDate != nil {
		date = *costDate
	}

	var materials []models.MaterialComponent
	if err := tx.Where("order_id = ?", invoice.OrderID).Find(&materials).Error; err != nil {
		return err
	}

	if len(costs) == 0 {
		return nil
	}

	for _, amount := range costs {
		if amount.IsNegative() {
			return Validationf("material cost must not be negative")
		}
	}

	if err := tx.Where("invoice_id = ? AND type = ? AND category_id = ?",
		invoiceID, models.EntryExpense, wellKnown.MaterialCosts).
		Delete(&models.BookkeepingEntry{}).Error; err != nil {
		return err
	}

	for i := range materials {
		mk := &materials[i]
		amount, ok := costs[mk.ID]
		if !ok {
			continue
		}

		cost := amount
		mk.ActualCost = &cost
		if err := tx.Model(mk).Update("actual_cost", cost).Error; err != nil {
			return err
		}

		entry := models.BookkeepingEntry{
			Date:        date,
			Type:        models.EntryExpense,
			Amount:      amount,
			Description: "Materialkosten " + mk.Name,
			CategoryID:  wellKnown.MaterialCosts,
			InvoiceID:   &invoiceID,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}

	return nil
}
