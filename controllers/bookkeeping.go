package controllers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/services"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// addMonthsClamped moves a date forward by whole months, clamping the day
// to the end of shorter target months instead of overflowing into the
// next one (Jan 31 + 1 month = Feb 28, not Mar 3).
func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// entryDates expands a start date over an interval up to and including
// the end date. "single" yields just the start date.
func entryDates(start time.Time, interval string, end *time.Time) []time.Time {
	if interval == "" || interval == "single" || end == nil {
		return []time.Time{start}
	}

	var months int
	switch interval {
	case "monthly":
		months = 1
	case "quarterly":
		months = 3
	case "yearly":
		months = 12
	default:
		return []time.Time{start}
	}

	var dates []time.Time
	for d := start; !d.After(*end); d = addMonthsClamped(d, months) {
		dates = append(dates, d)
	}
	return dates
}

// CreateBookkeepingEntry creates a manual ledger entry from a multipart
// form. With an interval and an end date it creates one entry per period;
// uploaded receipts attach to the first entry. A failed upload rolls all
// created entries back.
func CreateBookkeepingEntry(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	value := func(key string) string {
		if values := form.Value[key]; len(values) > 0 {
			return values[0]
		}
		return ""
	}

	date, err := utils.ParseDate(value("date"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
		return
	}

	entryType := value("type")
	if entryType != models.EntryIncome && entryType != models.EntryExpense {
		utils.RespondWithError(c, http.StatusBadRequest, "Type must be income or expense")
		return
	}

	amount, err := utils.ParseAmount(value("amount"))
	if err != nil || !amount.IsPositive() {
		utils.RespondWithError(c, http.StatusBadRequest, "Amount must be a positive number")
		return
	}

	categoryID, err := strconv.ParseUint(value("categoryId"), 10, 32)
	if err != nil || categoryID == 0 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid category id")
		return
	}

	var category models.Category
	dbErr := config.DB.First(&category, uint(categoryID)).Error
	if errors.Is(dbErr, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Category not found")
		return
	}
	if dbErr != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if category.Type != entryType {
		utils.RespondWithError(c, http.StatusBadRequest, "Category type does not match entry type")
		return
	}

	var endDate *time.Time
	if s := value("endDate"); s != "" {
		parsed, err := utils.ParseDate(s)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		if parsed.Before(date) {
			utils.RespondWithError(c, http.StatusBadRequest, "End date must not be before the start date")
			return
		}
		endDate = &parsed
	}

	dates := entryDates(date, value("interval"), endDate)
	description := value("description")

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	entries := make([]models.BookkeepingEntry, 0, len(dates))
	for _, d := range dates {
		entry := models.BookkeepingEntry{
			Date:        d,
			Type:        entryType,
			Amount:      amount,
			Description: description,
			CategoryID:  uint(categoryID),
		}
		if err := tx.Create(&entry).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create entry")
			return
		}
		entries = append(entries, entry)
	}

	// Receipts go on the first entry of the series.
	var savedFiles []string
	cleanup := func() {
		for _, name := range savedFiles {
			services.Files().DeleteReceipt(name)
		}
	}

	if headers := form.File["receipts"]; len(headers) > 0 {
		first := &entries[0]
		names := first.ReceiptFileList()
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				tx.Rollback()
				cleanup()
				utils.RespondWithError(c, http.StatusBadRequest, "Could not read upload "+header.Filename)
				return
			}
			content, err := io.ReadAll(io.LimitReader(file, services.MaxUploadSize+1))
			file.Close()
			if err != nil {
				tx.Rollback()
				cleanup()
				utils.RespondWithError(c, http.StatusBadRequest, "Could not read upload "+header.Filename)
				return
			}

			name, err := services.Files().SaveReceipt("entry", first.ID, header.Filename, content)
			if err != nil {
				tx.Rollback()
				cleanup()
				respondServiceError(c, err)
				return
			}
			savedFiles = append(savedFiles, name)
			names = append(names, name)
		}

		first.SetReceiptFiles(names)
		if err := tx.Model(first).Update("receipt_files", first.ReceiptFiles).Error; err != nil {
			tx.Rollback()
			cleanup()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to attach receipts")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		cleanup()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, entries)
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid year")
		return 0, false
	}
	return year, true
}

func entriesForYear(year int) ([]models.BookkeepingEntry, error) {
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var entries []models.BookkeepingEntry
	err := config.DB.
		Preload("Category").
		Where("date >= ? AND date < ?", from, to).
		Order("date, id").
		Find(&entries).Error
	return entries, err
}

// GetBookkeepingEntries lists a year's ledger, grouped into entries
// derived from invoices and manually created ones.
func GetBookkeepingEntries(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	entries, err := entriesForYear(year)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve entries")
		return
	}

	invoiceEntries := make([]models.BookkeepingEntry, 0)
	manualEntries := make([]models.BookkeepingEntry, 0)
	for _, e := range entries {
		if e.InvoiceID != nil {
			invoiceEntries = append(invoiceEntries, e)
		} else {
			manualEntries = append(manualEntries, e)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"year":           year,
		"invoiceEntries": invoiceEntries,
		"manualEntries":  manualEntries,
	})
}

type UpdateEntryInput struct {
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description *string         `json:"description"`
	CategoryID  uint            `json:"categoryId"`
}

// loadManualEntry fetches an entry and rejects invoice-derived ones,
// which are owned by the payment reconciliation.
func loadManualEntry(c *gin.Context, id uint) (*models.BookkeepingEntry, bool) {
	var entry models.BookkeepingEntry
	err := config.DB.First(&entry, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Entry not found")
		return nil, false
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return nil, false
	}
	if entry.InvoiceID != nil {
		utils.RespondWithError(c, http.StatusConflict, "Invoice-derived entries cannot be edited")
		return nil, false
	}
	return &entry, true
}

// UpdateBookkeepingEntry edits a manual entry.
func UpdateBookkeepingEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entry, ok := loadManualEntry(c, id)
	if !ok {
		return
	}

	var input UpdateEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	if input.Date != "" {
		date, err := utils.ParseDate(input.Date)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid date, expected YYYY-MM-DD")
			return
		}
		entry.Date = date
	}
	if !input.Amount.IsZero() {
		if input.Amount.IsNegative() {
			utils.RespondWithError(c, http.StatusBadRequest, "Amount must be positive")
			return
		}
		entry.Amount = input.Amount
	}
	if input.Description != nil {
		entry.Description = *input.Description
	}
	if input.CategoryID != 0 {
		var category models.Category
		err := config.DB.First(&category, input.CategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if category.Type != entry.Type {
			utils.RespondWithError(c, http.StatusBadRequest, "Category type does not match entry type")
			return
		}
		entry.CategoryID = input.CategoryID
	}

	if err := config.DB.Save(entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteBookkeepingEntry removes a manual entry and its receipt files.
func DeleteBookkeepingEntry(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entry, ok := loadManualEntry(c, id)
	if !ok {
		return
	}

	receipts := entry.ReceiptFileList()

	if err := config.DB.Delete(entry).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete entry")
		return
	}

	for _, name := range receipts {
		services.Files().DeleteReceipt(name)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// DeleteEntryReceipt detaches one receipt file from a manual entry and
// removes it from disk.
func DeleteEntryReceipt(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	entry, ok := loadManualEntry(c, id)
	if !ok {
		return
	}

	filename := c.Param("filename")
	if !services.SafeFilename(filename) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid filename")
		return
	}

	names := entry.ReceiptFileList()
	kept := names[:0]
	found := false
	for _, name := range names {
		if name == filename {
			found = true
			continue
		}
		kept = append(kept, name)
	}
	if !found {
		utils.RespondWithError(c, http.StatusNotFound, "Receipt not attached to this entry")
		return
	}

	entry.SetReceiptFiles(kept)
	if err := config.DB.Model(entry).Update("receipt_files", entry.ReceiptFiles).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update entry")
		return
	}

	services.Files().DeleteReceipt(filename)

	c.JSON(http.StatusOK, gin.H{"message": "Receipt deleted"})
}

// GetYearlyReport returns the EÜR summary for a year: totals and the
// per-category sums.
func GetYearlyReport(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	entries, err := entriesForYear(year)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve entries")
		return
	}

	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	type categorySum struct {
		Category string          `json:"category"`
		Type     string          `json:"type"`
		Total    decimal.Decimal `json:"total"`
		Count    int             `json:"count"`
	}
	sums := make(map[uint]*categorySum)

	for _, e := range entries {
		if e.Type == models.EntryIncome {
			totalIncome = totalIncome.Add(e.Amount)
		} else {
			totalExpenses = totalExpenses.Add(e.Amount)
		}

		sum := sums[e.CategoryID]
		if sum == nil {
			name := ""
			if e.Category != nil {
				name = e.Category.Name
			}
			sum = &categorySum{Category: name, Type: e.Type, Total: decimal.Zero}
			sums[e.CategoryID] = sum
		}
		sum.Total = sum.Total.Add(e.Amount)
		sum.Count++
	}

	categories := make([]categorySum, 0, len(sums))
	for _, sum := range sums {
		categories = append(categories, *sum)
	}

	c.JSON(http.StatusOK, gin.H{
		"year":          year,
		"totalIncome":   totalIncome,
		"totalExpenses": totalExpenses,
		"profit":        totalIncome.Sub(totalExpenses),
		"categories":    categories,
		"entryCount":    len(entries),
	})
}

// GetYearlyReportPDF streams the EÜR statement for a year as PDF.
func GetYearlyReportPDF(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}

	entries, err := entriesForYear(year)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve entries")
		return
	}

	var company models.Company
	if err := config.DB.First(&company, 1).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	pdf, err := services.RenderAnnualReportPDF(year, &company, entries)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render report PDF")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="EUER_`+strconv.Itoa(year)+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// GetCategories lists the bookkeeping categories.
func GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Order("type, name").Find(&categories).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}
	c.JSON(http.StatusOK, categories)
}
