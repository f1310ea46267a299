package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/services"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateInvoiceInput struct {
	OrderID     uint   `json:"orderId" binding:"required"`
	InvoiceDate string `json:"invoiceDate"`
}

type InvoiceStatusInput struct {
	Paid        *bool  `json:"paid" binding:"required"`
	PaymentDate string `json:"paymentDate"`
}

// invoicePDFData loads everything the PDF renderer needs.
func invoicePDFData(db *gorm.DB, invoice *models.Invoice) (*models.Customer, *models.Order, []models.WorkComponent, []models.MaterialComponent, *models.Company, error) {
	var customer models.Customer
	if err := db.First(&customer, invoice.CustomerID).Error; err != nil {
		return nil, nil, nil, nil, nil, err
	}
	var order models.Order
	if err := db.First(&order, invoice.OrderID).Error; err != nil {
		return nil, nil, nil, nil, nil, err
	}
	var work []models.WorkComponent
	if err := db.Where("order_id = ?", invoice.OrderID).Order("id").Find(&work).Error; err != nil {
		return nil, nil, nil, nil, nil, err
	}
	var materials []models.MaterialComponent
	if err := db.Where("order_id = ?", invoice.OrderID).Order("id").Find(&materials).Error; err != nil {
		return nil, nil, nil, nil, nil, err
	}
	var company models.Company
	if err := db.First(&company, invoice.CompanyID).Error; err != nil {
		return nil, nil, nil, nil, nil, err
	}
	return &customer, &order, work, materials, &company, nil
}

// CreateInvoice generates an invoice for an order and renders its PDF. A
// failed render rolls the whole creation back so no invoice exists
// without its document.
func CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoiceDate := utils.BeginningOfDay(time.Now().UTC())
	if input.InvoiceDate != "" {
		parsed, err := utils.ParseDate(input.InvoiceDate)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice date, expected YYYY-MM-DD")
			return
		}
		invoiceDate = parsed
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	invoice, err := services.CreateInvoice(tx, input.OrderID, invoiceDate)
	if err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	customer, order, work, materials, company, err := invoicePDFData(tx, invoice)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	pdfPath, err := services.RenderInvoicePDF(invoice, customer, order, work, materials, company)
	if err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render invoice PDF")
		return
	}

	if err := tx.Commit().Error; err != nil {
		os.Remove(pdfPath)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices lists invoices, optionally filtered with ?status=open|paid,
// together with open/paid counts.
func GetInvoices(c *gin.Context) {
	query := config.DB.Preload("Customer").Preload("Order").Order("invoice_date DESC, id DESC")

	switch c.Query("status") {
	case "open":
		query = query.Where("paid = ?", false)
	case "paid":
		query = query.Where("paid = ?", true)
	case "":
	default:
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid status filter, expected open or paid")
		return
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	var openCount, paidCount int64
	if err := config.DB.Model(&models.Invoice{}).Where("paid = ?", false).Count(&openCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if err := config.DB.Model(&models.Invoice{}).Where("paid = ?", true).Count(&paidCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"invoices":  invoices,
		"openCount": openCount,
		"paidCount": paidCount,
	})
}

// GetInvoice returns one invoice with customer, order components and the
// derived ledger entries.
func GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	err := config.DB.
		Preload("Customer").
		Preload("Order").
		Preload("Order.WorkComponents").
		Preload("Order.MaterialComponents").
		Preload("Entries").
		First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// SetInvoiceStatus flips an invoice between paid and unpaid. Paid with a
// new date replaces the payment date and re-emits the ledger entries.
func SetInvoiceStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input InvoiceStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var paymentDate *time.Time
	if input.PaymentDate != "" {
		// An unparseable date falls back to today, same as an absent one.
		if parsed, err := utils.ParseDate(input.PaymentDate); err == nil {
			paymentDate = &parsed
		}
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	invoice, err := services.SetInvoicePaid(tx, id, *input.Paid, paymentDate)
	if err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// RecordMaterialCosts stores actual material costs for an invoice from a
// multipart form. Cost fields are named cost_<materialId> and accept
// German decimal notation; receipt files are named receipt_<materialId>.
// A missing or unparseable cost date falls back to the invoice date. A
// failed upload rolls back the recorded costs and removes any files
// already written.
func RecordMaterialCosts(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	var costDate *time.Time
	if values := form.Value["date"]; len(values) > 0 && values[0] != "" {
		if parsed, err := utils.ParseDate(values[0]); err == nil {
			costDate = &parsed
		}
	}

	costs := make(map[uint]decimal.Decimal)
	for key, values := range form.Value {
		if !strings.HasPrefix(key, "cost_") || len(values) == 0 || values[0] == "" {
			continue
		}
		materialID, parseErr := parseUintField(strings.TrimPrefix(key, "cost_"))
		if parseErr != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid material id in field "+key)
			return
		}
		amount, parseErr := utils.ParseAmount(values[0])
		if parseErr != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid amount in field "+key)
			return
		}
		costs[materialID] = amount
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := services.RecordMaterialCosts(tx, id, costDate, costs); err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	// Attach uploaded receipts to their materials.
	var savedFiles []string
	cleanup := func() {
		for _, name := range savedFiles {
			services.Files().DeleteReceipt(name)
		}
	}

	for key, headers := range form.File {
		if !strings.HasPrefix(key, "receipt_") {
			continue
		}
		materialID, parseErr := parseUintField(strings.TrimPrefix(key, "receipt_"))
		if parseErr != nil {
			tx.Rollback()
			cleanup()
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid material id in field "+key)
			return
		}

		var material models.MaterialComponent
		if err := tx.First(&material, materialID).Error; err != nil {
			tx.Rollback()
			cleanup()
			utils.RespondWithError(c, http.StatusNotFound, "Material component not found")
			return
		}

		names := material.ReceiptFileList()
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

			name, err := services.Files().SaveReceipt("material", materialID, header.Filename, content)
			if err != nil {
				tx.Rollback()
				cleanup()
				respondServiceError(c, err)
				return
			}
			savedFiles = append(savedFiles, name)
			names = append(names, name)
		}

		if err := tx.Model(&material).Update("receipt_files", strings.Join(names, ",")).Error; err != nil {
			tx.Rollback()
			cleanup()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to attach receipts")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		cleanup()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to record material costs")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Material costs recorded"})
}

// DeleteInvoice removes an invoice, its ledger entries and the recorded
// material cost data. Files are deleted best-effort after the commit.
func DeleteInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	orphanedFiles, err := services.DeleteInvoice(tx, id)
	if err != nil {
		tx.Rollback()
		respondServiceError(c, err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	for _, name := range orphanedFiles {
		services.Files().DeleteReceipt(name)
	}
	services.Files().DeleteInvoicePDF(id)

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}

// GetInvoicePDF streams the rendered invoice document, re-rendering it
// when the artifact is missing on disk.
func GetInvoicePDF(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var invoice models.Invoice
	err := config.DB.First(&invoice, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	path := services.Files().InvoicePDFPath(invoice.ID)
	if _, statErr := os.Stat(path); statErr != nil {
		customer, order, work, materials, company, loadErr := invoicePDFData(config.DB, &invoice)
		if loadErr != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			return
		}
		if _, renderErr := services.RenderInvoicePDF(&invoice, customer, order, work, materials, company); renderErr != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to render invoice PDF")
			return
		}
	}

	c.FileAttachment(path, fmt.Sprintf("Rechnung_%d.pdf", invoice.ID))
}
