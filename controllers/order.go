package controllers

import (
	"errors"
	"net/http"
	"time"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/services"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type WorkComponentInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`

	Basis        string          `json:"basis" binding:"required,oneof=hours area"`
	Hours        decimal.Decimal `json:"hours"`
	HourlyRate   decimal.Decimal `json:"hourlyRate"`
	Area         decimal.Decimal `json:"area"`
	PricePerArea decimal.Decimal `json:"pricePerArea"`
}

type MaterialComponentInput struct {
	Name      string          `json:"name" binding:"required"`
	Unit      string          `json:"unit"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// OrderInput creates an order together with its components in one request.
type OrderInput struct {
	CustomerID  uint   `json:"customerId" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`

	SiteStreet     string `json:"siteStreet"`
	SitePostalCode string `json:"sitePostalCode"`
	SiteCity       string `json:"siteCity"`

	WorkComponents     []WorkComponentInput     `json:"workComponents"`
	MaterialComponents []MaterialComponentInput `json:"materialComponents"`
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func buildWorkComponent(in *WorkComponentInput) (*models.WorkComponent, string) {
	start, err := parseOptionalDate(in.StartDate)
	if err != nil {
		return nil, "Invalid work component start date, expected YYYY-MM-DD"
	}
	end, err := parseOptionalDate(in.EndDate)
	if err != nil {
		return nil, "Invalid work component end date, expected YYYY-MM-DD"
	}

	wc := models.WorkComponent{
		Name:        in.Name,
		Description: in.Description,
		StartDate:   start,
		EndDate:     end,
		Basis:       in.Basis,
	}
	laborCat := services.WellKnown().LaborRevenue
	wc.CategoryID = &laborCat

	switch in.Basis {
	case models.BasisHours:
		if in.Hours.IsNegative() || in.HourlyRate.IsNegative() {
			return nil, "Hours and hourly rate must not be negative"
		}
		wc.Hours = in.Hours
		wc.HourlyRate = in.HourlyRate
	case models.BasisArea:
		if in.Area.IsNegative() || in.PricePerArea.IsNegative() {
			return nil, "Area and price per area must not be negative"
		}
		wc.Area = in.Area
		wc.PricePerArea = in.PricePerArea
	}
	return &wc, ""
}

func buildMaterialComponent(in *MaterialComponentInput) (*models.MaterialComponent, string) {
	if in.Quantity.IsNegative() || in.UnitPrice.IsNegative() {
		return nil, "Quantity and unit price must not be negative"
	}
	qty := in.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	materialCat := services.WellKnown().MaterialRevenue
	return &models.MaterialComponent{
		Name:       in.Name,
		Unit:       in.Unit,
		Quantity:   qty,
		UnitPrice:  in.UnitPrice,
		CategoryID: &materialCat,
	}, ""
}

// earliestStart picks the order start date from its work components.
func earliestStart(components []models.WorkComponent) *time.Time {
	var earliest *time.Time
	for i := range components {
		start := components[i].StartDate
		if start == nil {
			continue
		}
		if earliest == nil || start.Before(*earliest) {
			earliest = start
		}
	}
	return earliest
}

// CreateOrder creates an order with its work and material components in a
// single transaction. The order start date is derived from the earliest
// work component start.
func CreateOrder(c *gin.Context) {
	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	err := config.DB.First(&customer, input.CustomerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	order := models.Order{
		CustomerID:     input.CustomerID,
		Description:    input.Description,
		Status:         input.Status,
		SiteStreet:     input.SiteStreet,
		SitePostalCode: input.SitePostalCode,
		SiteCity:       input.SiteCity,
	}
	if order.Status == "" {
		order.Status = "open"
	}

	var work []models.WorkComponent
	for i := range input.WorkComponents {
		wc, msg := buildWorkComponent(&input.WorkComponents[i])
		if msg != "" {
			utils.RespondWithError(c, http.StatusBadRequest, msg)
			return
		}
		work = append(work, *wc)
	}

	var materials []models.MaterialComponent
	for i := range input.MaterialComponents {
		mk, msg := buildMaterialComponent(&input.MaterialComponents[i])
		if msg != "" {
			utils.RespondWithError(c, http.StatusBadRequest, msg)
			return
		}
		materials = append(materials, *mk)
	}

	order.StartDate = earliestStart(work)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}
	for i := range work {
		work[i].OrderID = order.ID
		if err := tx.Create(&work[i]).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create work component")
			return
		}
	}
	for i := range materials {
		materials[i].OrderID = order.ID
		if err := tx.Create(&materials[i]).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create material component")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	order.WorkComponents = work
	order.MaterialComponents = materials
	c.JSON(http.StatusCreated, order)
}

// GetOrders lists all orders with customer and components.
func GetOrders(c *gin.Context) {
	var orders []models.Order
	err := config.DB.
		Preload("Customer").
		Preload("WorkComponents").
		Preload("MaterialComponents").
		Preload("Invoices").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder returns one order with everything attached, plus the current
// component totals.
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var order models.Order
	err := config.DB.
		Preload("Customer").
		Preload("WorkComponents").
		Preload("MaterialComponents").
		Preload("Invoices").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	totals := services.ComputeOrderTotals(order.WorkComponents, order.MaterialComponents)
	c.JSON(http.StatusOK, gin.H{
		"order":         order,
		"laborTotal":    totals.Labor,
		"materialTotal": totals.Material,
		"grandTotal":    totals.Grand,
	})
}

// UpdateOrder replaces an order's fields and components. Orders that have
// been invoiced are locked; the invoice must be deleted first.
func UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var order models.Order
	err := config.DB.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var invoiceCount int64
	if err := config.DB.Model(&models.Invoice{}).Where("order_id = ?", id).Count(&invoiceCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if invoiceCount > 0 {
		respondServiceError(c, services.ErrOrderInvoiced)
		return
	}

	var input OrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var work []models.WorkComponent
	for i := range input.WorkComponents {
		wc, msg := buildWorkComponent(&input.WorkComponents[i])
		if msg != "" {
			utils.RespondWithError(c, http.StatusBadRequest, msg)
			return
		}
		wc.OrderID = order.ID
		work = append(work, *wc)
	}

	var materials []models.MaterialComponent
	for i := range input.MaterialComponents {
		mk, msg := buildMaterialComponent(&input.MaterialComponents[i])
		if msg != "" {
			utils.RespondWithError(c, http.StatusBadRequest, msg)
			return
		}
		mk.OrderID = order.ID
		materials = append(materials, *mk)
	}

	order.CustomerID = input.CustomerID
	order.Description = input.Description
	if input.Status != "" {
		order.Status = input.Status
	}
	order.SiteStreet = input.SiteStreet
	order.SitePostalCode = input.SitePostalCode
	order.SiteCity = input.SiteCity
	order.StartDate = earliestStart(work)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	if err := tx.Where("order_id = ?", order.ID).Delete(&models.WorkComponent{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	if err := tx.Where("order_id = ?", order.ID).Delete(&models.MaterialComponent{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}
	for i := range work {
		if err := tx.Create(&work[i]).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
			return
		}
	}
	for i := range materials {
		if err := tx.Create(&materials[i]).Error; err != nil {
			tx.Rollback()
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
			return
		}
	}
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	order.WorkComponents = work
	order.MaterialComponents = materials
	c.JSON(http.StatusOK, order)
}

// DeleteOrder removes an order with its invoices, their ledger entries and
// all components. Receipt files and the invoice PDF are cleaned up after
// the transaction commits.
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var order models.Order
	err := config.DB.First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var invoices []models.Invoice
	if err := config.DB.Where("order_id = ?", id).Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var orphanedFiles []string
	for _, invoice := range invoices {
		files, err := services.DeleteInvoice(tx, invoice.ID)
		if err != nil {
			tx.Rollback()
			respondServiceError(c, err)
			return
		}
		orphanedFiles = append(orphanedFiles, files...)
	}

	if err := tx.Where("order_id = ?", id).Delete(&models.WorkComponent{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}
	if err := tx.Where("order_id = ?", id).Delete(&models.MaterialComponent{}).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}
	if err := tx.Delete(&order).Error; err != nil {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete order")
		return
	}

	for _, name := range orphanedFiles {
		services.Files().DeleteReceipt(name)
	}
	for _, invoice := range invoices {
		services.Files().DeleteInvoicePDF(invoice.ID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted"})
}
