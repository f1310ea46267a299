package controllers

import (
	"errors"
	"net/http"
	"time"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CustomerInput is the payload for creating and updating customers. The
// required name fields depend on the customer kind.
type CustomerInput struct {
	Kind string `json:"kind" binding:"required,oneof=private business"`

	CompanyName      string `json:"companyName"`
	LegalForm        string `json:"legalForm"`
	ContactFirstName string `json:"contactFirstName"`
	ContactLastName  string `json:"contactLastName"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`

	BillingStreet     string `json:"billingStreet" binding:"required"`
	BillingPostalCode string `json:"billingPostalCode" binding:"required"`
	BillingCity       string `json:"billingCity" binding:"required"`

	Email string `json:"email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`

	CustomerSince string `json:"customerSince"`
}

func (in *CustomerInput) validate() string {
	switch in.Kind {
	case models.CustomerKindBusiness:
		if in.CompanyName == "" {
			return "Company name is required for business customers"
		}
	case models.CustomerKindPrivate:
		if in.FirstName == "" || in.LastName == "" {
			return "First and last name are required for private customers"
		}
	}
	if !utils.ValidatePostalCode(in.BillingPostalCode) {
		return "Invalid postal code"
	}
	if !utils.ValidatePhone(in.Phone) {
		return "Invalid phone number format"
	}
	return ""
}

func (in *CustomerInput) apply(customer *models.Customer) error {
	customer.Kind = in.Kind
	customer.CompanyName = in.CompanyName
	customer.LegalForm = in.LegalForm
	customer.ContactFirstName = in.ContactFirstName
	customer.ContactLastName = in.ContactLastName
	customer.FirstName = in.FirstName
	customer.LastName = in.LastName
	customer.BillingStreet = in.BillingStreet
	customer.BillingPostalCode = in.BillingPostalCode
	customer.BillingCity = in.BillingCity
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Notes = in.Notes

	if in.CustomerSince != "" {
		since, err := utils.ParseDate(in.CustomerSince)
		if err != nil {
			return err
		}
		customer.CustomerSince = &since
	}
	return nil
}

// CreateCustomer creates a customer record.
func CreateCustomer(c *gin.Context) {
	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	var customer models.Customer
	if err := input.apply(&customer); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customerSince date, expected YYYY-MM-DD")
		return
	}
	if customer.CustomerSince == nil {
		now := utils.BeginningOfDay(time.Now().UTC())
		customer.CustomerSince = &now
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// GetCustomers lists all customers, newest first.
func GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := config.DB.Order("created_at DESC").Find(&customers).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer returns one customer with their orders.
func GetCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	err := config.DB.Preload("Orders").First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// UpdateCustomer replaces a customer's editable fields.
func UpdateCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	err := config.DB.First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var input CustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if msg := input.validate(); msg != "" {
		utils.RespondWithError(c, http.StatusBadRequest, msg)
		return
	}

	if err := input.apply(&customer); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid customerSince date, expected YYYY-MM-DD")
		return
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes a customer without orders. Customers with orders
// are protected; the orders must be deleted first.
func DeleteCustomer(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var customer models.Customer
	err := config.DB.First(&customer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	var orderCount int64
	if err := config.DB.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orderCount).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if orderCount > 0 {
		utils.RespondWithError(c, http.StatusConflict, "Customer has orders and cannot be deleted")
		return
	}

	if err := config.DB.Delete(&customer).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
