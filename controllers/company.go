package controllers

import (
	"errors"
	"net/http"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CompanyInput struct {
	Name       string `json:"name" binding:"required"`
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	TaxNumber  string `json:"taxNumber"`
	Phone      string `json:"phone"`

	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	PayPal        string `json:"paypal"`
}

// GetCompany returns the company master data. Before the first update an
// empty record is returned.
func GetCompany(c *gin.Context) {
	var company models.Company
	err := config.DB.First(&company, 1).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	company.ID = 1
	c.JSON(http.StatusOK, company)
}

// UpdateCompany writes the single company record, creating it on first use.
func UpdateCompany(c *gin.Context) {
	var input CompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.PostalCode != "" && !utils.ValidatePostalCode(input.PostalCode) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid postal code")
		return
	}
	if !utils.ValidatePhone(input.Phone) {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid phone number format")
		return
	}

	company := models.Company{
		ID:            1,
		Name:          input.Name,
		Street:        input.Street,
		PostalCode:    input.PostalCode,
		City:          input.City,
		TaxNumber:     input.TaxNumber,
		Phone:         input.Phone,
		AccountHolder: input.AccountHolder,
		BankName:      input.BankName,
		IBAN:          input.IBAN,
		PayPal:        input.PayPal,
	}

	if err := config.DB.Save(&company).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update company")
		return
	}

	c.JSON(http.StatusOK, company)
}
