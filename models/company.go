package models

import "time"

// Company holds the business master data printed on invoices and the EÜR
// report. A single row with id 1 is expected.
type Company struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name       string `json:"name"`
	Street     string `json:"street"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	TaxNumber  string `json:"taxNumber"`
	Phone      string `json:"phone"`

	AccountHolder string `json:"accountHolder"`
	BankName      string `json:"bankName"`
	IBAN          string `json:"iban"`
	PayPal        string `json:"paypal"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
