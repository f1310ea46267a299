package models

import "time"

// Customer kinds. Business customers carry company fields, private
// customers carry first/last name.
const (
	CustomerKindPrivate  = "private"
	CustomerKindBusiness = "business"
)

type Customer struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Kind string `gorm:"not null" json:"kind"`

	// Business customer fields
	CompanyName       string `json:"companyName,omitempty"`
	LegalForm         string `json:"legalForm,omitempty"`
	ContactFirstName  string `json:"contactFirstName,omitempty"`
	ContactLastName   string `json:"contactLastName,omitempty"`

	// Private customer fields
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`

	// Billing address
	BillingStreet     string `json:"billingStreet"`
	BillingPostalCode string `json:"billingPostalCode"`
	BillingCity       string `json:"billingCity"`

	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `gorm:"type:text" json:"notes,omitempty"`

	CustomerSince *time.Time `json:"customerSince,omitempty"`

	Orders   []Order   `gorm:"foreignKey:CustomerID" json:"orders,omitempty"`
	Invoices []Invoice `gorm:"foreignKey:CustomerID" json:"invoices,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DisplayName returns the name shown on invoices and lists.
func (c *Customer) DisplayName() string {
	if c.Kind == CustomerKindBusiness {
		return c.CompanyName
	}
	return c.FirstName + " " + c.LastName
}
