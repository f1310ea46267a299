package models

import "time"

type Order struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CustomerID uint `gorm:"index;not null" json:"customerId"`

	Status      string     `json:"status"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	Description string     `json:"description"`

	// Address of the construction site, may differ from the billing address.
	SiteStreet     string `json:"siteStreet"`
	SitePostalCode string `json:"sitePostalCode"`
	SiteCity       string `json:"siteCity"`

	Customer           *Customer           `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	WorkComponents     []WorkComponent     `gorm:"foreignKey:OrderID" json:"workComponents,omitempty"`
	MaterialComponents []MaterialComponent `gorm:"foreignKey:OrderID" json:"materialComponents,omitempty"`
	Invoices           []Invoice           `gorm:"foreignKey:OrderID" json:"invoices,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
