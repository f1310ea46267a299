package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculation bases for work components. Hours-based components are billed
// as hours x hourly rate, area-based components as area x price per m².
const (
	BasisHours = "hours"
	BasisArea  = "area"
)

type WorkComponent struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"orderId"`

	Name        string `json:"name"`
	Description string `gorm:"type:text" json:"description"`

	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`

	// Exactly one pair is populated depending on Basis.
	Basis        string          `json:"basis"`
	Hours        decimal.Decimal `gorm:"type:decimal(10,2)" json:"hours"`
	HourlyRate   decimal.Decimal `gorm:"type:decimal(10,2)" json:"hourlyRate"`
	Area         decimal.Decimal `gorm:"type:decimal(10,2)" json:"area"`
	PricePerArea decimal.Decimal `gorm:"type:decimal(10,2)" json:"pricePerArea"`

	CategoryID *uint `gorm:"index" json:"categoryId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
