package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice snapshots an order's totals at generation time. The totals are
// not recomputed when components change afterwards; the order is locked
// for editing once invoiced.
type Invoice struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	OrderID    uint `gorm:"index;not null" json:"orderId"`
	CustomerID uint `gorm:"index;not null" json:"customerId"`
	CompanyID  uint `gorm:"not null" json:"companyId"`

	InvoiceDate time.Time `json:"invoiceDate"`
	DueDate     time.Time `json:"dueDate"`
	LegalNotice string    `gorm:"type:text" json:"legalNotice"`

	LaborTotal    decimal.Decimal `gorm:"type:decimal(12,2)" json:"laborTotal"`
	MaterialTotal decimal.Decimal `gorm:"type:decimal(12,2)" json:"materialTotal"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(12,2)" json:"grandTotal"`

	Paid        bool       `gorm:"default:false" json:"paid"`
	PaymentDate *time.Time `json:"paymentDate,omitempty"`

	Order    *Order    `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Customer *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	Entries []BookkeepingEntry `gorm:"foreignKey:InvoiceID" json:"entries,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
