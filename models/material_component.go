package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type MaterialComponent struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"index;not null" json:"orderId"`

	Name string `gorm:"not null" json:"name"`
	Unit string `json:"unit"`

	// Quantities allow three decimal places (e.g. 2.375 m³).
	Quantity  decimal.Decimal `gorm:"type:decimal(10,3);default:1" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"unitPrice"`

	// ActualCost is what was actually paid for the material, entered later
	// from the supplier receipt. Nil until recorded.
	ActualCost *decimal.Decimal `gorm:"type:decimal(10,2)" json:"actualCost,omitempty"`

	// Comma-separated receipt file names in the receipts directory.
	ReceiptFiles string `json:"receiptFiles,omitempty"`

	CategoryID *uint `gorm:"index" json:"categoryId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SellingPrice is quantity x unit price, with quantity defaulting to 1
// when not set.
func (m *MaterialComponent) SellingPrice() decimal.Decimal {
	qty := m.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	return qty.Mul(m.UnitPrice)
}

// ReceiptFileList splits the stored comma-separated receipt names.
func (m *MaterialComponent) ReceiptFileList() []string {
	if m.ReceiptFiles == "" {
		return nil
	}
	var files []string
	for _, f := range strings.Split(m.ReceiptFiles, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	return files
}
