package services

import (
	"buildflow-backend/models"

	"github.com/shopspring/decimal"
)

// OrderTotals is the snapshot written into an invoice.
type OrderTotals struct {
	Labor    decimal.Decimal
	Material decimal.Decimal
	Grand    decimal.Decimal
}

// WorkTotal sums the billable labor of an order's work components.
// Hours-based items contribute hours x hourly rate, area-based items
// area x price per m². Unset numeric fields count as zero.
func WorkTotal(components []models.WorkComponent) decimal.Decimal {
	total := decimal.Zero
	for _, wc := range components {
		switch wc.Basis {
		case models.BasisHours:
			total = total.Add(wc.Hours.Mul(wc.HourlyRate))
		case models.BasisArea:
			total = total.Add(wc.Area.Mul(wc.PricePerArea))
		}
	}
	return total
}

// MaterialTotal sums quantity x unit price over material components,
// with quantity defaulting to 1 when unset.
func MaterialTotal(components []models.MaterialComponent) decimal.Decimal {
	total := decimal.Zero
	for i := range components {
		total = total.Add(components[i].SellingPrice())
	}
	return total
}

// ComputeOrderTotals recomputes all three totals from current component
// state. It is called at invoice (re)generation, never cached.
func ComputeOrderTotals(work []models.WorkComponent, material []models.MaterialComponent) OrderTotals {
	labor := WorkTotal(work)
	mat := MaterialTotal(material)
	return OrderTotals{
		Labor:    labor,
		Material: mat,
		Grand:    labor.Add(mat),
	}
}
