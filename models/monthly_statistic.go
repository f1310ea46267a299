package models

import "time"

// StatCategory names a monthly statistic series. The German labels are kept
// as stored values; they appear verbatim in the statistics table.
type StatCategory string

const (
	StatRevenue      StatCategory = "Umsatz"
	StatLaborCost    StatCategory = "Lohnkosten"
	StatMaterialCost StatCategory = "Materialkosten"
	StatHours        StatCategory = "Arbeitsstunden"
	StatOrders       StatCategory = "Aufträge"
	StatInquiries    StatCategory = "Kundenanfragen"
	StatNewCustomers StatCategory = "Neukunden"
)

// Unit returns the display unit for a statistic series.
func (c StatCategory) Unit() string {
	switch c {
	case StatRevenue, StatLaborCost, StatMaterialCost:
		return "€"
	case StatOrders, StatInquiries, StatNewCustomers:
		return "Stück"
	case StatHours:
		return "Stunden"
	}
	return ""
}

// MonthlyStatistic holds one aggregated value per (month, category). Rows
// are append-only: once recorded a pair is never updated, later runs only
// fill gaps.
type MonthlyStatistic struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	Date     time.Time    `gorm:"not null;uniqueIndex:idx_stat_month_category" json:"date"`
	Category StatCategory `gorm:"not null;uniqueIndex:idx_stat_month_category" json:"category"`
	Value    float64      `gorm:"not null" json:"value"`
	Unit     string       `json:"unit"`
}
