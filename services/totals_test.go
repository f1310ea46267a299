package services

import (
	"testing"

	"buildflow-backend/models"
)

func TestComputeOrderTotals(t *testing.T) {
	work := []models.WorkComponent{
		{Basis: models.BasisHours, Hours: dec("5"), HourlyRate: dec("20")},
		{Basis: models.BasisArea, Area: dec("10"), PricePerArea: dec("8")},
	}
	materials := []models.MaterialComponent{
		{Quantity: dec("2"), UnitPrice: dec("15")},
	}

	totals := ComputeOrderTotals(work, materials)

	if !totals.Labor.Equal(dec("180")) {
		t.Errorf("labor total = %s, want 180", totals.Labor)
	}
	if !totals.Material.Equal(dec("30")) {
		t.Errorf("material total = %s, want 30", totals.Material)
	}
	if !totals.Grand.Equal(dec("210")) {
		t.Errorf("grand total = %s, want 210", totals.Grand)
	}
}

func TestWorkTotal(t *testing.T) {
	tests := []struct {
		name string
		work []models.WorkComponent
		want string
	}{
		{
			name: "empty",
			work: nil,
			want: "0",
		},
		{
			name: "hours basis",
			work: []models.WorkComponent{
				{Basis: models.BasisHours, Hours: dec("8"), HourlyRate: dec("50")},
			},
			want: "400",
		},
		{
			name: "area basis",
			work: []models.WorkComponent{
				{Basis: models.BasisArea, Area: dec("24"), PricePerArea: dec("12.50")},
			},
			want: "300",
		},
		{
			name: "unset numeric fields count as zero",
			work: []models.WorkComponent{
				{Basis: models.BasisHours, Hours: dec("8")},
				{Basis: models.BasisArea, PricePerArea: dec("9")},
			},
			want: "0",
		},
		{
			name: "unknown basis ignored",
			work: []models.WorkComponent{
				{Basis: "flat", Hours: dec("8"), HourlyRate: dec("50")},
			},
			want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WorkTotal(tt.work)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("WorkTotal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestMaterialTotalQuantityDefault(t *testing.T) {
	materials := []models.MaterialComponent{
		{UnitPrice: dec("99.90")},                       // quantity unset, counts as 1
		{Quantity: dec("0.5"), UnitPrice: dec("100")},
	}

	got := MaterialTotal(materials)
	if !got.Equal(dec("149.90")) {
		t.Errorf("MaterialTotal() = %s, want 149.90", got)
	}
}
