package services

import (
	"testing"
	"time"

	"buildflow-backend/models"
)

func TestCollectMonthlyBuckets(t *testing.T) {
	feb := mustDate(t, "2026-02-02")
	mar := mustDate(t, "2026-03-15")

	invoices := []models.Invoice{
		{InvoiceDate: mar, GrandTotal: dec("770")},
		{InvoiceDate: mar, GrandTotal: dec("230")},
	}
	work := []models.WorkComponent{
		{StartDate: &feb, Basis: models.BasisHours, Hours: dec("16"), HourlyRate: dec("45")},
		{StartDate: &feb, Basis: models.BasisArea, Area: dec("24"), PricePerArea: dec("8")},
	}
	orders := []models.Order{
		{StartDate: &feb},
	}
	customers := []models.Customer{
		{CustomerSince: &feb},
	}

	buckets := collectMonthly(invoices, work, orders, customers)

	febKey := monthKey{Year: 2026, Month: time.February}
	marKey := monthKey{Year: 2026, Month: time.March}

	if got := buckets[marKey][models.StatRevenue]; got != 1000 {
		t.Errorf("revenue = %v, want 1000", got)
	}
	if got := buckets[febKey][models.StatLaborCost]; got != 720 {
		t.Errorf("labor cost = %v, want 720", got)
	}
	if got := buckets[febKey][models.StatHours]; got != 16 {
		t.Errorf("hours = %v, want 16", got)
	}
	// Area-based labor revenue is filed under Materialkosten.
	if got := buckets[febKey][models.StatMaterialCost]; got != 192 {
		t.Errorf("material cost = %v, want 192", got)
	}
	if got := buckets[febKey][models.StatOrders]; got != 1 {
		t.Errorf("orders = %v, want 1", got)
	}
	if buckets[febKey][models.StatInquiries] != buckets[febKey][models.StatNewCustomers] {
		t.Error("inquiries and new customers must move together")
	}
	if got := buckets[febKey][models.StatNewCustomers]; got != 1 {
		t.Errorf("new customers = %v, want 1", got)
	}
}

func TestCollectMonthlySkipsUndatedRecords(t *testing.T) {
	buckets := collectMonthly(nil,
		[]models.WorkComponent{{Basis: models.BasisHours, Hours: dec("8"), HourlyRate: dec("40")}},
		[]models.Order{{}},
		[]models.Customer{{}},
	)
	if len(buckets) != 0 {
		t.Errorf("got %d buckets, want 0 for undated records", len(buckets))
	}
}

func TestStatCategoryUnits(t *testing.T) {
	tests := []struct {
		cat  models.StatCategory
		want string
	}{
		{models.StatRevenue, "€"},
		{models.StatLaborCost, "€"},
		{models.StatMaterialCost, "€"},
		{models.StatHours, "Stunden"},
		{models.StatOrders, "Stück"},
		{models.StatInquiries, "Stück"},
		{models.StatNewCustomers, "Stück"},
	}
	for _, tt := range tests {
		if got := tt.cat.Unit(); got != tt.want {
			t.Errorf("%s unit = %q, want %q", tt.cat, got, tt.want)
		}
	}
}

func TestRefreshIsAppendOnly(t *testing.T) {
	db := setupTestDB(t)
	seedOrder(t, db)

	svc := NewStatisticsService(db, nil)

	inserted, err := svc.Refresh()
	if err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if inserted == 0 {
		t.Fatal("first refresh inserted nothing")
	}

	again, err := svc.Refresh()
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if again != 0 {
		t.Errorf("second refresh inserted %d rows, want 0", again)
	}
}

func TestRefreshKeepsStaleValues(t *testing.T) {
	db := setupTestDB(t)
	order, _, _ := seedOrder(t, db)

	svc := NewStatisticsService(db, nil)
	if _, err := svc.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	monthStart := mustDate(t, "2026-02-01")
	var before models.MonthlyStatistic
	err := db.Where("date = ? AND category = ?", monthStart, models.StatOrders).First(&before).Error
	if err != nil {
		t.Fatalf("load statistic: %v", err)
	}

	// New source data in an already-recorded month must not change the row.
	start := mustDate(t, "2026-02-20")
	second := models.Order{CustomerID: order.CustomerID, Status: "open", StartDate: &start}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := svc.Refresh(); err != nil {
		t.Fatalf("refresh after change: %v", err)
	}

	var after models.MonthlyStatistic
	if err := db.Where("date = ? AND category = ?", monthStart, models.StatOrders).First(&after).Error; err != nil {
		t.Fatalf("reload statistic: %v", err)
	}
	if after.Value != before.Value {
		t.Errorf("recorded value changed from %v to %v", before.Value, after.Value)
	}
}
