package services

import (
	"os"
	"testing"
	"time"

	"buildflow-backend/models"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB connects to the integration database named by
// TEST_DATABASE_URL, skipping the test when it is not configured. Tables
// are migrated and emptied, categories reseeded and the package state
// initialized with a throwaway data directory.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	_ = godotenv.Load("../.env")
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Order{},
		&models.WorkComponent{},
		&models.MaterialComponent{},
		&models.Invoice{},
		&models.BookkeepingEntry{},
		&models.Category{},
		&models.MonthlyStatistic{},
		&models.Company{},
	)
	if err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	tables := []string{
		"bookkeeping_entries", "invoices", "work_components",
		"material_components", "orders", "customers",
		"monthly_statistics", "categories", "companies", "users",
	}
	for _, table := range tables {
		if err := db.Exec("TRUNCATE TABLE " + table + " RESTART IDENTITY CASCADE").Error; err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}

	if err := Init(db, t.TempDir(), zap.NewNop()); err != nil {
		t.Fatalf("init services: %v", err)
	}

	return db
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedOrder creates a customer and an order with one hours-based work
// component and one material component, the shape most tests need.
func seedOrder(t *testing.T, db *gorm.DB) (*models.Order, *models.WorkComponent, *models.MaterialComponent) {
	t.Helper()

	since := mustDate(t, "2026-01-10")
	customer := models.Customer{
		Kind:              models.CustomerKindPrivate,
		FirstName:         "Erika",
		LastName:          "Mustermann",
		BillingStreet:     "Musterweg 1",
		BillingPostalCode: "12345",
		BillingCity:       "Musterstadt",
		CustomerSince:     &since,
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	start := mustDate(t, "2026-02-02")
	order := models.Order{
		CustomerID:  customer.ID,
		Status:      "open",
		StartDate:   &start,
		Description: "Badsanierung",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	work := models.WorkComponent{
		OrderID:     order.ID,
		Name:        "Fliesen legen",
		Description: "Fliesen legen",
		StartDate:   &start,
		Basis:       models.BasisHours,
		Hours:       dec("16"),
		HourlyRate:  dec("45"),
	}
	if err := db.Create(&work).Error; err != nil {
		t.Fatalf("create work component: %v", err)
	}

	material := models.MaterialComponent{
		OrderID:   order.ID,
		Name:      "Fliesenkleber",
		Unit:      "Sack",
		Quantity:  dec("4"),
		UnitPrice: dec("12.50"),
	}
	if err := db.Create(&material).Error; err != nil {
		t.Fatalf("create material component: %v", err)
	}

	return &order, &work, &material
}
