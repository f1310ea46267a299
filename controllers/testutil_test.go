package controllers

import (
	"bytes"
	"mime/multipart"
	"os"
	"strconv"
	"testing"
	"time"

	"buildflow-backend/config"
	"buildflow-backend/models"
	"buildflow-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupTestDB wires config.DB to the integration database named by
// TEST_DATABASE_URL, skipping the test when it is not configured. Tables
// are migrated and emptied, categories reseeded and the service state
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

	if err := services.Init(db, t.TempDir(), zap.NewNop()); err != nil {
		t.Fatalf("init services: %v", err)
	}

	config.DB = db
	gin.SetMode(gin.TestMode)
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

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// seedInvoice creates a paid-ready setup: customer, order, one work and
// one material component, and an open invoice.
func seedInvoice(t *testing.T, db *gorm.DB) (*models.Invoice, *models.MaterialComponent) {
	t.Helper()

	customer := models.Customer{
		Kind:              models.CustomerKindPrivate,
		FirstName:         "Erika",
		LastName:          "Mustermann",
		BillingStreet:     "Musterweg 1",
		BillingPostalCode: "12345",
		BillingCity:       "Musterstadt",
	}
	if err := db.Create(&customer).Error; err != nil {
		t.Fatalf("create customer: %v", err)
	}

	order := models.Order{CustomerID: customer.ID, Status: "open"}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create order: %v", err)
	}

	work := models.WorkComponent{
		OrderID:    order.ID,
		Name:       "Fliesen legen",
		Basis:      models.BasisHours,
		Hours:      dec("16"),
		HourlyRate: dec("45"),
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

	invoice, err := services.CreateInvoice(db, order.ID, mustDate(t, "2026-03-01"))
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	return invoice, &material
}

// multipartBody builds a multipart form from fields and in-memory files.
type uploadFile struct {
	field    string
	filename string
	content  []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []uploadFile) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("create form file %s: %v", f.field, err)
		}
		if _, err := part.Write(f.content); err != nil {
			t.Fatalf("write form file %s: %v", f.field, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

// receiptsOnDisk lists the files currently stored in the receipts dir.
func receiptsOnDisk(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(services.Files().ReceiptsDir)
	if err != nil {
		t.Fatalf("read receipts dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
