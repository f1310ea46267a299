package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"buildflow-backend/models"

	"github.com/gin-gonic/gin"
)

func TestEntryDates(t *testing.T) {
	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			t.Fatalf("parse %q: %v", s, err)
		}
		return d
	}
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name     string
		start    string
		interval string
		end      *time.Time
		want     []string
	}{
		{
			name:     "single without end date",
			start:    "2026-03-15",
			interval: "single",
			want:     []string{"2026-03-15"},
		},
		{
			name:     "unknown interval falls back to single",
			start:    "2026-03-15",
			interval: "weekly",
			end:      ptr(day("2026-06-15")),
			want:     []string{"2026-03-15"},
		},
		{
			name:     "monthly mid-month",
			start:    "2026-03-15",
			interval: "monthly",
			end:      ptr(day("2026-06-15")),
			want:     []string{"2026-03-15", "2026-04-15", "2026-05-15", "2026-06-15"},
		},
		{
			name:     "monthly from the 31st clamps to short months",
			start:    "2026-01-31",
			interval: "monthly",
			end:      ptr(day("2026-04-30")),
			want:     []string{"2026-01-31", "2026-02-28", "2026-03-28", "2026-04-28"},
		},
		{
			name:     "quarterly over a year",
			start:    "2026-01-01",
			interval: "quarterly",
			end:      ptr(day("2026-12-31")),
			want:     []string{"2026-01-01", "2026-04-01", "2026-07-01", "2026-10-01"},
		},
		{
			name:     "quarterly from Nov 30 clamps February",
			start:    "2025-11-30",
			interval: "quarterly",
			end:      ptr(day("2026-06-30")),
			want:     []string{"2025-11-30", "2026-02-28", "2026-05-28"},
		},
		{
			name:     "yearly from leap day clamps",
			start:    "2024-02-29",
			interval: "yearly",
			end:      ptr(day("2026-03-01")),
			want:     []string{"2024-02-29", "2025-02-28", "2026-02-28"},
		},
		{
			name:     "end before second period",
			start:    "2026-03-15",
			interval: "monthly",
			end:      ptr(day("2026-04-01")),
			want:     []string{"2026-03-15"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := entryDates(day(tt.start), tt.interval, tt.end)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d dates, want %d: %v", len(got), len(tt.want), got)
			}
			for i, want := range tt.want {
				if got[i].Format("2006-01-02") != want {
					t.Errorf("date[%d] = %s, want %s", i, got[i].Format("2006-01-02"), want)
				}
			}
		})
	}
}

func TestCreateEntryRejectedUploadRollsBack(t *testing.T) {
	db := setupTestDB(t)

	var category models.Category
	if err := db.Where("name = ? AND type = ?", "Miete", models.EntryExpense).First(&category).Error; err != nil {
		t.Fatalf("load category: %v", err)
	}

	body, contentType := multipartBody(t,
		map[string]string{
			"date":        "2026-03-01",
			"endDate":     "2026-05-01",
			"interval":    "monthly",
			"type":        models.EntryExpense,
			"amount":      "850,00",
			"description": "Lagermiete",
			"categoryId":  itoa(category.ID),
		},
		[]uploadFile{
			{field: "receipts", filename: "mietvertrag.pdf", content: []byte("not a real pdf")},
		},
	)

	r := gin.New()
	r.POST("/api/bookkeeping/entries", CreateBookkeepingEntry)

	req := httptest.NewRequest(http.MethodPost, "/api/bookkeeping/entries", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body: %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.BookkeepingEntry{}).Count(&count).Error; err != nil {
		t.Fatalf("count entries: %v", err)
	}
	if count != 0 {
		t.Errorf("%d entries survived a rejected upload, want 0", count)
	}
	if files := receiptsOnDisk(t); len(files) != 0 {
		t.Errorf("files left in store after rollback: %v", files)
	}
}
