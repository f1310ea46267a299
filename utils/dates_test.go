package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2026-02-02")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.February || got.Day() != 2 {
		t.Errorf("ParseDate = %v", got)
	}

	if _, err := ParseDate("02.02.2026"); err == nil {
		t.Error("German date format accepted, want error")
	}
	if _, err := ParseDate(""); err == nil {
		t.Error("empty date accepted, want error")
	}
}

func TestBeginningOfMonth(t *testing.T) {
	in := time.Date(2026, 3, 17, 14, 30, 5, 0, time.Local)
	got := BeginningOfMonth(in)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("BeginningOfMonth = %v, want %v", got, want)
	}
}

func TestBeginningOfDay(t *testing.T) {
	in := time.Date(2026, 3, 17, 23, 59, 59, 0, time.UTC)
	got := BeginningOfDay(in)
	if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
		t.Errorf("BeginningOfDay = %v", got)
	}
	if got.Day() != 17 {
		t.Errorf("day changed: %v", got)
	}
}
