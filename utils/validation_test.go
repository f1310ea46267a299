package utils

import "testing"

func TestValidatePostalCode(t *testing.T) {
	tests := []struct {
		plz  string
		want bool
	}{
		{"12345", true},
		{" 80331 ", true},
		{"1234", false},
		{"123456", false},
		{"1234a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidatePostalCode(tt.plz); got != tt.want {
			t.Errorf("ValidatePostalCode(%q) = %v, want %v", tt.plz, got, tt.want)
		}
	}
}

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		phone string
		want  bool
	}{
		{"", true}, // optional
		{"+49 170 1234567", true},
		{"089-1234567", true},
		{"(030) 123 456 78", true},
		{"abc", false},
		{"12", false},
	}
	for _, tt := range tests {
		if got := ValidatePhone(tt.phone); got != tt.want {
			t.Errorf("ValidatePhone(%q) = %v, want %v", tt.phone, got, tt.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"4,50", "4.50", false},
		{"4.50", "4.50", false},
		{" 1200 ", "1200", false},
		{"0", "0", false},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.StringFixed(2) != mustStringFixed(tt.want) {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func mustStringFixed(s string) string {
	d, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return d.StringFixed(2)
}
