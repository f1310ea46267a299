package utils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	postalCodeRegex = regexp.MustCompile(`^\d{5}$`)
	phoneRegex      = regexp.MustCompile(`^\+?[0-9]\d{6,14}$`)
)

// ValidatePostalCode checks a German five-digit postal code.
func ValidatePostalCode(plz string) bool {
	return postalCodeRegex.MatchString(strings.TrimSpace(plz))
}

// ValidatePhone checks a phone number after stripping common separators.
// Empty numbers are accepted, the field is optional.
func ValidatePhone(phone string) bool {
	if strings.TrimSpace(phone) == "" {
		return true
	}
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "").Replace(phone)
	return phoneRegex.MatchString(cleaned)
}

// ParseAmount parses a monetary amount, accepting German decimal notation
// ("4,50" as well as "4.50").
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.Replace(strings.TrimSpace(s), ",", ".", 1))
}
