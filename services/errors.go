package services

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors returned by the services. Controllers map them to HTTP
// statuses with errors.Is / errors.As.
var (
	// ErrNotFound covers any missing referenced record.
	ErrNotFound = errors.New("record not found")

	// ErrInvoiceExists is returned when an order already has an invoice.
	ErrInvoiceExists = errors.New("invoice already exists for this order")

	// ErrOrderInvoiced is returned when editing an order that is locked
	// by an existing invoice.
	ErrOrderInvoiced = errors.New("order already has an invoice")

	// ErrNoWorkComponents blocks invoicing an order without billable work.
	ErrNoWorkComponents = errors.New("order has no work components")

	// ErrValidation covers malformed input rejected before any write.
	ErrValidation = errors.New("validation failed")
)

// MaterialCostsMissingError blocks marking an invoice paid while material
// components lack recorded actual costs. It names the offending materials.
type MaterialCostsMissingError struct {
	Materials []string
}

func (e *MaterialCostsMissingError) Error() string {
	return fmt.Sprintf("material costs missing for: %s", strings.Join(e.Materials, ", "))
}

// Validationf wraps a formatted message as a ErrValidation.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
