package services

import (
	"errors"
	"time"

	"buildflow-backend/models"

	"gorm.io/gorm"
)

// LegalNotice is printed on every invoice.
const LegalNotice = "Zahlbar ohne Abzug innerhalb von 14 Tagen."

// PaymentTermDays is added to the invoice date to form the due date.
const PaymentTermDays = 30

// CreateInvoice generates the invoice for an order, snapshotting the
// current component totals. An order can hold at most one invoice at a
// time; a second attempt is rejected with ErrInvoiceExists. An order
// without work components cannot be invoiced.
func CreateInvoice(tx *gorm.DB, orderID uint, invoiceDate time.Time) (*models.Invoice, error) {
	var order models.Order
	if err := tx.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var customer models.Customer
	if err := tx.First(&customer, order.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var work []models.WorkComponent
	if err := tx.Where("order_id = ?", orderID).Find(&work).Error; err != nil {
		return nil, err
	}
	if len(work) == 0 {
		return nil, ErrNoWorkComponents
	}

	var existing models.Invoice
	err := tx.Where("order_id = ?", orderID).First(&existing).Error
	if err == nil {
		return nil, ErrInvoiceExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var materials []models.MaterialComponent
	if err := tx.Where("order_id = ?", orderID).Find(&materials).Error; err != nil {
		return nil, err
	}

	totals := ComputeOrderTotals(work, materials)

	invoice := models.Invoice{
		OrderID:       order.ID,
		CustomerID:    customer.ID,
		CompanyID:     1,
		InvoiceDate:   invoiceDate,
		DueDate:       invoiceDate.AddDate(0, 0, PaymentTermDays),
		LegalNotice:   LegalNotice,
		LaborTotal:    totals.Labor,
		MaterialTotal: totals.Material,
		GrandTotal:    totals.Grand,
		Paid:          false,
	}
	if err := tx.Create(&invoice).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

// SetInvoicePaid drives the two-state payment machine.
//
//	unpaid -> paid:   guarded; every material component needs a recorded
//	                  positive actual cost. Emits the income entries.
//	paid -> unpaid:   clears the payment date and removes every linked
//	                  ledger entry.
//	paid -> paid with a new date: replace; entries are deleted and
//	                  re-emitted dated at the new payment date.
//
// A nil paymentDate defaults to today. The caller supplies the enclosing
// transaction so the state flip and the ledger changes commit together.
func SetInvoicePaid(tx *gorm.DB, invoiceID uint, paid bool, paymentDate *time.Time) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := tx.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var work []models.WorkComponent
	if err := tx.Where("order_id = ?", invoice.OrderID).Find(&work).Error; err != nil {
		return nil, err
	}
	var materials []models.MaterialComponent
	if err := tx.Where("order_id = ?", invoice.OrderID).Find(&materials).Error; err != nil {
		return nil, err
	}

	if !paid {
		if !invoice.Paid {
			return &invoice, nil
		}
		if err := RemoveInvoiceEntries(tx, invoice.ID); err != nil {
			return nil, err
		}
		invoice.Paid = false
		invoice.PaymentDate = nil
		if err := tx.Model(&invoice).Select("paid", "payment_date").Updates(map[string]interface{}{
			"paid":         false,
			"payment_date": nil,
		}).Error; err != nil {
			return nil, err
		}
		return &invoice, nil
	}

	if !invoice.Paid {
		var missing []string
		for i := range materials {
			mk := &materials[i]
			if mk.ActualCost == nil || !mk.ActualCost.IsPositive() {
				missing = append(missing, mk.Name)
			}
		}
		if len(missing) > 0 {
			return nil, &MaterialCostsMissingError{Materials: missing}
		}
	} else if paymentDate == nil {
		// Already paid and no new date supplied: nothing to replace.
		return &invoice, nil
	}

	date := time.Now()
	if paymentDate != nil {
		date = *paymentDate
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	// Replace semantics: wipe first, then emit, so repeating the same
	// transition can never accumulate duplicates.
	if err := RemoveInvoiceEntries(tx, invoice.ID); err != nil {
		return nil, err
	}

	invoice.Paid = true
	invoice.PaymentDate = &date
	if err := tx.Model(&invoice).Select("paid", "payment_date").Updates(map[string]interface{}{
		"paid":         true,
		"payment_date": date,
	}).Error; err != nil {
		return nil, err
	}

	if err := EmitPaymentEntries(tx, &invoice, work, materials, date); err != nil {
		return nil, err
	}

	return &invoice, nil
}

// DeleteInvoice removes an invoice with its derived ledger entries and
// detaches material cost data. The order and its components stay intact.
// It returns the receipt file names that should be removed from disk
// after the transaction commits; file cleanup is best-effort and never
// part of the transactional guarantee.
func DeleteInvoice(tx *gorm.DB, invoiceID uint) ([]string, error) {
	var invoice models.Invoice
	if err := tx.First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := RemoveInvoiceEntries(tx, invoice.ID); err != nil {
		return nil, err
	}

	var materials []models.MaterialComponent
	if err := tx.Where("order_id = ?", invoice.OrderID).Find(&materials).Error; err != nil {
		return nil, err
	}

	var orphanedFiles []string
	for i := range materials {
		mk := &materials[i]
		orphanedFiles = append(orphanedFiles, mk.ReceiptFileList()...)
		if err := tx.Model(mk).Updates(map[string]interface{}{
			"actual_cost":   nil,
			"receipt_files": "",
		}).Error; err != nil {
			return nil, err
		}
	}

	if err := tx.Delete(&invoice).Error; err != nil {
		return nil, err
	}

	return orphanedFiles, nil
}
