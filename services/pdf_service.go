package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"buildflow-backend/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// formatEuro renders an amount in German notation: "1234,56 €".
func formatEuro(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + " €"
}

// RenderInvoicePDF writes the invoice document to the file store and
// returns its path. The layout mirrors the classic paper invoice: company
// header, addresses, work and material tables, totals, legal notice and
// payment information.
func RenderInvoicePDF(invoice *models.Invoice, customer *models.Customer, order *models.Order, work []models.WorkComponent, materials []models.MaterialComponent, company *models.Company) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Company header
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 7, tr(company.Name))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr(fmt.Sprintf("%s, %s %s", company.Street, company.PostalCode, company.City)))
	pdf.Ln(4)
	pdf.Cell(0, 5, tr("Steuernummer: "+company.TaxNumber))
	pdf.Ln(10)

	// Customer address block
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 5, tr(customer.DisplayName()))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(customer.BillingStreet))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(customer.BillingPostalCode+" "+customer.BillingCity))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Rechnung Nr. %d", invoice.ID)))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr("Rechnungsdatum: "+invoice.InvoiceDate.Format("02.01.2006")))
	pdf.Ln(4)
	pdf.Cell(0, 5, tr("Fällig am: "+invoice.DueDate.Format("02.01.2006")))
	pdf.Ln(4)
	if order.SiteStreet != "" {
		pdf.Cell(0, 5, tr(fmt.Sprintf("Leistungsort: %s, %s %s", order.SiteStreet, order.SitePostalCode, order.SiteCity)))
		pdf.Ln(4)
	}
	pdf.Ln(4)

	// Work components table
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, tr("Arbeitsleistungen"))
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 9)
	for _, wc := range work {
		var line string
		switch wc.Basis {
		case models.BasisHours:
			line = fmt.Sprintf("%s — %s h à %s", wc.Name, wc.Hours.String(), formatEuro(wc.HourlyRate))
		case models.BasisArea:
			line = fmt.Sprintf("%s — %s m² à %s", wc.Name, wc.Area.String(), formatEuro(wc.PricePerArea))
		default:
			line = wc.Name
		}
		pdf.CellFormat(140, 5, tr(line), "", 0, "L", false, 0, "")
		var amount decimal.Decimal
		if wc.Basis == models.BasisHours {
			amount = wc.Hours.Mul(wc.HourlyRate)
		} else {
			amount = wc.Area.Mul(wc.PricePerArea)
		}
		pdf.CellFormat(40, 5, tr(formatEuro(amount)), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(140, 6, tr("Summe Arbeit"), "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, tr(formatEuro(invoice.LaborTotal)), "T", 1, "R", false, 0, "")
	pdf.Ln(4)

	// Material components table
	if len(materials) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.Cell(0, 6, tr("Material"))
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "", 9)
		for i := range materials {
			mk := &materials[i]
			line := fmt.Sprintf("%s — %s %s à %s", mk.Name, mk.Quantity.String(), mk.Unit, formatEuro(mk.UnitPrice))
			pdf.CellFormat(140, 5, tr(line), "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 5, tr(formatEuro(mk.SellingPrice())), "", 1, "R", false, 0, "")
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(140, 6, tr("Summe Material"), "T", 0, "L", false, 0, "")
		pdf.CellFormat(40, 6, tr(formatEuro(invoice.MaterialTotal)), "T", 1, "R", false, 0, "")
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 8, tr("Gesamtbetrag"), "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, tr(formatEuro(invoice.GrandTotal)), "T", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr(invoice.LegalNotice))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 8)
	pdf.Cell(0, 4, tr(fmt.Sprintf("Bankverbindung: %s, %s, IBAN %s", company.AccountHolder, company.BankName, company.IBAN)))
	if company.PayPal != "" {
		pdf.Ln(4)
		pdf.Cell(0, 4, tr("PayPal: "+company.PayPal))
	}

	path := files.InvoicePDFPath(invoice.ID)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("render invoice pdf: %w", err)
	}
	return path, nil
}

// RenderAnnualReportPDF produces the yearly EÜR statement: totals, the
// entries grouped per category, and a monthly income/expense summary.
// Entries must have their Category association loaded.
func RenderAnnualReportPDF(year int, company *models.Company, entries []models.BookkeepingEntry) ([]byte, error) {
	totalIncome := decimal.Zero
	totalExpenses := decimal.Zero
	incomeByCategory := make(map[string][]models.BookkeepingEntry)
	expensesByCategory := make(map[string][]models.BookkeepingEntry)
	type monthSum struct{ income, expenses decimal.Decimal }
	months := make(map[string]*monthSum)

	for _, e := range entries {
		catName := "Sonstige"
		if e.Category != nil {
			catName = e.Category.Name
		}
		key := e.Date.Format("01/2006")
		if months[key] == nil {
			months[key] = &monthSum{income: decimal.Zero, expenses: decimal.Zero}
		}
		if e.Type == models.EntryIncome {
			totalIncome = totalIncome.Add(e.Amount)
			incomeByCategory[catName] = append(incomeByCategory[catName], e)
			months[key].income = months[key].income.Add(e.Amount)
		} else {
			totalExpenses = totalExpenses.Add(e.Amount)
			expensesByCategory[catName] = append(expensesByCategory[catName], e)
			months[key].expenses = months[key].expenses.Add(e.Amount)
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Einnahmenüberschussrechnung %d", year)))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr(company.Name+" — Steuernummer "+company.TaxNumber))
	pdf.Ln(4)
	pdf.Cell(0, 5, tr("Erstellt am "+time.Now().Format("02.01.2006")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 6, tr("Summe Einnahmen"), "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, tr(formatEuro(totalIncome)), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 6, tr("Summe Ausgaben"), "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, tr(formatEuro(totalExpenses)), "", 1, "R", false, 0, "")
	pdf.CellFormat(120, 7, tr("Gewinn / Verlust"), "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, tr(formatEuro(totalIncome.Sub(totalExpenses))), "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	writeGroup := func(title string, groups map[string][]models.BookkeepingEntry) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(0, 7, tr(title))
		pdf.Ln(7)

		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			sum := decimal.Zero
			for _, e := range groups[name] {
				sum = sum.Add(e.Amount)
			}
			pdf.SetFont("Helvetica", "B", 9)
			pdf.CellFormat(120, 5, tr(name), "", 0, "L", false, 0, "")
			pdf.CellFormat(40, 5, tr(formatEuro(sum)), "", 1, "R", false, 0, "")
			pdf.SetFont("Helvetica", "", 8)
			for _, e := range groups[name] {
				pdf.CellFormat(25, 4, e.Date.Format("02.01.2006"), "", 0, "L", false, 0, "")
				pdf.CellFormat(95, 4, tr(e.Description), "", 0, "L", false, 0, "")
				pdf.CellFormat(40, 4, tr(formatEuro(e.Amount)), "", 1, "R", false, 0, "")
			}
			pdf.Ln(2)
		}
		pdf.Ln(4)
	}

	writeGroup("Einnahmen", incomeByCategory)
	writeGroup("Ausgaben", expensesByCategory)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr("Monatsübersicht"))
	pdf.Ln(7)
	monthKeys := make([]string, 0, len(months))
	for key := range months {
		monthKeys = append(monthKeys, key)
	}
	sort.Slice(monthKeys, func(i, j int) bool {
		// keys are MM/YYYY; compare year first
		return monthKeys[i][3:]+monthKeys[i][:2] < monthKeys[j][3:]+monthKeys[j][:2]
	})
	pdf.SetFont("Helvetica", "", 9)
	for _, key := range monthKeys {
		m := months[key]
		pdf.CellFormat(30, 5, key, "", 0, "L", false, 0, "")
		pdf.CellFormat(45, 5, tr(formatEuro(m.income)), "", 0, "R", false, 0, "")
		pdf.CellFormat(45, 5, tr(formatEuro(m.expenses)), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 5, tr(formatEuro(m.income.Sub(m.expenses))), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render annual report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
