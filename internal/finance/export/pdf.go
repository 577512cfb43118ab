// Package export renders HostFlow reports as downloadable PDF documents.
// Generation is synchronous and fully local: the document is composed in
// memory and handed back as bytes, no rendering service is involved.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/hostflow/hostflow/internal/finance"
)

const (
	pageLeft  = 14.0
	pageRight = 196.0
)

type rgb struct{ r, g, b int }

var (
	brandTeal   = rgb{0, 132, 137}
	headingGray = rgb{72, 72, 72}
	mutedGray   = rgb{150, 150, 150}
	alertRed    = rgb{255, 90, 95}
	profitGreen = rgb{34, 139, 34}
	altRowGray  = rgb{247, 247, 247}
)

// Exporter renders financial statements and shopping lists.
type Exporter struct {
	clock   func() time.Time
	printer *message.Printer
}

// NewExporter constructs an Exporter.
func NewExporter() *Exporter {
	return &Exporter{
		clock:   time.Now,
		printer: message.NewPrinter(language.English),
	}
}

func (e *Exporter) currency(v float64) string {
	return e.printer.Sprintf("KSh %.0f", v)
}

func percent(margin float64) string {
	return fmt.Sprintf("%.1f%%", margin*100)
}

func (e *Exporter) newDoc() *fpdf.Fpdf {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(pageLeft, 20, 210-pageRight)
	doc.SetAutoPageBreak(true, 20)
	doc.AliasNbPages("")
	doc.SetFooterFunc(func() {
		doc.SetY(-12)
		doc.SetFont("Helvetica", "", 8)
		doc.SetTextColor(mutedGray.r, mutedGray.g, mutedGray.b)
		doc.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", doc.PageNo()), "", 0, "C", false, 0, "")
		doc.SetX(pageLeft)
		doc.CellFormat(0, 5, "Generated by HostFlow", "", 0, "R", false, 0, "")
	})
	return doc
}

// FinancialReport renders the P&L statement as a paginated document. An
// empty statement still yields a valid PDF with all totals at zero.
func (e *Exporter) FinancialReport(stmt finance.Statement) ([]byte, error) {
	doc := e.newDoc()
	doc.AddPage()

	e.writeHeader(doc, "HostFlow Financial Report", stmt.PropertyName, []string{
		fmt.Sprintf("Year: %d", stmt.Year),
		fmt.Sprintf("Report Type: %s", titleCase(string(stmt.Granularity))),
		fmt.Sprintf("Generated: %s", e.clock().Format("2 January 2006")),
	})

	e.writeSectionLabel(doc, "Summary Statistics")
	totals := stmt.Totals
	e.writeKeyValueTable(doc, [][2]string{
		{"Total Revenue", e.currency(totals.Revenue)},
		{"Total Expenses", e.currency(totals.Expense)},
		{"Net Profit", e.currency(totals.Profit)},
		{"Total Bookings", fmt.Sprintf("%d", totals.BookingCount)},
		{"Average Booking Value", e.currency(totals.AvgBookingValue)},
		{"Profit Margin", percent(totals.Margin)},
	})
	doc.Ln(10)

	e.writeSectionLabel(doc, fmt.Sprintf("%s Breakdown", titleCase(string(stmt.Granularity))))
	e.writeBreakdownTable(doc, stmt.Periods)

	// Top expense categories only when there is room left on the page,
	// mirroring the dashboard export.
	if len(stmt.TopExpenses) > 0 && doc.GetY() < 240 {
		doc.Ln(10)
		e.writeSectionLabel(doc, "Top Expense Categories")
		e.writeExpenseTable(doc, stmt.TopExpenses)
	}

	return output(doc)
}

// ShoppingList renders the restock list. An empty list still yields a
// valid PDF with zero totals.
func (e *Exporter) ShoppingList(list finance.ShoppingList) ([]byte, error) {
	doc := e.newDoc()
	doc.AddPage()

	e.writeHeader(doc, "Shopping List", list.PropertyName, []string{
		fmt.Sprintf("Generated: %s", e.clock().Format("2 January 2006")),
	})

	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(alertRed.r, alertRed.g, alertRed.b)
	doc.CellFormat(0, 5, fmt.Sprintf("%d items need restocking", len(list.Lines)), "", 1, "L", false, 0, "")
	doc.Ln(4)

	e.writeSectionLabel(doc, "Shopping Summary")
	e.writeKeyValueTable(doc, [][2]string{
		{"Total Items to Purchase", fmt.Sprintf("%d", list.TotalUnits)},
		{"Estimated Total Cost", e.currency(list.TotalCost)},
	})
	doc.Ln(10)

	e.writeSectionLabel(doc, "Items Needed")
	e.writeShoppingTable(doc, list)

	if doc.GetY() < 250 {
		doc.Ln(10)
		e.writeNotes(doc, []string{
			"- Suggested order quantities are calculated to reach 2x minimum stock levels",
			"- Items with red current stock are completely out of stock (priority)",
			"- Prices shown are based on last recorded cost per unit",
			"- Please verify availability and current prices before ordering",
		})
	}

	return output(doc)
}

func (e *Exporter) writeHeader(doc *fpdf.Fpdf, title, propertyName string, meta []string) {
	doc.SetFont("Helvetica", "B", 22)
	doc.SetTextColor(headingGray.r, headingGray.g, headingGray.b)
	doc.CellFormat(0, 10, title, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "B", 16)
	doc.SetTextColor(brandTeal.r, brandTeal.g, brandTeal.b)
	doc.CellFormat(0, 8, propertyName, "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	doc.SetTextColor(mutedGray.r, mutedGray.g, mutedGray.b)
	for _, line := range meta {
		doc.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}

	doc.Ln(2)
	doc.SetDrawColor(brandTeal.r, brandTeal.g, brandTeal.b)
	doc.SetLineWidth(0.5)
	y := doc.GetY()
	doc.Line(pageLeft, y, pageRight, y)
	doc.Ln(8)
}

func (e *Exporter) writeSectionLabel(doc *fpdf.Fpdf, label string) {
	doc.SetFont("Helvetica", "B", 11)
	doc.SetTextColor(headingGray.r, headingGray.g, headingGray.b)
	doc.CellFormat(0, 6, label, "", 1, "L", false, 0, "")
	doc.Ln(1)
}

func (e *Exporter) writeKeyValueTable(doc *fpdf.Fpdf, rows [][2]string) {
	for _, row := range rows {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetTextColor(100, 100, 100)
		doc.CellFormat(60, 7, row[0], "", 0, "L", false, 0, "")
		doc.SetTextColor(brandTeal.r, brandTeal.g, brandTeal.b)
		doc.CellFormat(50, 7, row[1], "", 1, "R", false, 0, "")
	}
}

func (e *Exporter) writeBreakdownTable(doc *fpdf.Fpdf, periods []finance.PeriodFigures) {
	widths := []float64{50, 20, 28, 28, 28, 20}
	aligns := []string{"L", "C", "R", "R", "R", "C"}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(brandTeal.r, brandTeal.g, brandTeal.b)
	doc.SetTextColor(255, 255, 255)
	for i, head := range []string{"Period", "Bookings", "Revenue", "Expenses", "Profit", "Margin"} {
		doc.CellFormat(widths[i], 8, head, "", 0, aligns[i], true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFillColor(altRowGray.r, altRowGray.g, altRowGray.b)
	for i, period := range periods {
		fill := i%2 == 1
		cells := []string{
			period.Label,
			fmt.Sprintf("%d", period.BookingCount),
			e.currency(period.Revenue),
			e.currency(period.Expense),
			e.currency(period.Profit),
			percent(period.Margin),
		}
		for col, cell := range cells {
			style := ""
			doc.SetTextColor(headingGray.r, headingGray.g, headingGray.b)
			switch col {
			case 0:
				style = "B"
			case 4:
				style = "B"
				if period.Profit > 0 {
					doc.SetTextColor(profitGreen.r, profitGreen.g, profitGreen.b)
				} else if period.Profit < 0 {
					doc.SetTextColor(alertRed.r, alertRed.g, alertRed.b)
				}
			}
			doc.SetFont("Helvetica", style, 9)
			doc.CellFormat(widths[col], 7, cell, "", 0, aligns[col], fill, 0, "")
		}
		doc.Ln(-1)
	}
}

func (e *Exporter) writeExpenseTable(doc *fpdf.Fpdf, categories []finance.ExpenseCategory) {
	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(alertRed.r, alertRed.g, alertRed.b)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(100, 8, "Category", "", 0, "L", true, 0, "")
	doc.CellFormat(40, 8, "Amount", "", 0, "R", true, 0, "")
	doc.Ln(-1)

	doc.SetFillColor(altRowGray.r, altRowGray.g, altRowGray.b)
	doc.SetTextColor(headingGray.r, headingGray.g, headingGray.b)
	for i, category := range categories {
		fill := i%2 == 1
		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(100, 7, category.Name, "", 0, "L", fill, 0, "")
		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(40, 7, e.currency(category.Amount), "", 0, "R", fill, 0, "")
		doc.Ln(-1)
	}
}

func (e *Exporter) writeShoppingTable(doc *fpdf.Fpdf, list finance.ShoppingList) {
	widths := []float64{60, 20, 20, 22, 25, 28}
	aligns := []string{"L", "C", "C", "C", "R", "R"}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(brandTeal.r, brandTeal.g, brandTeal.b)
	doc.SetTextColor(255, 255, 255)
	for i, head := range []string{"Item Name", "Current", "Min", "Order Qty", "Unit Price", "Subtotal"} {
		doc.CellFormat(widths[i], 8, head, "", 0, aligns[i], true, 0, "")
	}
	doc.Ln(-1)

	for i, line := range list.Lines {
		fill := i%2 == 1
		doc.SetFillColor(altRowGray.r, altRowGray.g, altRowGray.b)

		doc.SetFont("Helvetica", "B", 9)
		doc.SetTextColor(headingGray.r, headingGray.g, headingGray.b)
		doc.CellFormat(widths[0], 7, line.Name, "", 0, aligns[0], fill, 0, "")

		// Out-of-stock rows flag the current column in red.
		if line.Quantity == 0 {
			doc.SetTextColor(alertRed.r, alertRed.g, alertRed.b)
		} else {
			doc.SetFont("Helvetica", "", 9)
		}
		doc.CellFormat(widths[1], 7, fmt.Sprintf("%d", line.Quantity), "", 0, aligns[1], fill, 0, "")

		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(headingGray.r, headingGray.g, headingGray.b)
		doc.CellFormat(widths[2], 7, fmt.Sprintf("%d", line.MinStock), "", 0, aligns[2], fill, 0, "")

		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(widths[3], 7, fmt.Sprintf("%d", line.SuggestedOrder), "", 0, aligns[3], fill, 0, "")

		doc.SetFont("Helvetica", "", 9)
		doc.CellFormat(widths[4], 7, e.currency(line.UnitCost), "", 0, aligns[4], fill, 0, "")

		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(widths[5], 7, e.currency(line.Subtotal), "", 0, aligns[5], fill, 0, "")
		doc.Ln(-1)
	}

	// Grand total row.
	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(altRowGray.r, altRowGray.g, altRowGray.b)
	doc.SetTextColor(headingGray.r, headingGray.g, headingGray.b)
	doc.CellFormat(widths[0]+widths[1]+widths[2], 8, "TOTAL", "", 0, "R", true, 0, "")
	doc.SetFillColor(brandTeal.r, brandTeal.g, brandTeal.b)
	doc.SetTextColor(255, 255, 255)
	doc.CellFormat(widths[3], 8, fmt.Sprintf("%d", list.TotalUnits), "", 0, "C", true, 0, "")
	doc.SetFillColor(altRowGray.r, altRowGray.g, altRowGray.b)
	doc.CellFormat(widths[4], 8, "", "", 0, "R", true, 0, "")
	doc.SetFillColor(brandTeal.r, brandTeal.g, brandTeal.b)
	doc.CellFormat(widths[5], 8, e.currency(list.TotalCost), "", 1, "R", true, 0, "")
}

func (e *Exporter) writeNotes(doc *fpdf.Fpdf, notes []string) {
	doc.SetFont("Helvetica", "B", 10)
	doc.SetTextColor(100, 100, 100)
	doc.CellFormat(0, 5, "Notes:", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(120, 120, 120)
	for _, note := range notes {
		doc.CellFormat(0, 5, note, "", 1, "L", false, 0, "")
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func output(doc *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("export: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
