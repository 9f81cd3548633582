// Package report renders trip budget breakdowns as PDF documents.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

// Data is everything a budget report shows.
type Data struct {
	Trip        model.Trip
	Breakdown   model.BudgetBreakdown
	Tip         model.BudgetTip
	Insight     *travelapi.BudgetInsight // optional
	Traveler    string
	GeneratedAt time.Time
}

// rgb is a fill or text color.
type rgb struct{ r, g, b int }

var (
	navy  = rgb{16, 15, 15}
	teal  = rgb{58, 169, 159}
	muted = rgb{111, 110, 105}
	ink   = rgb{20, 20, 20}

	categoryColors = map[model.Category]rgb{
		model.CategoryHotels:     {99, 102, 241},
		model.CategoryFood:       {16, 185, 129},
		model.CategoryTransit:    {14, 165, 233},
		model.CategoryActivities: {245, 158, 11},
		model.CategoryOther:      {100, 116, 139},
	}

	healthColors = map[model.HealthLevel]rgb{
		model.HealthOK:       {135, 154, 57},
		model.HealthWarning:  {218, 112, 44},
		model.HealthCritical: {209, 77, 65},
	}
)

// Generate renders the report and returns the PDF bytes.
func Generate(d Data) ([]byte, error) {
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now()
	}
	bd := d.Breakdown
	cur := pdfCurrency(bd.Currency)
	money := func(v float64) string { return pdfText(cli.FormatAmount(v, cur)) }

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	pdf.AddPage()

	setText := func(c rgb) { pdf.SetTextColor(c.r, c.g, c.b) }
	setFill := func(c rgb) { pdf.SetFillColor(c.r, c.g, c.b) }

	// Header bar
	setFill(navy)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(120, 10, "tripmeter", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	setText(teal)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, pdfText("Trip Budget Report: "+d.Trip.Destination), "", 1, "L", false, 0, "")
	pdf.SetY(36)

	sectionHeader := func(title string) {
		setFill(navy)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+pdfText(title), "", 1, "L", true, 0, "")
		setText(ink)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		setText(muted)
		pdf.CellFormat(55, 7, pdfText(label), "", 0, "L", false, 0, "")
		setText(ink)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, pdfText(value), "", 1, "L", false, 0, "")
	}

	paragraph := func(text string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(40, 40, 40)
		pdf.MultiCell(170, 5, pdfText(text), "", "L", false)
	}

	// Trip overview
	sectionHeader("Trip Overview")
	traveler := d.Traveler
	if traveler == "" {
		traveler = "Guest Traveler"
	}
	row("Traveler", traveler)
	row("Destination", d.Trip.Destination)
	row("Duration", cli.FormatDays(d.Trip.DurationDays))
	if len(d.Trip.TravelStyle) > 0 {
		row("Travel style", strings.Join(d.Trip.TravelStyle, ", "))
	}
	row("Generated", d.GeneratedAt.Format("02 Jan 2006, 15:04"))
	pdf.Ln(4)

	// Budget health
	sectionHeader("Budget Health")
	m := bd.Metrics
	row("Total budget", money(m.Total))
	row("Estimated spend", money(m.EstimatedSpend))
	row("Remaining", money(m.Remaining))
	days := d.Trip.DurationDays
	if days < 1 {
		days = 1
	}
	row("Daily allowance", money(m.Total/float64(days)))

	hc := healthColors[m.Health]
	setFill(hc)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(55, 9, "  "+strings.ToUpper(m.Health.String()), "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("%.0f%% of budget used", m.SpentPercentage), "", 1, "L", true, 0, "")
	setText(ink)
	if bd.Overspent {
		pdf.Ln(1)
		setText(healthColors[model.HealthCritical])
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(170, 5, "Planned category spend exceeds the total budget; Misc is shown at its 5% floor.", "", "L", false)
		setText(ink)
	}
	pdf.Ln(4)

	// Allocation with proportional bars
	sectionHeader("Allocation")
	total := bd.Categories.Sum()
	for _, cat := range model.Categories {
		amt := bd.Categories.Get(cat)
		share := 0.0
		if total > 0 {
			share = amt / total
		}
		pdf.SetFont("Helvetica", "", 10)
		setText(ink)
		pdf.CellFormat(45, 7, pdfText(cat.Label()), "", 0, "L", false, 0, "")
		x, y := pdf.GetXY()
		c := categoryColors[cat]
		setFill(c)
		if w := share * 80; w > 0 {
			pdf.Rect(x, y+1.5, w, 4, "F")
		}
		pdf.SetX(x + 82)
		pdf.CellFormat(25, 7, cli.FormatPercent(share), "", 0, "R", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(18, 7, money(amt), "", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Daily spend
	if len(bd.Daily) > 0 {
		sectionHeader("Daily Spend")
		for _, ds := range bd.Daily {
			row(ds.Label, money(ds.Amount))
		}
		pdf.Ln(4)
	}

	// High-impact items
	sectionHeader("High-Impact Items")
	if len(bd.HighImpact) == 0 {
		paragraph("No single item costs more than 5% of the budget.")
	}
	for _, it := range bd.HighImpact {
		label := fmt.Sprintf("Day %d  %s", it.Day, cli.Truncate(it.Title, 28))
		row(label, fmt.Sprintf("%s  (%.1f%%)", money(it.Amount), it.SharePercent))
	}
	pdf.Ln(4)

	// Advice
	sectionHeader(d.Tip.Title)
	paragraph(d.Tip.Text)
	pdf.Ln(2)

	if in := d.Insight; in != nil {
		if in.BudgetAnalysis != "" {
			paragraph(in.BudgetAnalysis)
			pdf.Ln(2)
		}
		if len(in.SavingsStrategies) > 0 {
			sectionHeader("Savings Strategies")
			for _, s := range in.SavingsStrategies {
				paragraph("- " + s)
			}
			pdf.Ln(2)
		}
		if len(in.HiddenDeals) > 0 {
			sectionHeader("Hidden Deals")
			for _, s := range in.HiddenDeals {
				paragraph("- " + s)
			}
		}
	}

	// Footer
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by tripmeter. Amounts are estimates parsed from the itinerary; dollar prices use a fixed rate.",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the report to path, creating parent directories.
func WriteFile(path string, d Data) error {
	b, err := Generate(d)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// pdfCurrency maps currency symbols the core PDF fonts cannot draw.
func pdfCurrency(symbol string) string {
	switch symbol {
	case "", "₹":
		return "Rs."
	case "¥":
		return "JPY "
	default:
		return symbol
	}
}

// pdfText replaces characters outside the core font encoding.
func pdfText(s string) string {
	r := strings.NewReplacer(
		"₹", "Rs.",
		"→", "->",
		"—", "-",
		"–", "-",
		"…", "...",
		"“", `"`,
		"”", `"`,
		"‘", "'",
		"’", "'",
	)
	s = r.Replace(s)
	return tr(s)
}

// tr converts UTF-8 to the cp1252 encoding of the core fonts.
var tr = gofpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")
