package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   float64
		currency string
		want     string
	}{
		{0, "₹", "₹0"},
		{500, "₹", "₹500"},
		{1234567, "₹", "₹1,234,567"},
		{12.5, "$", "$12.50"},
		{99.999, "$", "$100.00"},
		{250.4, "", "₹250"},
		{-1200, "€", "-€1,200"},
	}
	for _, tt := range tests {
		if got := FormatAmount(tt.amount, tt.currency); got != tt.want {
			t.Errorf("FormatAmount(%v, %q) = %q, want %q", tt.amount, tt.currency, got, tt.want)
		}
	}
}

func TestFormatAmountCompact(t *testing.T) {
	if got := FormatAmountCompact(9500, "₹"); got != "₹9,500" {
		t.Errorf("small = %q", got)
	}
	if got := FormatAmountCompact(125000, "₹"); got != "₹125.0K" {
		t.Errorf("large = %q", got)
	}
}

func TestFormatNumberAndCompact(t *testing.T) {
	if got := FormatNumber(-1234); got != "-1,234" {
		t.Errorf("FormatNumber(-1234) = %q", got)
	}
	if got := FormatCompact(1_500_000); got != "1.5M" {
		t.Errorf("FormatCompact = %q", got)
	}
	if got := FormatDays(1); got != "1 day" {
		t.Errorf("FormatDays(1) = %q", got)
	}
	if got := FormatDelta(900, 1000, "₹"); got != "-₹100" {
		t.Errorf("FormatDelta = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("Lunch at Local Spot", 8); got != "Lunch a…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("₹₹₹", 5); got != "₹₹₹" {
		t.Errorf("short string changed: %q", got)
	}
}

func TestRenderTable_AlignsWideRunes(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Item", "Cost"},
		Rows: [][]string{
			{"Hotel", "₹12,000"},
			{"---"},
			{"Total", "$5"},
		},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	width := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != width {
			t.Errorf("line %d width = %d, want %d: %q", i, w, width, l)
		}
	}
}

func TestRenderGauge_Clamps(t *testing.T) {
	if got := RenderGauge(150, 10); !strings.Contains(got, "100%") {
		t.Errorf("gauge over 100 = %q", got)
	}
	if got := RenderGauge(-5, 10); !strings.Contains(got, "0%") {
		t.Errorf("gauge under 0 = %q", got)
	}
}

func TestRenderProgressBar(t *testing.T) {
	got := RenderProgressBar(3, 4, 8)
	if !strings.Contains(got, "██████░░") || !strings.HasSuffix(got, "3/4") {
		t.Errorf("RenderProgressBar(3, 4, 8) = %q", got)
	}
	if got := RenderProgressBar(9, 4, 8); !strings.Contains(got, "████████") {
		t.Errorf("overflow not clamped: %q", got)
	}
	if RenderProgressBar(1, 0, 8) != "" {
		t.Error("zero total should render nothing")
	}
}
