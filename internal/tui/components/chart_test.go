package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"
)

func TestChartTickStep(t *testing.T) {
	cases := []struct {
		max  float64
		want float64
	}{
		{0, 1},
		{5, 1},
		{12000, 2000},
		{48000, 5000},
		{900, 200},
	}
	for _, tc := range cases {
		if got := chartTickStep(tc.max); got != tc.want {
			t.Errorf("chartTickStep(%v) = %v, want %v", tc.max, got, tc.want)
		}
	}
}

func TestFormatChartLabel(t *testing.T) {
	cases := map[float64]string{
		2000:    "2k",
		2500:    "2.5k",
		1500000: "1.5M",
		40:      "40",
		0.5:     "0.50",
	}
	for v, want := range cases {
		if got := formatChartLabel(v); got != want {
			t.Errorf("formatChartLabel(%v) = %q, want %q", v, got, want)
		}
	}
}

func TestHBarWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")

	full := HBar("Hotels", 400, 400, "₹400", 10, 20, theme.Active.Blue)
	empty := HBar("Other", 0, 400, "₹0", 10, 20, theme.Active.Blue)
	if lipgloss.Width(full) != lipgloss.Width(empty)+2 {
		t.Fatalf("bar widths differ: %d vs %d", lipgloss.Width(full), lipgloss.Width(empty))
	}
	if strings.Contains(empty, "█") {
		t.Error("zero value should render no filled cells")
	}
	if strings.Count(full, "█") != 20 {
		t.Errorf("full bar has %d filled cells, want 20", strings.Count(full, "█"))
	}
}

func TestSpendChartFallsBackToSparkline(t *testing.T) {
	theme.SetActive("flexoki-dark")
	out := SpendChart{Values: []float64{1, 2, 3}, Color: theme.Active.Accent}.Render(10, 2)
	if strings.Contains(out, "\n") {
		t.Errorf("narrow chart should be a single-line sparkline, got %q", out)
	}
}

func TestSpendChartCurrencyAxisAndLimit(t *testing.T) {
	theme.SetActive("flexoki-dark")
	chart := SpendChart{
		Values:   []float64{2000, 9000, 4000},
		Labels:   []string{"D1", "D2", "D3"},
		Currency: "₹",
		Limit:    5000,
		Color:    theme.Active.Blue,
	}
	out := chart.Render(40, 8)

	if !strings.Contains(out, "₹12k") {
		t.Errorf("axis missing currency ceiling label:\n%s", out)
	}
	if !strings.Contains(out, "┄") || !strings.Contains(out, "/day") {
		t.Errorf("per-day limit line not drawn:\n%s", out)
	}
	if !strings.Contains(out, "D1") || !strings.Contains(out, "D3") {
		t.Errorf("day labels missing:\n%s", out)
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 8 rows + axis + labels", len(lines))
	}
	w := lipgloss.Width(lines[0])
	for i, l := range lines[:8] {
		if got := lipgloss.Width(l); got != w && !strings.Contains(l, "/day") {
			t.Errorf("row %d width %d, want %d", i, got, w)
		}
	}

	chart.Limit = 0
	if strings.Contains(chart.Render(40, 8), "┄") {
		t.Error("limit line drawn with zero limit")
	}
}

func TestBucketPeaksKeepsMax(t *testing.T) {
	vals := []float64{1, 9, 2, 3, 8, 1}
	labels := []string{"D1", "D2", "D3", "D4", "D5", "D6"}
	got, gotLabels := bucketPeaks(vals, labels, 3)
	if len(got) != 3 || got[0] != 9 || got[1] != 3 || got[2] != 8 {
		t.Errorf("bucketPeaks = %v, want [9 3 8]", got)
	}
	if gotLabels[1] != "D3" {
		t.Errorf("bucket label = %q, want first day of bucket", gotLabels[1])
	}
}

func TestSpendAxisLimitsTicks(t *testing.T) {
	step, ceiling := spendAxis(9000, 8)
	if ceiling < 9000 || ceiling/step > 4 {
		t.Errorf("spendAxis(9000, 8) = step %v ceiling %v", step, ceiling)
	}
	if _, c := spendAxis(0, 8); c <= 0 {
		t.Errorf("zero peak gave ceiling %v", c)
	}
}
