package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"
)

func TestColorForPct(t *testing.T) {
	theme.SetActive("flexoki-dark")
	th := theme.Active

	cases := []struct {
		pct  float64
		want string
	}{
		{0.2, string(th.Green)},
		{0.8, string(th.Green)},
		{0.85, string(th.Orange)},
		{0.9, string(th.Orange)},
		{0.95, string(th.Red)},
	}
	for _, tc := range cases {
		if got := ColorForPct(tc.pct); got != tc.want {
			t.Errorf("ColorForPct(%v) = %s, want %s", tc.pct, got, tc.want)
		}
	}
}

func TestBudgetGaugeClamps(t *testing.T) {
	theme.SetActive("flexoki-dark")

	over := BudgetGauge("Spend", 1.7, "", 8, 20)
	if !strings.Contains(over, "100%") {
		t.Errorf("overspent gauge should clamp to 100%%: %q", over)
	}
	under := BudgetGauge("Spend", -0.3, "", 8, 20)
	if !strings.Contains(under, "  0%") {
		t.Errorf("negative gauge should clamp to 0%%: %q", under)
	}
	if lipgloss.Width(over) != lipgloss.Width(under) {
		t.Errorf("gauge widths differ: %d vs %d", lipgloss.Width(over), lipgloss.Width(under))
	}
}

func TestFormatCountdown(t *testing.T) {
	cases := map[time.Duration]string{
		0:                            "now",
		12 * time.Minute:             "12m",
		4*time.Hour + 10*time.Minute: "4h 10m",
		51 * time.Hour:               "2d 3h",
	}
	for d, want := range cases {
		if got := FormatCountdown(d); got != want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", d, got, want)
		}
	}
}

func TestTabVisualWidth(t *testing.T) {
	theme.SetActive("flexoki-dark")
	for active := range Tabs {
		bar := RenderTabBar(active, 0)
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1
		if got := lipgloss.Width(bar); got != want {
			t.Errorf("active=%d: tab bar width %d, want %d", active, got, want)
		}
	}
	if TabIdxByKey('x') != len(Tabs)-1 || TabIdxByKey('z') != -1 {
		t.Error("TabIdxByKey mismatch")
	}
}
