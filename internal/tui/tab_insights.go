package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
	"github.com/theirongolddev/tripmeter/internal/tui/components"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// maxInsightLines caps list entries shown per panel.
const maxInsightLines = 3

var insightTitles = map[travelapi.Category]string{
	travelapi.CategoryBudget:         "Smart Budget",
	travelapi.CategoryCrowd:          "Crowd Intelligence",
	travelapi.CategorySafety:         "Safety",
	travelapi.CategorySustainability: "Sustainability",
	travelapi.CategoryReviews:        "Reviews",
}

func (a App) renderInsightsTab(cw, _ int) string {
	t := theme.Active
	trip, ok := a.activeTrip()
	if !ok {
		return a.renderNoTrips(cw)
	}

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Background)
	st := a.insights[trip.ID]

	var status string
	switch {
	case st == nil || (st.panels == nil && !st.fetching):
		status = "Insights not loaded yet. Press f to fetch."
	case st.fetching:
		status = "Fetching insights for " + trip.Destination + "..."
	default:
		status = fmt.Sprintf("Updated %s · press f to refresh", formatAge(time.Since(st.fetchedAt)))
	}

	// Panels are laid out two per row; the last one takes the full width.
	cols := 2
	if a.isCompactLayout() {
		cols = 1
	}

	var b strings.Builder
	b.WriteString(muted.Render(" " + status))
	b.WriteString("\n")

	cats := travelapi.Categories
	for i := 0; i < len(cats); i += cols {
		row := cats[i:min(i+cols, len(cats))]
		widths := components.LayoutRow(cw, len(row))
		cards := make([]string, len(row))
		for j, cat := range row {
			cards[j] = components.ContentCard(insightTitles[cat], a.renderInsightBody(st, cat, widths[j]), widths[j])
		}
		b.WriteString(components.CardRow(cards))
		b.WriteString("\n")
	}
	return b.String()
}

func (a App) renderInsightBody(st *insightState, cat travelapi.Category, outerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	var in *travelapi.Insight
	var err error
	if st != nil {
		in = st.panels[cat]
		err = st.errs[cat]
	}

	if in == nil {
		switch {
		case err != nil:
			return warn.Render("Unable to load: " + insightErrorText(err))
		case st != nil && st.fetching:
			return muted.Render("loading...")
		default:
			return muted.Render("No data")
		}
	}

	width := components.CardInnerWidth(outerW)
	var body string
	switch {
	case in.Budget != nil:
		body = renderBudgetPanel(in.Budget, width)
	case in.Crowd != nil:
		body = renderCrowdPanel(in.Crowd, width)
	case in.Safety != nil:
		body = renderSafetyPanel(in.Safety, width)
	case in.Sustainability != nil:
		body = renderSustainabilityPanel(in.Sustainability, width)
	case in.Reviews != nil:
		body = renderReviewsPanel(in.Reviews, width)
	}

	// A later failure leaves the earlier panel visible with a note.
	if err != nil {
		body += "\n" + warn.Render("Showing earlier data; refresh failed")
	}
	return body
}

func insightErrorText(err error) string {
	switch {
	case errors.Is(err, travelapi.ErrInsightUnavailable):
		return "the service could not produce this insight"
	case errors.Is(err, travelapi.ErrUnauthorized):
		return "token rejected, update it in Settings"
	case errors.Is(err, travelapi.ErrRateLimited):
		return "rate limited, try again shortly"
	default:
		return "network error"
	}
}

type panelStyles struct {
	label  lipgloss.Style
	value  lipgloss.Style
	accent lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
}

func newPanelStyles() panelStyles {
	t := theme.Active
	base := lipgloss.NewStyle().Background(t.Surface)
	return panelStyles{
		label:  base.Foreground(t.TextMuted),
		value:  base.Foreground(t.TextPrimary),
		accent: base.Foreground(t.AccentBright).Bold(true),
		good:   base.Foreground(t.Green),
		bad:    base.Foreground(t.Red),
	}
}

func bulletList(items []string, style lipgloss.Style, width int) string {
	var b strings.Builder
	for i, it := range items {
		if i == maxInsightLines {
			break
		}
		b.WriteString(style.Render("• " + cli.Truncate(it, width-2)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderBudgetPanel(bi *travelapi.BudgetInsight, width int) string {
	s := newPanelStyles()
	var b strings.Builder
	if bi.BudgetAnalysis != "" {
		b.WriteString(s.value.Render(wrapText(bi.BudgetAnalysis, width)))
		b.WriteString("\n")
	}
	if bi.TopPrioritySave != "" {
		b.WriteString(s.accent.Render("Top save: "))
		b.WriteString(s.value.Render(cli.Truncate(bi.TopPrioritySave, width-10)))
		b.WriteString("\n")
	}
	if idx := bi.CostIndex.Summary(); idx != "" {
		b.WriteString(s.label.Render("Cost index: "))
		b.WriteString(s.value.Render(idx))
		b.WriteString("\n")
	}
	b.WriteString(bulletList(bi.SavingsStrategies, s.value, width))
	return strings.TrimSuffix(b.String(), "\n")
}

func renderCrowdPanel(ci *travelapi.CrowdInsight, width int) string {
	t := theme.Active
	s := newPanelStyles()
	var b strings.Builder

	if len(ci.HourlyForecast) > 0 {
		values := make([]float64, len(ci.HourlyForecast))
		for i, h := range ci.HourlyForecast {
			values[i] = h.Density.Float()
		}
		b.WriteString(s.label.Render("Today "))
		b.WriteString(components.Sparkline(values, t.Magenta))
		if peak, ok := ci.PeakHour(); ok {
			b.WriteString(s.label.Render(fmt.Sprintf("  peak %s (%.0f%%)", peak.Time, peak.Density.Float())))
		}
		b.WriteString("\n")
	}
	for i, spot := range ci.MajorSpots {
		if i == maxInsightLines {
			break
		}
		line := fmt.Sprintf("%s · %s · %.0f min wait", spot.Name, spot.Status, spot.WaitTime.Float())
		b.WriteString(s.value.Render(cli.Truncate(line, width)))
		b.WriteString("\n")
	}
	if ci.Advice != "" {
		b.WriteString(s.accent.Render(wrapText(ci.Advice, width)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderSafetyPanel(si *travelapi.SafetyInsight, width int) string {
	s := newPanelStyles()
	var b strings.Builder

	score := si.Score.Float()
	scoreStyle := s.good
	if score < 60 {
		scoreStyle = s.bad
	}
	b.WriteString(s.label.Render("Score "))
	b.WriteString(scoreStyle.Render(fmt.Sprintf("%.0f/100", score)))
	b.WriteString(s.label.Render("  " + si.Status))
	b.WriteString("\n")
	if e := si.Emergency.String(); e != "" {
		b.WriteString(s.label.Render("Emergency "))
		b.WriteString(s.accent.Render(e))
		b.WriteString("\n")
	}
	b.WriteString(bulletList(si.Advisories, s.value, width))
	return strings.TrimSuffix(b.String(), "\n")
}

func renderSustainabilityPanel(si *travelapi.SustainabilityInsight, width int) string {
	s := newPanelStyles()
	var b strings.Builder

	b.WriteString(s.label.Render("Footprint "))
	b.WriteString(s.value.Render(fmt.Sprintf("%.0f kg CO2", si.TotalFootprint())))
	b.WriteString("\n")
	for i, swap := range si.EcoSwaps {
		if i == maxInsightLines {
			break
		}
		line := fmt.Sprintf("%s → %s (-%.0f kg)", swap.Original, swap.Swap, swap.CO2Saved.Float())
		b.WriteString(s.good.Render(cli.Truncate(line, width)))
		b.WriteString("\n")
	}
	if si.LocalEcoStatus != "" {
		b.WriteString(s.label.Render(wrapText(si.LocalEcoStatus, width)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func renderReviewsPanel(ri *travelapi.ReviewsInsight, width int) string {
	s := newPanelStyles()
	var b strings.Builder

	b.WriteString(s.label.Render("Trust score "))
	b.WriteString(s.accent.Render(fmt.Sprintf("%.0f%%", ri.TrustScore.Float())))
	b.WriteString("\n")
	if ri.AISummary != "" {
		b.WriteString(s.value.Render(wrapText(ri.AISummary, width)))
		b.WriteString("\n")
	}
	for i := 0; i < maxInsightLines && (i < len(ri.Pros) || i < len(ri.Cons)); i++ {
		if i < len(ri.Pros) {
			b.WriteString(s.good.Render("+ " + cli.Truncate(ri.Pros[i], width-2)))
			b.WriteString("\n")
		}
		if i < len(ri.Cons) {
			b.WriteString(s.bad.Render("- " + cli.Truncate(ri.Cons[i], width-2)))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}
