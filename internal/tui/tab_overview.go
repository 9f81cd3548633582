package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/tui/components"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderOverviewTab(cw, _ int) string {
	t := theme.Active

	idx := a.activeIndex()
	trip, ok := a.activeTrip()
	bd, hasBD := a.breakdownAt(idx)
	if !ok || !hasBD {
		return a.renderNoTrips(cw)
	}

	m := bd.Metrics
	cur := bd.Currency
	health := m.Health.String()
	healthColor := t.HealthColor(health)

	var b strings.Builder

	// Row 1: metric cards
	cards := []components.Metric{
		{Label: "Budget", Value: cli.FormatAmount(m.Total, cur), Delta: cli.FormatDays(trip.DurationDays)},
		{Label: "Estimated Spend", Value: cli.FormatAmount(m.EstimatedSpend, cur), Delta: fmt.Sprintf("%.0f%% of budget", m.SpentPercentage), Color: healthColor},
		{Label: "Remaining", Value: cli.FormatAmount(m.Remaining, cur), Delta: perDay(m.Remaining, trip.DurationDays, cur)},
		{Label: "Activities", Value: cli.FormatNumber(int64(trip.Itinerary.ActivityCount())), Delta: fmt.Sprintf("%d planned days", len(trip.Itinerary.Days))},
	}
	if !a.isCompactLayout() {
		cards = append(cards, components.Metric{
			Label: "Safety / Eco",
			Value: fmt.Sprintf("%.1f / %.1f", trip.SafetyScore, trip.EcoScore),
			Delta: "out of 10",
		})
	}
	b.WriteString(components.MetricCardRow(cards, cw))
	b.WriteString("\n")

	// Row 2: gauge + tip, daily spend chart
	gauge := a.renderGaugeBody(trip, bd, healthColor)

	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Budget Health", gauge, cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Daily Spend", a.renderDailyChart(trip, bd, cw), cw))
	} else {
		halves := components.LayoutRow(cw, 2)
		chart := a.renderDailyChart(trip, bd, halves[1])
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Budget Health", gauge, halves[0]),
			components.ContentCard("Daily Spend", chart, halves[1]),
		}))
	}

	return b.String()
}

func (a App) renderGaugeBody(trip model.Trip, bd model.BudgetBreakdown, healthColor lipgloss.Color) string {
	t := theme.Active
	m := bd.Metrics

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	healthStyle := lipgloss.NewStyle().Foreground(healthColor).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	tipTitle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	textStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(components.BudgetGauge("Spend", m.SpentPercentage/100,
		cli.FormatAmount(m.Remaining, bd.Currency)+" left", 6, 24))
	b.WriteString("\n\n")
	b.WriteString(muted.Render("Status  "))
	b.WriteString(healthStyle.Render(healthLabel(m.Health)))
	b.WriteString("\n")
	if bd.Overspent {
		b.WriteString(warnStyle.Render(fmt.Sprintf("! Over budget by %s", cli.FormatAmount(m.EstimatedSpend-m.Total, bd.Currency))))
		b.WriteString("\n")
	}

	tip := pipeline.SelectTip(trip, m)
	b.WriteString("\n")
	b.WriteString(tipTitle.Render(tip.Title))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(wrapText(tip.Text, 48)))
	return b.String()
}

func (a App) renderDailyChart(trip model.Trip, bd model.BudgetBreakdown, outerW int) string {
	t := theme.Active
	if len(bd.Daily) == 0 {
		return lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render("No itinerary days yet")
	}

	values := make([]float64, len(bd.Daily))
	labels := make([]string, len(bd.Daily))
	for i, d := range bd.Daily {
		values[i] = d.Amount
		labels[i] = fmt.Sprintf("D%d", d.Day)
	}
	chart := components.SpendChart{
		Values:   values,
		Labels:   labels,
		Currency: bd.Currency,
		Color:    t.Blue,
	}
	days := trip.DurationDays
	if days <= 0 {
		days = len(bd.Daily)
	}
	if bd.Metrics.Total > 0 {
		chart.Limit = bd.Metrics.Total / float64(days)
	}
	return chart.Render(components.CardInnerWidth(outerW), 8)
}

func (a App) renderNoTrips(cw int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)

	body := muted.Render("No trips yet. Plan one from the command line:") + "\n\n" +
		accent.Render("  tripmeter plan -d Goa --days 3 --budget 50k") + "\n\n" +
		muted.Render("Then press r to reload.")
	return components.ContentCard("Welcome", body, cw)
}

func healthLabel(h model.HealthLevel) string {
	switch h {
	case model.HealthCritical:
		return "CRITICAL"
	case model.HealthWarning:
		return "WARNING"
	default:
		return "ON TRACK"
	}
}

func perDay(amount float64, days int, currency string) string {
	if days <= 0 {
		return ""
	}
	return cli.FormatAmount(amount/float64(days), currency) + " / day"
}

// wrapText breaks s into lines of at most width runes on word boundaries.
func wrapText(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for _, w := range words {
		n := len([]rune(w))
		if lineLen > 0 && lineLen+1+n > width {
			b.WriteString("\n")
			lineLen = 0
		} else if lineLen > 0 {
			b.WriteString(" ")
			lineLen++
		}
		b.WriteString(w)
		lineLen += n
	}
	return b.String()
}
