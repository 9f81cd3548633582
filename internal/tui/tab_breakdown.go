package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
	"github.com/theirongolddev/tripmeter/internal/tui/components"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderBreakdownTab(cw, _ int) string {
	idx := a.activeIndex()
	if _, ok := a.activeTrip(); !ok {
		return a.renderNoTrips(cw)
	}
	bd, ok := a.breakdownAt(idx)
	if !ok {
		return a.renderNoTrips(cw)
	}

	split := a.suggestedSplit(bd.TripID)
	total := bd.Metrics.Total

	var b strings.Builder
	switch {
	case len(split) == 0:
		b.WriteString(components.ContentCard("Allocation", a.renderAllocation("", bd.Categories, total, bd.Currency, cw), cw))
	case a.isCompactLayout():
		applied := pipeline.ApplySuggestedSplit(bd.Categories, total, split)
		b.WriteString(components.ContentCard("Allocation", a.renderAllocation("", bd.Categories, total, bd.Currency, cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Suggested Split", a.renderAllocation("from budget insight", applied, total, bd.Currency, cw), cw))
	default:
		// The insight's suggested split sits beside the computed allocation.
		applied := pipeline.ApplySuggestedSplit(bd.Categories, total, split)
		halves := components.LayoutRow(cw, 2)
		b.WriteString(components.CardRow([]string{
			components.ContentCard("Allocation", a.renderAllocation("", bd.Categories, total, bd.Currency, halves[0]), halves[0]),
			components.ContentCard("Suggested Split", a.renderAllocation("from budget insight", applied, total, bd.Currency, halves[1]), halves[1]),
		}))
	}
	b.WriteString("\n")
	b.WriteString(components.ContentCard(fmt.Sprintf("High-Impact Items (>15%% of %s)", cli.FormatAmount(total, bd.Currency)), a.renderHighImpact(bd, cw), cw))

	return b.String()
}

// suggestedSplit returns the budget insight's split for a trip, if loaded.
func (a App) suggestedSplit(tripID string) map[string]float64 {
	st := a.insights[tripID]
	if st == nil {
		return nil
	}
	in := st.panels[travelapi.CategoryBudget]
	if in == nil || in.Budget == nil {
		return nil
	}
	return in.Budget.Split()
}

func (a App) renderAllocation(note string, cats model.CategoryTotals, total float64, currency string, outerW int) string {
	t := theme.Active
	palette := t.CategoryPalette()
	inner := components.CardInnerWidth(outerW)

	const labelW = 11
	valueW := 18
	barW := inner - labelW - valueW - 2
	if barW < 8 {
		barW = 8
	}

	peak := 0.0
	for _, c := range model.Categories {
		if v := cats.Get(c); v > peak {
			peak = v
		}
	}

	var b strings.Builder
	for i, c := range model.Categories {
		v := cats.Get(c)
		share := 0.0
		if total > 0 {
			share = v / total
		}
		valueStr := fmt.Sprintf("%s %s", cli.FormatAmountCompact(v, currency), cli.FormatPercent(share))
		b.WriteString(components.HBar(c.Label(), v, peak, valueStr, labelW, barW, palette[i%len(palette)]))
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	footer := fmt.Sprintf("Total %s", cli.FormatAmount(cats.Sum(), currency))
	if note != "" {
		footer += " · " + note
	}
	b.WriteString(muted.Render(footer))
	return b.String()
}

func (a App) renderHighImpact(bd model.BudgetBreakdown, outerW int) string {
	t := theme.Active
	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	if len(bd.HighImpact) == 0 {
		return muted.Render("No single item takes more than 15% of the budget.")
	}

	inner := components.CardInnerWidth(outerW)
	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	hotStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface).Bold(true)

	titleW := inner - 6 - 14 - 8 - 3
	if titleW < 12 {
		titleW = 12
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-6s %-*s %14s %8s", "Day", titleW, "Item", "Cost", "Share")))
	b.WriteString("\n")
	for _, it := range bd.HighImpact {
		b.WriteString(rowStyle.Render(fmt.Sprintf("%-6s %-*s %14s ",
			fmt.Sprintf("D%d", it.Day), titleW, cli.Truncate(it.Title, titleW),
			cli.FormatAmount(it.Amount, bd.Currency))))
		b.WriteString(hotStyle.Render(fmt.Sprintf("%7.1f%%", it.SharePercent)))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
