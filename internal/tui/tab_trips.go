package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/tui/components"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// tripsState holds the trips tab state.
type tripsState struct {
	cursor        int
	offset        int // scroll offset for the list
	confirmDelete bool
	message       string
}

func (a *App) tripsMove(delta int) {
	a.tripsState.cursor += delta
	a.tripsState.confirmDelete = false
	a.clampTripsCursor()
}

func (a *App) clampTripsCursor() {
	if a.tripsState.cursor >= len(a.trips) {
		a.tripsState.cursor = len(a.trips) - 1
	}
	if a.tripsState.cursor < 0 {
		a.tripsState.cursor = 0
	}
}

// updateTripsKey handles trips tab keys. The bool reports whether the key
// was consumed.
func (a App) updateTripsKey(key string) (tea.Model, tea.Cmd, bool) {
	ts := &a.tripsState

	if ts.confirmDelete {
		ts.confirmDelete = false
		if key == "y" && ts.cursor < len(a.trips) {
			victim := a.trips[ts.cursor]
			if err := a.store.Delete(victim.ID); err != nil {
				ts.message = "Delete failed: " + err.Error()
				return a, nil, true
			}
			ts.message = "Deleted " + victim.Destination
			a.syncFromStore()
			return a, nil, true
		}
		ts.message = ""
		return a, nil, true
	}

	switch key {
	case "j", "down":
		a.tripsMove(1)
	case "k", "up":
		a.tripsMove(-1)
	case "g":
		ts.cursor = 0
		ts.offset = 0
	case "G":
		ts.cursor = len(a.trips) - 1
		a.clampTripsCursor()
	case "enter":
		if ts.cursor >= len(a.trips) {
			return a, nil, true
		}
		sel := a.trips[ts.cursor]
		if err := a.store.SetActive(sel.ID); err != nil {
			ts.message = "Could not select trip: " + err.Error()
			return a, nil, true
		}
		a.activeID = sel.ID
		ts.message = sel.Destination + " is now the active trip"
	case "d":
		if len(a.trips) > 0 {
			ts.confirmDelete = true
			ts.message = fmt.Sprintf("Delete %s? [y/N]", a.trips[ts.cursor].Destination)
		}
	default:
		return a, nil, false
	}
	return a, nil, true
}

// syncFromStore re-reads trips after a local mutation and re-analyzes them.
func (a *App) syncFromStore() {
	a.trips = a.store.Trips()
	a.activeID = a.store.ActiveID()
	a.result = pipeline.AnalyzeAll(a.trips, a.analysisOptions(), nil)
	a.clampTripsCursor()
}

func (a App) renderTripsTab(cw, h int) string {
	t := theme.Active
	if len(a.trips) == 0 {
		return a.renderNoTrips(cw)
	}
	ts := a.tripsState

	leftW := cw / 3
	if leftW < 34 {
		leftW = 34
	}
	rightW := cw - leftW
	compact := a.isCompactLayout()
	if compact {
		leftW = cw
	}

	leftInner := components.CardInnerWidth(leftW)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	activeMark := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	visible := h - 6 // card border (2) + title (1) + footer hint (2) + message (1)
	if visible < 3 {
		visible = 3
	}
	offset := ts.offset
	if ts.cursor < offset {
		offset = ts.cursor
	}
	if ts.cursor >= offset+visible {
		offset = ts.cursor - visible + 1
	}
	end := min(offset+visible, len(a.trips))

	var left strings.Builder
	for i := offset; i < end; i++ {
		trip := a.trips[i]
		pct := 0.0
		if bd, ok := a.breakdownAt(i); ok {
			pct = bd.Metrics.SpentPercentage
		}
		marker := "  "
		if trip.ID == a.activeID {
			marker = "● "
		}
		destW := leftInner - 2 - 9 - 6
		if destW < 8 {
			destW = 8
		}
		line := fmt.Sprintf("%-*s %8s %4.0f%%", destW, cli.Truncate(trip.Destination, destW),
			cli.FormatDays(trip.DurationDays), pct)

		style := rowStyle
		if i == ts.cursor {
			style = selectedStyle
		}
		left.WriteString(activeMark.Render(marker))
		left.WriteString(style.Render(line))
		left.WriteString("\n")
	}
	if ts.message != "" {
		left.WriteString("\n")
		left.WriteString(activeMark.Render(cli.Truncate(ts.message, leftInner)))
	}
	left.WriteString("\n")
	left.WriteString(mutedStyle.Render("[Enter] use  [d] delete  [j/k] move"))

	leftCard := components.ContentCard(fmt.Sprintf("Trips (%d)", len(a.trips)), left.String(), leftW)
	if compact {
		return leftCard
	}

	sel := a.trips[min(ts.cursor, len(a.trips)-1)]
	rightCard := components.ContentCard(
		fmt.Sprintf("%s · %s", sel.Destination, shortID(sel.ID)),
		a.renderTripDetail(sel, rightW),
		rightW,
	)
	return components.CardRow([]string{leftCard, rightCard})
}

// renderTripDetail lists the itinerary day by day with parsed costs.
func (a App) renderTripDetail(trip model.Trip, outerW int) string {
	t := theme.Active
	inner := components.CardInnerWidth(outerW)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	cur := trip.Currency()
	rate := a.analysisOptions().USDRate

	var b strings.Builder
	if trip.Itinerary.Summary.Title != "" {
		b.WriteString(valueStyle.Render(cli.Truncate(trip.Itinerary.Summary.Title, inner)))
		b.WriteString("\n")
	}
	b.WriteString(labelStyle.Render(fmt.Sprintf("%s · budget %s", cli.FormatDays(trip.DurationDays), cli.FormatAmount(trip.EffectiveTotal(), cur))))
	if len(trip.TravelStyle) > 0 {
		b.WriteString(labelStyle.Render(" · " + strings.Join(trip.TravelStyle, ", ")))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", inner)))
	b.WriteString("\n")

	if len(trip.Itinerary.Days) == 0 {
		b.WriteString(labelStyle.Render("No itinerary yet."))
		return b.String()
	}

	titleW := inner - 10 - 12 - 2
	if titleW < 10 {
		titleW = 10
	}
	for _, d := range trip.Itinerary.Days {
		head := fmt.Sprintf("Day %d", d.Day)
		if d.Theme != "" {
			head += " · " + d.Theme
		}
		b.WriteString(headerStyle.Render(cli.Truncate(head, inner)))
		b.WriteString("\n")
		for _, act := range d.Activities {
			cost := pipeline.ParseCostWithRate(act.CostEstimate, rate)
			b.WriteString(labelStyle.Render(fmt.Sprintf("%-10s", cli.Truncate(act.Time, 10))))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%-*s", titleW, cli.Truncate(act.Title, titleW))))
			b.WriteString(valueStyle.Render(fmt.Sprintf(" %12s", cli.FormatAmount(cost, cur))))
			b.WriteString("\n")
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
