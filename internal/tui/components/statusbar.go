package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Status carries what the bottom bar shows about the running dashboard.
type Status struct {
	// DataAge is how long ago trips were last loaded, pre-formatted.
	DataAge     string
	User        string
	SessionLeft time.Duration
	Refreshing  bool
	AutoRefresh bool
	// ActiveSpend is the active trip's spend fraction (0-1), or -1 for none.
	ActiveSpend float64
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, s Status) string {
	t := theme.Active

	barStyle := lipgloss.NewStyle().Background(t.Surface)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	liveStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface)
	busyStyle := lipgloss.NewStyle().Foreground(t.Yellow).Background(t.Surface)

	left := barStyle.Render(" ") +
		keyStyle.Render("?") + hintStyle.Render(" help  ") +
		keyStyle.Render("r") + hintStyle.Render(" reload  ") +
		keyStyle.Render("q") + hintStyle.Render(" quit")

	var right []string
	if s.ActiveSpend >= 0 {
		right = append(right, CompactGauge("spend", s.ActiveSpend, 22))
	}
	if s.User != "" {
		user := s.User
		if s.SessionLeft > 0 {
			user += " (" + FormatCountdown(s.SessionLeft) + ")"
		}
		right = append(right, hintStyle.Render(user))
	}
	switch {
	case s.Refreshing:
		right = append(right, busyStyle.Render("↻ refreshing"))
	case s.AutoRefresh:
		right = append(right, liveStyle.Render("● live"))
	}
	if s.DataAge != "" {
		right = append(right, dimStyle.Render(fmt.Sprintf("data %s", s.DataAge)))
	}

	rightStr := strings.Join(right, dimStyle.Render("  │  ")) + barStyle.Render(" ")

	padding := width - lipgloss.Width(left) - lipgloss.Width(rightStr)
	if padding < 1 {
		// Not enough room: drop the right-hand details.
		padding = width - lipgloss.Width(left)
		rightStr = ""
		if padding < 0 {
			padding = 0
		}
	}

	return left + barStyle.Render(strings.Repeat(" ", padding)) + rightStr
}
