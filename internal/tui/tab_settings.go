package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/store"
	"github.com/theirongolddev/tripmeter/internal/tui/components"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldAPIURL = iota
	settingsFieldToken
	settingsFieldTheme
	settingsFieldCurrency
	settingsFieldUSDRate
	settingsFieldHighImpact
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool
	saveErr error
	invalid string // reason the last value was rejected
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := a.cfg
	a.settings.editing = true
	a.settings.saved = false
	a.settings.invalid = ""

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldAPIURL:
		ti.Placeholder = "http://localhost:8000"
		ti.SetValue(cfg.General.APIURL)
	case settingsFieldToken:
		ti.Placeholder = "bearer token from the web app"
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
		ti.SetValue(cfg.Auth.Token)
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldCurrency:
		ti.Placeholder = "INR, USD, EUR, GBP, JPY or a symbol"
		ti.SetValue(cfg.General.DefaultCurrency)
	case settingsFieldUSDRate:
		ti.Placeholder = "80"
		ti.SetValue(strconv.FormatFloat(config.USDRate(cfg), 'f', -1, 64))
	case settingsFieldHighImpact:
		ti.Placeholder = "5"
		ti.SetValue(strconv.Itoa(cfg.Budget.HighImpactLimit))
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = "30 (seconds, minimum 10)"
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		reanalyze := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil && a.settings.invalid == ""
		if reanalyze {
			return a.reload()
		}
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited value to the config and persists it.
// It reports whether trips need to be re-analyzed.
func (a *App) settingsSave() bool {
	cfg := a.cfg
	val := strings.TrimSpace(a.settings.input.Value())
	reanalyze := false
	a.settings.invalid = ""

	switch a.settings.cursor {
	case settingsFieldAPIURL:
		cfg.General.APIURL = val
	case settingsFieldToken:
		cfg.Auth.Token = val
	case settingsFieldTheme:
		if !theme.Valid(val) {
			a.settings.invalid = "unknown theme " + strconv.Quote(val)
			return false
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldCurrency:
		cfg.General.DefaultCurrency = config.NormalizeCurrencySymbol(val, cfg.General.DefaultCurrency)
	case settingsFieldUSDRate:
		rate, err := strconv.ParseFloat(val, 64)
		if err != nil || !config.ValidUSDRate(rate) {
			a.settings.invalid = "rate must be a positive number"
			return false
		}
		cfg.General.USDRate = rate
		reanalyze = true
	case settingsFieldHighImpact:
		n, err := strconv.Atoi(val)
		if err != nil || n < 0 {
			a.settings.invalid = "limit must be zero or more"
			return false
		}
		cfg.Budget.HighImpactLimit = n
		reanalyze = true
	case settingsFieldAutoRefresh:
		b, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.invalid = "enter true or false"
			return false
		}
		cfg.TUI.AutoRefresh = b
		a.autoRefresh = b
	case settingsFieldRefreshInterval:
		sec, err := strconv.Atoi(val)
		if err != nil || sec < 10 {
			a.settings.invalid = "interval must be at least 10 seconds"
			return false
		}
		cfg.TUI.RefreshIntervalSec = sec
		a.refreshInterval = time.Duration(sec) * time.Second
	}

	a.cfg = cfg
	if a.settings.cursor == settingsFieldAPIURL || a.settings.cursor == settingsFieldToken {
		a.rebuildClient()
	}
	a.settings.saveErr = config.Save(cfg)
	return reanalyze
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return "(not set)"
	case len(s) > 16:
		return s[:6] + "..." + s[len(s)-4:]
	default:
		return "****"
	}
}

func (a App) renderSettingsTab(cw, _ int) string {
	t := theme.Active
	cfg := a.cfg

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	tokenDisplay := maskSecret(config.GetToken(cfg))
	if cfg.Auth.Token == "" && config.GetToken(cfg) != "" {
		tokenDisplay += " (from env)"
	}

	fields := []field{
		{"API URL", config.GetAPIURL(cfg)},
		{"Token", tokenDisplay},
		{"Theme", cfg.Appearance.Theme},
		{"Currency", cfg.General.DefaultCurrency},
		{"USD Rate", strconv.FormatFloat(config.USDRate(cfg), 'f', -1, 64)},
		{"High-Impact Rows", strconv.Itoa(cfg.Budget.HighImpactLimit)},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	switch {
	case a.settings.invalid != "":
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render("Not saved: " + a.settings.invalid))
	case a.settings.saveErr != nil:
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	case a.settings.saved:
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	user := "not signed in"
	if a.session != nil {
		user = a.session.DisplayName()
	}
	infoBody.WriteString(labelStyle.Render("Signed in as:  ") + valueStyle.Render(user) + "\n")
	infoBody.WriteString(labelStyle.Render("Trips loaded:  ") + valueStyle.Render(cli.FormatNumber(int64(len(a.trips)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:     ") + valueStyle.Render(fmt.Sprintf("%.2fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:   ") + valueStyle.Render(config.ConfigPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Trip cache:    ") + valueStyle.Render(store.CachePath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
