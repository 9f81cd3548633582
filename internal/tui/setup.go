package tui

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/huh"
)

// setupValues holds the first-run answers bound to the huh form fields.
type setupValues struct {
	apiURL   string
	token    string
	theme    string
	currency string
	pace     string
}

func setupValuesFrom(cfg config.Config) setupValues {
	cur := "INR"
	if c, ok := config.LookupCurrency(cfg.General.DefaultCurrency); ok {
		cur = c.Code
	}
	return setupValues{
		apiURL:   config.GetAPIURL(cfg),
		token:    cfg.Auth.Token,
		theme:    cfg.Appearance.Theme,
		currency: cur,
		pace:     config.NormalizePace(cfg.Planner.DefaultPace),
	}
}

func validateAPIURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("enter a full URL like http://localhost:8000")
	}
	return nil
}

func currencyOptions() []huh.Option[string] {
	codes := make([]string, 0, len(config.KnownCurrencies))
	for code := range config.KnownCurrencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	opts := make([]huh.Option[string], 0, len(codes))
	for _, code := range codes {
		c := config.KnownCurrencies[code]
		opts = append(opts, huh.NewOption(fmt.Sprintf("%s  %s", c.Symbol, c.Name), code))
	}
	return opts
}

// newSetupForm builds the first-run wizard. Answers land in vals.
func newSetupForm(tripCount int, vals *setupValues) *huh.Form {
	welcome := "Welcome to tripmeter. Let's point the dashboard at your planner."
	if tripCount > 0 {
		welcome = fmt.Sprintf("Welcome to tripmeter. Found %d cached trips.", tripCount)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("tripmeter setup").
				Description(welcome),
			huh.NewInput().
				Title("Planner API URL").
				Placeholder("http://localhost:8000").
				Validate(validateAPIURL).
				Value(&vals.apiURL),
			huh.NewInput().
				Title("Bearer token").
				Description("Leave empty to use TRIPMETER_TOKEN or to stay signed out.").
				EchoMode(huh.EchoModePassword).
				Value(&vals.token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Display currency").
				Options(currencyOptions()...).
				Value(&vals.currency),
			huh.NewSelect[string]().
				Title("Default trip pace").
				Options(huh.NewOptions(config.Paces...)...).
				Value(&vals.pace),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
		),
	).WithTheme(huh.ThemeDracula()).WithShowHelp(true)
}

// saveSetupConfig applies the wizard answers to the running app and
// persists them.
func (a *App) saveSetupConfig() error {
	v := a.setupVals
	cfg := a.cfg

	if u := strings.TrimSpace(v.apiURL); u != "" {
		cfg.General.APIURL = u
	}
	cfg.Auth.Token = strings.TrimSpace(v.token)
	if c, ok := config.KnownCurrencies[v.currency]; ok {
		cfg.General.DefaultCurrency = c.Symbol
	}
	cfg.Planner.DefaultPace = config.NormalizePace(v.pace)
	if theme.Valid(v.theme) {
		cfg.Appearance.Theme = v.theme
		theme.SetActive(v.theme)
	}

	a.cfg = cfg
	a.rebuildClient()
	return config.Save(cfg)
}
