package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()

	st, closeStore := openStore()
	tripCount := st.Len()
	closeStore()

	intro := "Point tripmeter at your travel planner API."
	if tripCount > 0 {
		intro = fmt.Sprintf("Found %d cached trips. %s", tripCount, intro)
	}

	apiURL := config.GetAPIURL(cfg)
	token := cfg.Auth.Token
	currency := "INR"
	if c, ok := config.LookupCurrency(cfg.General.DefaultCurrency); ok {
		currency = c.Code
	}
	rate := strconv.FormatFloat(config.USDRate(cfg), 'f', -1, 64)
	pace := config.NormalizePace(cfg.Planner.DefaultPace)
	regenerate := config.NormalizeRegenerate(cfg.Planner.Regenerate)
	themeName := cfg.Appearance.Theme

	codes := make([]string, 0, len(config.KnownCurrencies))
	for code := range config.KnownCurrencies {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	tokenNote := "Copy it from the web app after signing in. Leave empty to stay signed out."
	if token != "" {
		tokenNote = "Current: " + maskToken(token) + ". Leave as is to keep it."
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().Title("Welcome to tripmeter").Description(intro),
			huh.NewInput().
				Title("Planner API URL").
				Value(&apiURL).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
						return errors.New("must start with http:// or https://")
					}
					return nil
				}),
			huh.NewInput().
				Title("Access token").
				Description(tokenNote).
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Display currency").
				Options(huh.NewOptions(codes...)...).
				Value(&currency),
			huh.NewInput().
				Title("INR per USD").
				Description("Used to convert $ prices in itineraries.").
				Value(&rate).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil || !config.ValidUSDRate(v) {
						return errors.New("enter a positive number")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Default pace").
				Options(huh.NewOptions(config.Paces...)...).
				Value(&pace),
			huh.NewSelect[string]().
				Title("Planning a destination you already have").
				Options(
					huh.NewOption("Update the existing trip", config.RegenerateUpdate),
					huh.NewOption("Create a new trip", config.RegenerateNew),
				).
				Value(&regenerate),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&themeName),
		),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	cfg.General.APIURL = strings.TrimSpace(apiURL)
	cfg.Auth.Token = strings.TrimSpace(token)
	if c, ok := config.KnownCurrencies[currency]; ok {
		cfg.General.DefaultCurrency = c.Symbol
	}
	if v, err := strconv.ParseFloat(strings.TrimSpace(rate), 64); err == nil && config.ValidUSDRate(v) {
		cfg.General.USDRate = v
	}
	cfg.Planner.DefaultPace = pace
	cfg.Planner.Regenerate = regenerate
	cfg.Appearance.Theme = themeName

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `tripmeter setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
