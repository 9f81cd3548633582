// Package cmd implements the tripmeter CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Trip cache:  %s\n", store.CachePath())
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    API URL:          %s\n", config.GetAPIURL(cfg))
	fmt.Printf("    Currency:         %s\n", cfg.General.DefaultCurrency)
	fmt.Printf("    USD rate:         %g\n", config.USDRate(cfg))
	fmt.Printf("    Request timeout:  %s\n", config.RequestTimeout(cfg))
	fmt.Println()

	fmt.Println("  [Auth]")
	switch token := config.GetToken(cfg); {
	case token == "":
		fmt.Println("    Token: not configured")
	case cfg.Auth.Token == "":
		fmt.Printf("    Token: %s (from TRIPMETER_TOKEN)\n", maskToken(token))
	default:
		fmt.Printf("    Token: %s\n", maskToken(token))
	}
	fmt.Println()

	fmt.Println("  [Budget]")
	fmt.Printf("    High-impact rows: %d\n", cfg.Budget.HighImpactLimit)
	fmt.Println()

	fmt.Println("  [Planner]")
	fmt.Printf("    Regenerate:  %s\n", config.NormalizeRegenerate(cfg.Planner.Regenerate))
	fmt.Printf("    Pace:        %s\n", config.NormalizePace(cfg.Planner.DefaultPace))
	fmt.Printf("    Group size:  %d\n", cfg.Planner.GroupSize)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh: %v every %s\n", cfg.TUI.AutoRefresh, config.RefreshInterval(cfg))
	fmt.Println()

	fmt.Println("  Run `tripmeter setup` to reconfigure.")
	return nil
}
