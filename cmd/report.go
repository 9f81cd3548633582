package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/auth"
	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/report"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export the trip budget as a PDF",
	RunE:  runReport,
}

var (
	reportOut   string
	reportSmart bool
)

func init() {
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Output file (default: <destination>-budget.pdf)")
	reportCmd.Flags().BoolVar(&reportSmart, "smart", false, "Include the AI budget insight")
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, closeStore := openStore()
	defer closeStore()

	trip, err := selectTrip(st)
	if err != nil {
		return err
	}

	bd := pipeline.Analyze(trip, analysisOptions(cfg))
	var smart *travelapi.BudgetInsight
	if reportSmart {
		if smart = fetchBudgetInsight(cfg, trip); smart != nil {
			bd.Categories = pipeline.ApplySuggestedSplit(bd.Categories, bd.Metrics.Total, smart.Split())
		}
	}

	out := reportOut
	if out == "" {
		out = reportFileName(trip.Destination)
	}

	data := report.Data{
		Trip:        trip,
		Breakdown:   bd,
		Tip:         pipeline.SelectTip(trip, bd.Metrics),
		Insight:     smart,
		Traveler:    travelerName(cfg),
		GeneratedAt: time.Now(),
	}
	if err := report.WriteFile(out, data); err != nil {
		return err
	}
	fmt.Printf("  Wrote %s\n", out)
	return nil
}

func travelerName(cfg config.Config) string {
	sess, err := auth.NewSession(config.GetToken(cfg))
	if err != nil || sess.Opaque {
		return ""
	}
	return sess.DisplayName()
}

func reportFileName(dest string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, strings.TrimSpace(dest))
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "trip"
	}
	if _, err := os.Stat(slug + "-budget.pdf"); err == nil {
		return fmt.Sprintf("%s-budget-%s.pdf", slug, time.Now().Format("20060102-150405"))
	}
	return slug + "-budget.pdf"
}
