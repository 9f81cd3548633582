package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

var budgetCmd = &cobra.Command{
	Use:     "budget",
	Aliases: []string{"summary"},
	Short:   "Budget breakdown for a trip",
	RunE:    runBudget,
}

var (
	budgetLimit int
	budgetSmart bool
)

func init() {
	for _, c := range []*cobra.Command{rootCmd, budgetCmd} {
		c.Flags().IntVarP(&budgetLimit, "limit", "l", 0, "High-impact items to show (default from config)")
		c.Flags().BoolVar(&budgetSmart, "smart", false, "Fetch the budget insight and apply its suggested split")
	}
	rootCmd.AddCommand(budgetCmd)
}

func runBudget(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, closeStore := openStore()
	defer closeStore()

	trip, err := selectTrip(st)
	if err != nil {
		if errors.Is(err, errNoTrips) {
			fmt.Println("\n  No trips found.")
			fmt.Println("  Plan one with `tripmeter plan --destination Goa --days 3`.")
			return nil
		}
		return err
	}

	opts := analysisOptions(cfg)
	if budgetLimit > 0 {
		opts.HighImpactLimit = budgetLimit
	}
	bd := pipeline.Analyze(trip, opts)

	var smart *travelapi.BudgetInsight
	if budgetSmart {
		smart = fetchBudgetInsight(cfg, trip)
		if smart != nil {
			bd.Categories = pipeline.ApplySuggestedSplit(bd.Categories, bd.Metrics.Total, smart.Split())
		}
	}

	renderBudget(trip, bd, pipeline.SelectTip(trip, bd.Metrics), smart)
	return nil
}

// fetchBudgetInsight returns nil (with a note) when the insight cannot be loaded.
func fetchBudgetInsight(cfg config.Config, trip model.Trip) *travelapi.BudgetInsight {
	client, err := newClient(cfg)
	if err != nil {
		progress("  %v\n", err)
		return nil
	}
	progress("  Fetching budget insight for %s...\n", trip.Destination)

	ctx, cancel := commandContext()
	defer cancel()
	in, err := client.Insight(ctx, travelapi.RequestFor(travelapi.CategoryBudget, trip))
	if err != nil {
		progress("  Budget insight unavailable: %v\n", explainAPIError(err))
		return nil
	}
	return in.Budget
}

func renderBudget(trip model.Trip, bd model.BudgetBreakdown, tip model.BudgetTip, smart *travelapi.BudgetInsight) {
	cur := bd.Currency
	m := bd.Metrics

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("BUDGET  %s  %s", strings.ToUpper(trip.Destination), cli.FormatDays(trip.DurationDays))))
	fmt.Println()

	fmt.Printf("  %s  %s\n\n", cli.RenderGauge(m.SpentPercentage, 32), cli.RenderHealth(m.Health.String()))

	days := trip.DurationDays
	if days < 1 {
		days = 1
	}
	rows := [][]string{
		{"Total Budget", cli.FormatAmount(m.Total, cur)},
		{"Estimated Spend", cli.FormatAmount(m.EstimatedSpend, cur)},
		{"Remaining", cli.FormatAmount(m.Remaining, cur)},
		{"---"},
		{"Daily Allowance", cli.FormatAmount(m.Total/float64(days), cur) + "/day"},
		{"Health Factor", fmt.Sprintf("%.2f", m.HealthFactor)},
		{"Activities", cli.FormatNumber(int64(trip.Itinerary.ActivityCount()))},
	}
	if len(trip.TravelStyle) > 0 {
		rows = append(rows, []string{"Style", strings.Join(trip.TravelStyle, ", ")})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    rows,
	}))
	if bd.Overspent {
		fmt.Println(cli.RenderWarning("Planned spend exceeds the budget; Misc is shown at its 5% floor."))
	}
	fmt.Println()

	// Allocation
	total := bd.Categories.Sum()
	allocRows := make([][]string, 0, len(model.Categories))
	for _, cat := range model.Categories {
		amt := bd.Categories.Get(cat)
		share := 0.0
		if total > 0 {
			share = amt / total
		}
		allocRows = append(allocRows, []string{
			cat.Label(),
			cli.FormatAmount(amt, cur),
			cli.FormatPercent(share),
		})
	}
	title := "Allocation"
	if smart != nil && len(smart.SuggestedSplit) > 0 {
		title = "Allocation (AI suggested split)"
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   title,
		Headers: []string{"Category", "Amount", "Share"},
		Rows:    allocRows,
	}))
	fmt.Println()

	// Daily spend
	if len(bd.Daily) > 0 {
		values := make([]float64, len(bd.Daily))
		var peak float64
		for i, d := range bd.Daily {
			values[i] = d.Amount
			if d.Amount > peak {
				peak = d.Amount
			}
		}
		fmt.Println(cli.RenderHeader("Daily Spend") + "  " + cli.RenderSparkline(values))
		for _, d := range bd.Daily {
			fmt.Printf("%s  %s\n", cli.RenderHorizontalBar(d.Label, d.Amount, peak, 28), cli.FormatAmount(d.Amount, cur))
		}
		fmt.Println()
	}

	// High-impact items
	if len(bd.HighImpact) > 0 {
		impactRows := make([][]string, 0, len(bd.HighImpact))
		for _, it := range bd.HighImpact {
			impactRows = append(impactRows, []string{
				fmt.Sprintf("Day %d", it.Day),
				cli.Truncate(it.Title, 32),
				it.CostEstimate,
				fmt.Sprintf("%.1f%%", it.SharePercent),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "High-Impact Items",
			Headers: []string{"Day", "Item", "Cost", "Share"},
			Rows:    impactRows,
		}))
		fmt.Println()
	}

	fmt.Println(cli.RenderHeader(tip.Title))
	fmt.Println(cli.RenderNote(tip.Text))

	if smart != nil {
		fmt.Println()
		renderBudgetInsight(smart)
	}
	fmt.Println()
}
