package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/store"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

var insightCmd = &cobra.Command{
	Use:       "insight [budget|crowd|safety|sustainability|reviews]",
	Short:     "Fetch AI intelligence panels for a trip",
	Long:      "Fetch one insight panel for the selected trip, or all five when no category is given.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"budget", "crowd", "safety", "sustainability", "reviews"},
	RunE:      runInsight,
}

var insightDestination string

func init() {
	insightCmd.Flags().StringVar(&insightDestination, "destination", "", "Query a destination without a saved trip")
	rootCmd.AddCommand(insightCmd)
}

func runInsight(_ *cobra.Command, args []string) error {
	cfg := loadConfig()
	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	st, closeStore := openStore()
	defer closeStore()

	trip, err := selectTrip(st)
	switch {
	case insightDestination != "":
		trip.Destination = insightDestination
	case err != nil:
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if len(args) == 0 {
		progress("  Fetching insights for %s...\n", trip.Destination)
		set := client.FetchAll(ctx, trip)
		if len(set.Insights) == 0 {
			return explainAPIError(set.Err())
		}
		for _, cat := range travelapi.Categories {
			fmt.Println()
			if in, ok := set.Insights[cat]; ok {
				renderInsight(in)
				applySafetyScore(st, trip.ID, in)
				continue
			}
			fmt.Println(cli.RenderHeader(categoryTitle(cat)))
			fmt.Println(cli.RenderWarning("unable to load: " + errorText(set.Errors[cat])))
		}
		fmt.Println()
		return nil
	}

	cat, err := travelapi.ParseCategory(args[0])
	if err != nil {
		return err
	}
	progress("  Fetching %s insight for %s...\n", cat, trip.Destination)
	in, err := client.Insight(ctx, travelapi.RequestFor(cat, trip))
	if err != nil {
		return explainAPIError(err)
	}
	fmt.Println()
	renderInsight(in)
	applySafetyScore(st, trip.ID, in)
	fmt.Println()
	return nil
}

// applySafetyScore stores the fetched safety score (0-100) on the trip as a 0-10 rating.
func applySafetyScore(st *store.Store, tripID string, in *travelapi.Insight) {
	if tripID == "" || in.Safety == nil {
		return
	}
	score := in.Safety.Score.Float() / 10
	if _, err := st.Update(tripID, func(t *model.Trip) { t.SafetyScore = score }); err != nil {
		progress("  Could not save safety score: %v\n", err)
	}
}

func errorText(err error) string {
	if errors.Is(err, travelapi.ErrInsightUnavailable) {
		return "the service could not produce this insight"
	}
	if err == nil {
		return "no data"
	}
	return err.Error()
}

func categoryTitle(cat travelapi.Category) string {
	switch cat {
	case travelapi.CategoryBudget:
		return "Smart Budget"
	case travelapi.CategoryCrowd:
		return "Crowd Intelligence"
	case travelapi.CategorySafety:
		return "Safety"
	case travelapi.CategorySustainability:
		return "Sustainability"
	default:
		return "Reviews"
	}
}

func renderInsight(in *travelapi.Insight) {
	fmt.Println(cli.RenderTitle(strings.ToUpper(categoryTitle(in.Category)) + "  " + in.Destination))
	fmt.Println()
	switch {
	case in.Budget != nil:
		renderBudgetInsight(in.Budget)
	case in.Crowd != nil:
		renderCrowdInsight(in.Crowd)
	case in.Safety != nil:
		renderSafetyInsight(in.Safety)
	case in.Sustainability != nil:
		renderSustainabilityInsight(in.Sustainability)
	case in.Reviews != nil:
		renderReviewsInsight(in.Reviews)
	}
}

func renderBudgetInsight(b *travelapi.BudgetInsight) {
	if b.BudgetAnalysis != "" {
		fmt.Println(cli.RenderNote(b.BudgetAnalysis))
		fmt.Println()
	}
	fmt.Printf("  Cost index: %s\n", b.CostIndex.Summary())
	if b.TopPrioritySave != "" {
		fmt.Printf("  Top saving: %s\n", b.TopPrioritySave)
	}
	if split := b.Split(); len(split) > 0 {
		rows := make([][]string, 0, len(split))
		for _, key := range []string{"Accommodation", "Food", "Transport", "Activities"} {
			if pct, ok := split[key]; ok {
				rows = append(rows, []string{key, fmt.Sprintf("%.0f%%", pct)})
			}
		}
		if len(rows) > 0 {
			fmt.Println()
			fmt.Print(cli.RenderTable(cli.Table{Title: "Suggested Split", Headers: []string{"Category", "Share"}, Rows: rows}))
		}
	}
	if len(b.TypicalExpenses) > 0 {
		rows := make([][]string, 0, len(b.TypicalExpenses))
		for _, e := range b.TypicalExpenses {
			rows = append(rows, []string{cli.Truncate(e.Title, 36), e.CostEstimate})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{Title: "Typical Expenses", Headers: []string{"Item", "Cost"}, Rows: rows}))
	}
	fmt.Println()
	fmt.Println(cli.RenderHeader("Savings Strategies"))
	for _, s := range b.SavingsStrategies {
		fmt.Println(cli.RenderNote("• " + s))
	}
	fmt.Println(cli.RenderHeader("Hidden Deals"))
	for _, s := range b.HiddenDeals {
		fmt.Println(cli.RenderNote("• " + s))
	}
}

func renderCrowdInsight(c *travelapi.CrowdInsight) {
	if len(c.HourlyForecast) > 0 {
		values := make([]float64, len(c.HourlyForecast))
		for i, h := range c.HourlyForecast {
			values[i] = h.Density.Float()
		}
		fmt.Println(cli.RenderHeader("Hourly Density") + "  " + cli.RenderSparkline(values))
		if peak, ok := c.PeakHour(); ok {
			fmt.Printf("  Peak: %s (%.0f%%)\n", peak.Time, peak.Density.Float())
		}
		fmt.Println()
	}
	if len(c.MajorSpots) > 0 {
		rows := make([][]string, 0, len(c.MajorSpots))
		for _, s := range c.MajorSpots {
			rows = append(rows, []string{
				cli.Truncate(s.Name, 28),
				s.Status,
				fmt.Sprintf("%.0f%%", s.Density.Float()),
				fmt.Sprintf("%.0f min", s.WaitTime.Float()),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{Title: "Major Spots", Headers: []string{"Spot", "Status", "Density", "Wait"}, Rows: rows}))
	}
	if c.Advice != "" {
		fmt.Println(cli.RenderNote(c.Advice))
	}
}

func renderSafetyInsight(s *travelapi.SafetyInsight) {
	fmt.Printf("  Score: %.0f/100  %s\n", s.Score.Float(), s.Status)
	fmt.Printf("  Emergency: %s\n\n", s.Emergency.String())
	fmt.Println(cli.RenderHeader("Advisories"))
	for _, a := range s.Advisories {
		fmt.Println(cli.RenderNote("• " + a))
	}
	if len(s.Risks) > 0 {
		fmt.Println(cli.RenderHeader("Risks"))
		for _, r := range s.Risks {
			fmt.Println(cli.RenderWarning(r))
		}
	}
}

func renderSustainabilityInsight(s *travelapi.SustainabilityInsight) {
	if len(s.FootprintData) > 0 {
		total := s.TotalFootprint()
		fmt.Println(cli.RenderHeader(fmt.Sprintf("Footprint  %.0f kg CO2", total)))
		var peak float64
		for _, f := range s.FootprintData {
			if v := f.Value.Float(); v > peak {
				peak = v
			}
		}
		for _, f := range s.FootprintData {
			fmt.Printf("%s  %.0f kg\n", cli.RenderHorizontalBar(f.Name, f.Value.Float(), peak, 24), f.Value.Float())
		}
		fmt.Println()
	}
	if len(s.EcoSwaps) > 0 {
		rows := make([][]string, 0, len(s.EcoSwaps))
		for _, e := range s.EcoSwaps {
			rows = append(rows, []string{
				cli.Truncate(e.Original, 22),
				cli.Truncate(e.Swap, 22),
				fmt.Sprintf("%.0f kg", e.CO2Saved.Float()),
				e.FinancialSave.String(),
			})
		}
		fmt.Print(cli.RenderTable(cli.Table{Title: "Eco Swaps", Headers: []string{"Instead of", "Try", "CO2 saved", "Saves"}, Rows: rows}))
	}
	if s.LocalEcoStatus != "" {
		fmt.Println(cli.RenderNote(s.LocalEcoStatus))
	}
}

func renderReviewsInsight(r *travelapi.ReviewsInsight) {
	fmt.Printf("  Trust score: %.0f/100\n", r.TrustScore.Float())
	if r.AISummary != "" {
		fmt.Println(cli.RenderNote(r.AISummary))
	}
	fmt.Println()
	if len(r.Pros) > 0 {
		fmt.Println(cli.RenderHeader("Pros"))
		for _, p := range r.Pros {
			fmt.Println(cli.RenderNote("+ " + p))
		}
	}
	if len(r.Cons) > 0 {
		fmt.Println(cli.RenderHeader("Cons"))
		for _, c := range r.Cons {
			fmt.Println(cli.RenderNote("- " + c))
		}
	}
	if len(r.Reviews) > 0 {
		rows := make([][]string, 0, len(r.Reviews))
		for _, rv := range r.Reviews {
			rows = append(rows, []string{
				cli.Truncate(rv.Author, 16),
				fmt.Sprintf("%.1f", rv.Rating.Float()),
				rv.Sentiment,
				cli.Truncate(rv.Title, 34),
			})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{Title: "Recent Reviews", Headers: []string{"Author", "Rating", "Sentiment", "Title"}, Rows: rows}))
	}
}
