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
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "List and manage saved trips",
	RunE:  runTripsList,
}

var tripsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Trip list with budget status",
	RunE:  runTripsList,
}

var tripsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show one trip (default: active trip)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTripsShow,
}

var tripsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a trip the active trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripsUse,
}

var tripsDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a trip",
	Args:    cobra.ExactArgs(1),
	RunE:    runTripsDelete,
}

var tripsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a trip without calling the planner",
	RunE:  runTripsAdd,
}

var (
	tripsAddDestination string
	tripsAddDays        int
	tripsAddBudget      string
	tripsAddCurrency    string
	tripsAddStyles      []string
)

func init() {
	tripsAddCmd.Flags().StringVar(&tripsAddDestination, "destination", "", "Destination (required)")
	tripsAddCmd.Flags().IntVar(&tripsAddDays, "days", 3, "Trip length in days")
	tripsAddCmd.Flags().StringVar(&tripsAddBudget, "budget", config.DefaultBudgetInput, `Budget, e.g. "50k", "1L" or "30000"`)
	tripsAddCmd.Flags().StringVar(&tripsAddCurrency, "currency", "", "Currency code or symbol (default from config)")
	tripsAddCmd.Flags().StringSliceVar(&tripsAddStyles, "style", nil, "Travel styles (repeatable)")
	_ = tripsAddCmd.MarkFlagRequired("destination")

	tripsCmd.AddCommand(tripsListCmd, tripsShowCmd, tripsUseCmd, tripsDeleteCmd, tripsAddCmd)
	rootCmd.AddCommand(tripsCmd)
}

func runTripsList(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, closeStore := openStore()
	defer closeStore()

	trips := st.Trips()
	if len(trips) == 0 {
		fmt.Println("\n  No trips found.")
		return nil
	}

	result := pipeline.AnalyzeAll(trips, analysisOptions(cfg), func(current, total int) {
		if current%50 == 0 || current == total {
			progress("\r  Analyzing [%d/%d]", current, total)
		}
	})
	progress("\n")

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("TRIPS  %d saved", result.TotalTrips)))
	fmt.Println()

	activeID := st.ActiveID()
	rows := make([][]string, 0, len(trips))
	for i, t := range trips {
		bd := result.Breakdowns[i]
		marker := " "
		if t.ID == activeID {
			marker = "*"
		}
		rows = append(rows, []string{
			marker,
			shortID(t.ID),
			cli.Truncate(t.Destination, 20),
			cli.FormatDays(t.DurationDays),
			cli.FormatAmountCompact(bd.Metrics.Total, bd.Currency),
			cli.FormatAmountCompact(bd.Metrics.EstimatedSpend, bd.Currency),
			fmt.Sprintf("%.0f%%", bd.Metrics.SpentPercentage),
			bd.Metrics.Health.String(),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "ID", "Destination", "Length", "Budget", "Spend", "Used", "Health"},
		Rows:    rows,
	}))

	if result.Critical > 0 {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("%d trip(s) above 90%% of budget", result.Critical)))
	}
	if result.Overspent > 0 {
		fmt.Println(cli.RenderWarning(fmt.Sprintf("%d trip(s) plan more than their budget", result.Overspent)))
	}
	return nil
}

func runTripsShow(_ *cobra.Command, args []string) error {
	st, closeStore := openStore()
	defer closeStore()

	if len(args) == 1 {
		flagTrip = args[0]
	}
	t, err := selectTrip(st)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(strings.ToUpper(t.Destination)))
	fmt.Println()
	rows := [][]string{
		{"ID", t.ID},
		{"Length", cli.FormatDays(t.DurationDays)},
		{"Budget", cli.FormatAmount(t.Budget.Total, t.Currency())},
		{"Style", strings.Join(t.TravelStyle, ", ")},
		{"Safety", fmt.Sprintf("%.1f/10", t.SafetyScore)},
		{"Eco", fmt.Sprintf("%.1f/10", t.EcoScore)},
		{"Activities", cli.FormatNumber(int64(t.Itinerary.ActivityCount()))},
		{"Created", t.CreatedAt.Local().Format("Jan 02 2006 15:04")},
		{"Updated", t.UpdatedAt.Local().Format("Jan 02 2006 15:04")},
	}
	if s := t.Itinerary.Summary; s.Title != "" {
		rows = append(rows, []string{"Plan", s.Title})
	}
	if t.ID == st.ActiveID() {
		rows = append(rows, []string{"Status", "active"})
	}
	fmt.Print(cli.RenderTable(cli.Table{Headers: []string{"Field", "Value"}, Rows: rows}))
	return nil
}

func runTripsUse(_ *cobra.Command, args []string) error {
	st, closeStore := openStore()
	defer closeStore()

	if err := st.SetActive(args[0]); err != nil {
		return err
	}
	t, _ := st.Active()
	fmt.Printf("  Active trip: %s (%s)\n", t.Destination, shortID(t.ID))
	return nil
}

func runTripsDelete(_ *cobra.Command, args []string) error {
	st, closeStore := openStore()
	defer closeStore()

	t, err := st.Get(args[0])
	if err != nil {
		return err
	}
	if err := st.Delete(t.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted %s (%s)\n", t.Destination, shortID(t.ID))
	if a, ok := st.Active(); ok {
		fmt.Printf("  Active trip: %s (%s)\n", a.Destination, shortID(a.ID))
	}
	return nil
}

func runTripsAdd(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, closeStore := openStore()
	defer closeStore()

	dest := strings.TrimSpace(tripsAddDestination)
	if dest == "" {
		return errors.New("--destination must not be empty")
	}
	t, err := st.Add(model.Trip{
		Destination:  dest,
		DurationDays: tripsAddDays,
		TravelStyle:  normalizeStyles(tripsAddStyles),
		Budget: model.Budget{
			Total:    pipeline.ParseBudgetInput(tripsAddBudget),
			Currency: config.NormalizeCurrencySymbol(tripsAddCurrency, cfg.General.DefaultCurrency),
		},
	})
	if err != nil {
		return err
	}
	fmt.Printf("  Added %s (%s), now active\n", t.Destination, shortID(t.ID))
	return nil
}

func normalizeStyles(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s, _ = config.NormalizeInterest(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
