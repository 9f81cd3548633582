package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
)

var itineraryCmd = &cobra.Command{
	Use:     "itinerary",
	Aliases: []string{"daily"},
	Short:   "Day-by-day itinerary with parsed costs",
	RunE:    runItinerary,
}

func init() {
	rootCmd.AddCommand(itineraryCmd)
}

func runItinerary(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	st, closeStore := openStore()
	defer closeStore()

	trip, err := selectTrip(st)
	if err != nil {
		return err
	}
	if len(trip.Itinerary.Days) == 0 {
		fmt.Println("\n  This trip has no itinerary yet.")
		return nil
	}

	rate := analysisOptions(cfg).USDRate
	cur := trip.Currency()

	fmt.Println()
	title := trip.Itinerary.Summary.Title
	if title == "" {
		title = trip.Destination
	}
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ITINERARY  %s", title)))
	fmt.Println()

	for i, day := range trip.Itinerary.Days {
		rows := make([][]string, 0, len(day.Activities))
		var dayTotal float64
		for _, a := range day.Activities {
			amt := pipeline.ParseCostWithRate(a.CostEstimate, rate)
			dayTotal += amt
			rows = append(rows, []string{
				a.Time,
				cli.Truncate(a.Title, 30),
				a.Type,
				a.CostEstimate,
				cli.FormatAmount(amt, cur),
			})
		}
		rows = append(rows, []string{"---"}, []string{"", "Day total", "", "", cli.FormatAmount(dayTotal, cur)})

		header := fmt.Sprintf("Day %d", i+1)
		if day.Theme != "" {
			header += "  " + day.Theme
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   header,
			Headers: []string{"Time", "Activity", "Type", "Quoted", "Parsed"},
			Rows:    rows,
		}))
		fmt.Println()
	}
	return nil
}
