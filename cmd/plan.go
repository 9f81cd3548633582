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

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate an itinerary with the AI planner and save it as a trip",
	Long: `Generate an itinerary with the AI planner and save it as a trip.

Planning the active trip's destination again updates that trip in place
(set planner.regenerate = "new" in the config, or pass --new, to add a
separate trip instead).`,
	RunE: runPlan,
}

var (
	planDestination string
	planDays        int
	planBudget      string
	planCurrency    string
	planDates       string
	planPace        string
	planStyles      []string
	planGroupSize   int
	planPrompt      string
	planDietary     string
	planAccess      string
	planNew         bool
)

func init() {
	f := planCmd.Flags()
	f.StringVarP(&planDestination, "destination", "d", "", "Destination city or region (required)")
	f.IntVar(&planDays, "days", 3, "Trip length in days")
	f.StringVar(&planBudget, "budget", config.DefaultBudgetInput, `Budget: a preset ("Budget", "Medium", "High") or an amount like "50k" or "1L"`)
	f.StringVar(&planCurrency, "currency", "", "Currency code or symbol (default from config)")
	f.StringVar(&planDates, "dates", "", "Travel dates (free text)")
	f.StringVar(&planPace, "pace", "", "Relaxed, Moderate or Fast-paced (default from config)")
	f.StringSliceVarP(&planStyles, "style", "s", nil, "Travel styles: "+strings.Join(config.Interests, ", "))
	f.IntVar(&planGroupSize, "group", 0, "Group size (default from config)")
	f.StringVar(&planPrompt, "prompt", "", "Extra natural-language instructions for the planner")
	f.StringVar(&planDietary, "dietary", "", "Dietary restrictions")
	f.StringVar(&planAccess, "accessibility", "", "Accessibility needs")
	f.BoolVar(&planNew, "new", false, "Always add a new trip, even for the active destination")
	_ = planCmd.MarkFlagRequired("destination")

	rootCmd.AddCommand(planCmd)
}

func runPlan(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	dest := strings.TrimSpace(planDestination)
	if dest == "" {
		return errors.New("--destination must not be empty")
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	req := buildPlanRequest(cfg, dest)
	progress("  Planning %s in %s...\n", cli.FormatDays(req.DurationDays), dest)

	ctx, cancel := commandContext()
	defer cancel()
	res, err := client.Plan(ctx, req)
	if err != nil {
		return explainAPIError(err)
	}
	if res.Fallback {
		fmt.Println(cli.RenderWarning("The planner response was unusable; saved a placeholder itinerary instead."))
	}

	st, closeStore := openStore()
	defer closeStore()

	forceNew := planNew || config.NormalizeRegenerate(cfg.Planner.Regenerate) == config.RegenerateNew
	trip, updated, err := st.SavePlan(model.Trip{
		Destination:  dest,
		DurationDays: req.DurationDays,
		TravelStyle:  req.Preferences.TravelStyle,
		Budget: model.Budget{
			Total:    pipeline.ParseBudgetInput(req.Budget),
			Currency: config.NormalizeCurrencySymbol(planCurrency, cfg.General.DefaultCurrency),
		},
		Itinerary: res.Itinerary,
	}, forceNew)
	if err != nil {
		return err
	}

	verb := "Saved"
	if updated {
		verb = "Updated"
	}
	fmt.Printf("  %s trip %s (%s): %d days, %d activities\n",
		verb, trip.Destination, shortID(trip.ID), len(trip.Itinerary.Days), trip.Itinerary.ActivityCount())

	bd := pipeline.Analyze(trip, analysisOptions(cfg))
	renderBudget(trip, bd, pipeline.SelectTip(trip, bd.Metrics), nil)
	return nil
}

func buildPlanRequest(cfg config.Config, dest string) travelapi.PlanRequest {
	days := planDays
	if days < 1 {
		days = 1
	}
	pace := planPace
	if pace == "" {
		pace = cfg.Planner.DefaultPace
	}
	pace = config.NormalizePace(pace)
	group := planGroupSize
	if group <= 0 {
		group = cfg.Planner.GroupSize
	}
	if group <= 0 {
		group = 1
	}

	return travelapi.PlanRequest{
		Destination:  dest,
		Dates:        planDates,
		DurationDays: days,
		Budget:       budgetInput(planBudget),
		GroupSize:    group,
		Preferences: travelapi.Preferences{
			Pace:                pace,
			TravelStyle:         normalizeStyles(planStyles),
			Accessibility:       planAccess,
			DietaryRestrictions: planDietary,
		},
		NaturalLanguagePrompt: planPrompt,
	}
}

// budgetInput expands a preset tier name into its planner text.
func budgetInput(raw string) string {
	s := strings.TrimSpace(raw)
	for _, tier := range config.BudgetTiers {
		if strings.EqualFold(s, tier.Label) {
			return tier.Input
		}
	}
	if s == "" {
		return config.DefaultBudgetInput
	}
	return s
}
