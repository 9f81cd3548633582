package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/store"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

var (
	flagNoCache bool
	flagQuiet   bool
	flagTrip    string
)

var errNoTrips = errors.New("no trips yet: run `tripmeter plan --destination <city>` or `tripmeter trips add`")

var rootCmd = &cobra.Command{
	Use:   "tripmeter",
	Short: "Trip budget dashboard for the AI travel planner",
	Long:  "Plan trips, track itinerary spend against your budget, and pull budget, crowd, safety, sustainability and review insights.",
	RunE:  runBudget,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadDotEnv)

	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Use an in-memory trip list instead of the SQLite cache")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVarP(&flagTrip, "trip", "t", "", "Trip id or id prefix (default: active trip)")
}

// loadDotEnv lets TRIPMETER_* variables come from a local .env file.
// Variables already set in the environment win.
func loadDotEnv() {
	_ = godotenv.Load()
}

// loadConfig returns the config, falling back to defaults with a warning.
func loadConfig() config.Config {
	cfg, err := config.Load()
	if err != nil {
		progress("  Config unreadable (%v), using defaults\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

// openStore is the shared trip loading path used by all commands. Uses the
// SQLite cache unless --no-cache; a cache that cannot be opened falls back to
// an empty in-memory store. The returned func closes the cache.
func openStore() (*store.Store, func()) {
	noop := func() {}
	if flagNoCache {
		return store.New(), noop
	}

	cache, err := store.OpenCache(store.CachePath())
	if err != nil {
		// Cache open failed, fall back to in-memory
		progress("  Trip cache unavailable (%v), changes will not be saved\n", err)
		return store.New(), noop
	}
	st, err := store.Open(cache)
	if err != nil {
		_ = cache.Close()
		progress("  Trip cache unreadable (%v), changes will not be saved\n", err)
		return store.New(), noop
	}
	return st, func() { _ = cache.Close() }
}

// selectTrip returns the trip named by --trip, or the active trip.
func selectTrip(st *store.Store) (model.Trip, error) {
	if flagTrip != "" {
		return st.Get(flagTrip)
	}
	if t, ok := st.Active(); ok {
		return t, nil
	}
	return model.Trip{}, errNoTrips
}

// newClient builds the insight API client from config and environment.
func newClient(cfg config.Config) (*travelapi.Client, error) {
	client := travelapi.NewClient(config.GetAPIURL(cfg), config.GetToken(cfg), config.RequestTimeout(cfg))
	if client == nil {
		return nil, fmt.Errorf("invalid api_url %q (expected http:// or https://)", config.GetAPIURL(cfg))
	}
	return client, nil
}

// analysisOptions maps config onto aggregator options.
func analysisOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		HighImpactLimit: cfg.Budget.HighImpactLimit,
		USDRate:         config.USDRate(cfg),
	}
}

// explainAPIError turns sentinel API errors into actionable messages.
func explainAPIError(err error) error {
	switch {
	case errors.Is(err, travelapi.ErrUnauthorized):
		return errors.New("the travel API rejected your token: set TRIPMETER_TOKEN or run `tripmeter setup`")
	case errors.Is(err, travelapi.ErrRateLimited):
		return errors.New("rate limited by the travel API, try again in a minute")
	default:
		return fmt.Errorf("unable to load: %w", err)
	}
}

// commandContext is canceled on Ctrl-C. Each API call carries its own timeout.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// progress writes to stderr unless --quiet.
func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
