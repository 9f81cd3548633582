package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/store"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
)

func newTestApp(t *testing.T, trips ...model.Trip) (App, *store.Store) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TRIPMETER_TOKEN", "")

	st := store.New()
	for _, trip := range trips {
		if _, err := st.Add(trip); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	a := NewApp(Options{Store: st, Config: config.DefaultConfig()})
	m, _ := a.applyTrips(TripsLoadedMsg{
		Store:    st,
		Trips:    st.Trips(),
		ActiveID: st.ActiveID(),
		Result:   pipeline.AnalyzeAll(st.Trips(), a.analysisOptions(), nil),
	})
	a = m.(App)
	a.width = 140
	a.height = 40
	return a, st
}

func goaTrip(dest string) model.Trip {
	return model.Trip{
		Destination:  dest,
		DurationDays: 2,
		Budget:       model.Budget{Total: 20000, Currency: "₹"},
		Itinerary: model.Itinerary{Days: []model.Day{
			{Day: 1, Activities: []model.Activity{{Title: "Beach", CostEstimate: "₹2,000"}}},
			{Day: 2, Activities: []model.Activity{{Title: "Fort", CostEstimate: "₹500"}}},
		}},
	}
}

func TestViewRecoversFromRenderPanic(t *testing.T) {
	a, _ := newTestApp(t, goaTrip("Goa"))
	a.activeTab = 42 // no renderer at this index

	out := a.View()
	if !strings.Contains(out, "Press r to reload") {
		t.Fatalf("View() did not show recovery message:\n%s", out)
	}
}

func TestViewRendersEveryTab(t *testing.T) {
	a, _ := newTestApp(t, goaTrip("Goa"))
	for tab := range tabRenderers {
		a.activeTab = tab
		out := a.View()
		if strings.Contains(out, "Something went wrong") {
			t.Errorf("tab %d hit the recovery view", tab)
		}
	}
}

func TestApplyTripsKeepsDataOnError(t *testing.T) {
	a, _ := newTestApp(t, goaTrip("Goa"))

	m, _ := a.applyTrips(TripsLoadedMsg{Err: errors.New("disk gone")})
	got := m.(App)
	if len(got.trips) != 1 || got.result == nil {
		t.Fatalf("trips dropped after failed reload: %d trips", len(got.trips))
	}
	if got.loadErr == nil {
		t.Error("loadErr not recorded")
	}
	if !strings.Contains(got.View(), "showing last data") {
		t.Error("header does not warn about stale data")
	}
}

func TestMergeInsightsKeepsPriorPanel(t *testing.T) {
	st := &insightState{}
	first := &travelapi.Insight{
		Category: travelapi.CategorySafety,
		Safety:   &travelapi.SafetyInsight{Score: 80, Status: "Safe"},
	}
	mergeInsights(st, &travelapi.InsightSet{
		Insights:  map[travelapi.Category]*travelapi.Insight{travelapi.CategorySafety: first},
		FetchedAt: time.Now(),
	})

	mergeInsights(st, &travelapi.InsightSet{
		Errors:    map[travelapi.Category]error{travelapi.CategorySafety: travelapi.ErrInsightUnavailable},
		FetchedAt: time.Now(),
	})

	if st.panels[travelapi.CategorySafety] != first {
		t.Fatal("failed refresh replaced the earlier safety panel")
	}
	if !errors.Is(st.errs[travelapi.CategorySafety], travelapi.ErrInsightUnavailable) {
		t.Errorf("errs = %v, want ErrInsightUnavailable", st.errs)
	}

	body := App{}.renderInsightBody(st, travelapi.CategorySafety, 60)
	if !strings.Contains(body, "80/100") || !strings.Contains(body, "refresh failed") {
		t.Errorf("panel body = %q", body)
	}
}

func TestApplyInsightsStoresSafetyScore(t *testing.T) {
	a, st := newTestApp(t, goaTrip("Goa"))
	id := a.trips[0].ID

	a.applyInsights(InsightsMsg{TripID: id, Set: &travelapi.InsightSet{
		Insights: map[travelapi.Category]*travelapi.Insight{
			travelapi.CategorySafety: {Category: travelapi.CategorySafety, Safety: &travelapi.SafetyInsight{Score: 72}},
		},
	}})

	trip, err := st.Get(id)
	if err != nil {
		t.Fatal(err)
	}
	if trip.SafetyScore != 7.2 || a.trips[0].SafetyScore != 7.2 {
		t.Errorf("SafetyScore = %v (store) / %v (app), want 7.2", trip.SafetyScore, a.trips[0].SafetyScore)
	}
	if a.insights[id].fetching {
		t.Error("fetching flag left set")
	}
}

func TestTripsDeleteNeedsConfirmation(t *testing.T) {
	a, st := newTestApp(t, goaTrip("Goa"), goaTrip("Kyoto"))
	a.activeTab = tabTrips

	press := func(key string) {
		t.Helper()
		m, _, handled := a.updateTripsKey(key)
		if !handled {
			t.Fatalf("key %q not handled", key)
		}
		a = m.(App)
	}

	press("d")
	press("n")
	if st.Len() != 2 {
		t.Fatalf("trip deleted without confirmation, %d left", st.Len())
	}

	press("d")
	press("y")
	if st.Len() != 1 || len(a.trips) != 1 {
		t.Fatalf("after confirm: store %d, app %d trips", st.Len(), len(a.trips))
	}
	if a.trips[0].Destination != "Kyoto" {
		t.Errorf("remaining trip = %s, want Kyoto", a.trips[0].Destination)
	}
}

func TestTripsEnterSelectsActive(t *testing.T) {
	a, st := newTestApp(t, goaTrip("Goa"), goaTrip("Kyoto"))
	a.activeTab = tabTrips

	m, _, _ := a.updateTripsKey("g")
	a = m.(App)
	m, _, _ = a.updateTripsKey("enter")
	a = m.(App)

	if a.activeID != a.trips[0].ID || st.ActiveID() != a.trips[0].ID {
		t.Errorf("active = %s (app) / %s (store), want %s", a.activeID, st.ActiveID(), a.trips[0].ID)
	}
}

func TestSettingsSaveValidates(t *testing.T) {
	a, _ := newTestApp(t)

	a.settings.cursor = settingsFieldRefreshInterval
	a.settings.input = newSettingsInput()
	a.settings.input.SetValue("3")
	a.settingsSave()
	if a.settings.invalid == "" {
		t.Fatal("interval below 10s accepted")
	}
	if config.Exists() {
		t.Error("rejected value was written to disk")
	}

	a.settings.input.SetValue("45")
	a.settingsSave()
	if a.settings.invalid != "" || a.settings.saveErr != nil {
		t.Fatalf("valid interval rejected: %q %v", a.settings.invalid, a.settings.saveErr)
	}
	if a.refreshInterval != 45*time.Second {
		t.Errorf("refreshInterval = %v", a.refreshInterval)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TUI.RefreshIntervalSec != 45 {
		t.Errorf("saved interval = %d, want 45", cfg.TUI.RefreshIntervalSec)
	}
}

func TestSettingsRejectsNonFiniteRate(t *testing.T) {
	a, _ := newTestApp(t)
	a.settings.cursor = settingsFieldUSDRate
	a.settings.input = newSettingsInput()

	for _, raw := range []string{"NaN", "Inf", "-inf", "0"} {
		a.settings.input.SetValue(raw)
		if a.settingsSave() {
			t.Errorf("%s: asked for re-analysis", raw)
		}
		if a.settings.invalid == "" {
			t.Errorf("%s accepted as a USD rate", raw)
		}
	}
	if a.cfg.General.USDRate != 80 {
		t.Errorf("USDRate = %v, want unchanged 80", a.cfg.General.USDRate)
	}
}

func TestSetupValuesRoundTrip(t *testing.T) {
	a, _ := newTestApp(t)
	a.setupVals = setupValuesFrom(a.cfg)
	if a.setupVals.currency != "INR" || a.setupVals.pace != config.DefaultPace {
		t.Fatalf("setupValuesFrom = %+v", a.setupVals)
	}

	a.setupVals.currency = "EUR"
	a.setupVals.apiURL = "http://planner.test:9000"
	if err := a.saveSetupConfig(); err != nil {
		t.Fatal(err)
	}
	if a.cfg.General.DefaultCurrency != "€" || a.cfg.General.APIURL != "http://planner.test:9000" {
		t.Errorf("cfg = %+v", a.cfg.General)
	}
	if validateAPIURL("not a url") == nil {
		t.Error("validateAPIURL accepted a bare word")
	}
}
