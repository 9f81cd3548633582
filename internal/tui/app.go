// Package tui provides the interactive Bubble Tea dashboard for tripmeter.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tripmeter/internal/auth"
	"github.com/theirongolddev/tripmeter/internal/cli"
	"github.com/theirongolddev/tripmeter/internal/config"
	"github.com/theirongolddev/tripmeter/internal/model"
	"github.com/theirongolddev/tripmeter/internal/pipeline"
	"github.com/theirongolddev/tripmeter/internal/store"
	"github.com/theirongolddev/tripmeter/internal/travelapi"
	"github.com/theirongolddev/tripmeter/internal/tui/components"
	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// TripsLoadedMsg is sent when trips have been read and analyzed.
type TripsLoadedMsg struct {
	Store    *store.Store
	Trips    []model.Trip
	ActiveID string
	Result   *pipeline.LoadResult
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports analysis progress.
type ProgressMsg struct {
	Current int
	Total   int
}

// InsightsMsg is sent when an insight fetch for a trip completes.
type InsightsMsg struct {
	TripID string
	Set    *travelapi.InsightSet
}

// Options wires the dashboard to its data sources.
type Options struct {
	// Cache is re-read on every reload. When nil, Store is used as-is.
	Cache     *store.Cache
	Store     *store.Store
	Config    config.Config
	NeedSetup bool
}

// insightState holds the latest successful panel per category for one trip.
// Failed fetches record an error but never drop earlier data.
type insightState struct {
	panels    map[travelapi.Category]*travelapi.Insight
	errs      map[travelapi.Category]error
	fetchedAt time.Time
	fetching  bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	cache    *store.Cache
	store    *store.Store
	trips    []model.Trip
	activeID string
	result   *pipeline.LoadResult
	loaded   bool
	loadTime time.Duration
	loadErr  error

	insights map[string]*insightState

	// API access, rebuilt when settings change
	cfg     config.Config
	client  *travelapi.Client
	session *auth.Session

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	tripsState tripsState
	settings   settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	minContentHeight = 5
)

// Tab indexes, matching components.Tabs.
const (
	tabOverview = iota
	tabBreakdown
	tabInsights
	tabTrips
	tabSettings
)

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	st := opts.Store
	if st == nil {
		st = store.New()
	}

	a := App{
		cache:           opts.Cache,
		store:           st,
		cfg:             opts.Config,
		insights:        make(map[string]*insightState),
		needSetup:       opts.NeedSetup,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: config.RefreshInterval(opts.Config),
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
	a.rebuildClient()
	return a
}

// rebuildClient recreates the API client and session from the current config.
func (a *App) rebuildClient() {
	token := config.GetToken(a.cfg)
	a.client = travelapi.NewClient(config.GetAPIURL(a.cfg), token, config.RequestTimeout(a.cfg))
	a.session = nil
	if sess, err := auth.NewSession(token); err == nil {
		a.session = sess
	}
}

func (a App) analysisOptions() pipeline.Options {
	return pipeline.Options{
		HighImpactLimit: a.cfg.Budget.HighImpactLimit,
		USDRate:         config.USDRate(a.cfg),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadTripsCmd(a.cache, a.store, a.analysisOptions(), a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.setupForm != nil {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabTrips {
				a.tripsMove(-1)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabTrips {
				a.tripsMove(1)
			}
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					return a.switchTab(tab)
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case TripsLoadedMsg:
		return a.applyTrips(msg)

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case InsightsMsg:
		a.applyInsights(msg)
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && time.Since(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshTripsCmd(a.cache, a.store, a.analysisOptions()))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabTrips:
		if m, cmd, handled := a.updateTripsKey(key); handled {
			return m, cmd
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	case tabInsights:
		if key == "f" {
			return a, a.fetchActiveInsights(true)
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		return a.reload()
	case "R":
		a.autoRefresh = !a.autoRefresh
		a.cfg.TUI.AutoRefresh = a.autoRefresh
		_ = config.Save(a.cfg)
		return a, nil
	case "left":
		return a.switchTab((a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs))
	case "right":
		return a.switchTab((a.activeTab + 1) % len(components.Tabs))
	}

	if len(msg.Runes) == 1 {
		if tab := components.TabIdxByKey(msg.Runes[0]); tab >= 0 {
			return a.switchTab(tab)
		}
	}
	return a, nil
}

// switchTab activates a tab. Opening Insights starts a fetch for the active
// trip when nothing has been loaded for it yet.
func (a App) switchTab(tab int) (tea.Model, tea.Cmd) {
	a.activeTab = tab
	if tab == tabInsights {
		return a, a.fetchActiveInsights(false)
	}
	return a, nil
}

// reload re-reads trips in the background and refetches insights when the
// Insights tab is showing. It also recovers from a failed render.
func (a App) reload() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if !a.refreshing {
		a.refreshing = true
		cmds = append(cmds, refreshTripsCmd(a.cache, a.store, a.analysisOptions()))
	}
	if a.activeTab == tabInsights {
		cmds = append(cmds, a.fetchActiveInsights(true))
	}
	return a, tea.Batch(cmds...)
}

func (a App) applyTrips(msg TripsLoadedMsg) (tea.Model, tea.Cmd) {
	first := !a.loaded
	a.loaded = true
	a.refreshing = false
	a.lastRefresh = time.Now()

	if msg.Err != nil {
		// Keep whatever was loaded before.
		a.loadErr = msg.Err
	} else {
		a.loadErr = nil
		if msg.Store != nil {
			a.store = msg.Store
		}
		a.trips = msg.Trips
		a.activeID = msg.ActiveID
		a.result = msg.Result
		a.loadTime = msg.LoadTime
		a.clampTripsCursor()
	}

	if first && a.needSetup {
		a.setupVals = setupValuesFrom(a.cfg)
		a.setupForm = newSetupForm(len(a.trips), &a.setupVals)
		if a.width > 0 {
			a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
		}
		return a, a.setupForm.Init()
	}
	return a, nil
}

func (a *App) applyInsights(msg InsightsMsg) {
	st := a.insights[msg.TripID]
	if st == nil {
		st = &insightState{}
		a.insights[msg.TripID] = st
	}
	st.fetching = false
	if msg.Set == nil {
		return
	}
	mergeInsights(st, msg.Set)

	// A fresh safety score becomes the trip's 0-10 score.
	if in := msg.Set.Insights[travelapi.CategorySafety]; in != nil && in.Safety != nil {
		score := in.Safety.Score.Float() / 10
		if t, err := a.store.Update(msg.TripID, func(t *model.Trip) { t.SafetyScore = score }); err == nil {
			for i := range a.trips {
				if a.trips[i].ID == t.ID {
					a.trips[i] = t
				}
			}
		}
	}
}

// mergeInsights folds a fetch result into the state. Successful panels
// replace older ones; failed categories keep their previous panel.
func mergeInsights(st *insightState, set *travelapi.InsightSet) {
	if st.panels == nil {
		st.panels = make(map[travelapi.Category]*travelapi.Insight)
	}
	st.errs = make(map[travelapi.Category]error)
	for cat, in := range set.Insights {
		st.panels[cat] = in
	}
	for cat, err := range set.Errors {
		st.errs[cat] = err
	}
	st.fetchedAt = set.FetchedAt
}

// fetchActiveInsights starts an insight fetch for the active trip. Unless
// force is set, trips that already have data are left alone.
func (a *App) fetchActiveInsights(force bool) tea.Cmd {
	trip, ok := a.activeTrip()
	if !ok || a.client == nil {
		return nil
	}
	st := a.insights[trip.ID]
	if st == nil {
		st = &insightState{}
		a.insights[trip.ID] = st
	}
	if st.fetching || (!force && st.panels != nil) {
		return nil
	}
	st.fetching = true
	return fetchInsightsCmd(a.client, trip, config.RequestTimeout(a.cfg))
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.settings.saveErr = a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		return a.reload()
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// activeIndex returns the position of the active trip, or -1.
func (a App) activeIndex() int {
	for i := range a.trips {
		if a.trips[i].ID == a.activeID {
			return i
		}
	}
	return -1
}

func (a App) activeTrip() (model.Trip, bool) {
	if i := a.activeIndex(); i >= 0 {
		return a.trips[i], true
	}
	return model.Trip{}, false
}

// breakdownAt returns the breakdown for trip position i.
func (a App) breakdownAt(i int) (model.BudgetBreakdown, bool) {
	if a.result == nil || i < 0 || i >= len(a.result.Breakdowns) {
		return model.BudgetBreakdown{}, false
	}
	return a.result.Breakdowns[i], true
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model. A panic while rendering replaces the screen
// with a recovery message; pressing r reloads the data.
func (a App) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = a.viewRecovered(r)
		}
	}()

	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewRecovered(r any) string {
	var b strings.Builder
	b.WriteString("\n  Something went wrong while drawing the dashboard.\n\n")
	fmt.Fprintf(&b, "  %v\n\n", r)
	b.WriteString("  Press r to reload, q to quit.\n")
	h := a.height
	if h < 6 {
		h = 6
	}
	return padHeight(truncateHeight(b.String(), h), h)
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}

	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tripmeter needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)

	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active
	w := a.width
	h := a.height

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spinnerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ tripmeter"))
	b.WriteString(subtitleStyle.Render(" · Trip Budget Dashboard"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := 40
		if barW > w-30 {
			barW = w - 30
		}
		if barW < 20 {
			barW = 20
		}
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Analyzing trips\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(spinnerStyle.Render(a.spinner.View()))
		b.WriteString(subtitleStyle.Render(" Loading trips..."))
	}

	card := cardStyle.Render(b.String())

	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	sections := []struct {
		title    string
		bindings []struct{ key, desc string }
	}{
		{"Navigation", []struct{ key, desc string }{
			{"o b i t x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Navigate lists"},
		}},
		{"Actions", []struct{ key, desc string }{
			{"Enter", "Select trip / Edit setting"},
			{"d", "Delete trip (Trips tab)"},
			{"f", "Fetch insights (Insights tab)"},
			{"r", "Reload data"},
			{"R", "Toggle auto-refresh"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}
	for i, sec := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

// tabRenderers draws each tab's content, indexed like components.Tabs.
var tabRenderers = []func(App, int, int) string{
	App.renderOverviewTab,
	App.renderBreakdownTab,
	App.renderInsightsTab,
	App.renderTripsTab,
	App.renderSettingsTab,
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + active trip pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pillAccent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	pill := pillStyle.Render(" ")
	if trip, ok := a.activeTrip(); ok {
		pill += pillAccent.Render(trip.Destination) +
			pillStyle.Render(" │ "+cli.FormatDays(trip.DurationDays)+" │ "+cli.FormatAmount(trip.EffectiveTotal(), trip.Currency()))
	} else {
		pill += pillStyle.Render("no active trip")
	}
	if a.loadErr != nil {
		warn := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		pill += pillStyle.Render(" │ ") + warn.Render("unable to load trips, showing last data")
	}
	pillRow := lipgloss.NewStyle().Background(t.Surface).Width(w)

	header := components.RenderTabBar(a.activeTab, w) + "\n" + pillRow.Render(pill)

	// 2. Status bar
	status := components.Status{
		DataAge:     formatAge(time.Since(a.lastRefresh)),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
		ActiveSpend: -1,
	}
	if a.session != nil {
		status.User = a.session.DisplayName()
		if !a.session.ExpiresAt.IsZero() {
			status.SessionLeft = time.Until(a.session.ExpiresAt)
		}
	}
	if bd, ok := a.breakdownAt(a.activeIndex()); ok {
		status.ActiveSpend = bd.Metrics.SpentPercentage / 100
	}
	statusBar := components.RenderStatusBar(w, status)

	// 3. Content zone height
	contentH := h - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	// 4. Tab content
	content := tabRenderers[a.activeTab](a, cw, contentH)

	// 5. Truncate + pad to exactly contentH lines
	content = padHeight(truncateHeight(content, contentH), contentH)

	// 6. Fill each line to full width with background
	content = fillLinesWithBackground(content, cw, t.Background)

	// 7. Center when the terminal is wider than the content
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Commands ───────────────────────────────────────────────────

type tickMsg struct{}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// readTrips returns the store to render: a fresh read of the cache when one
// is configured, otherwise the in-memory store.
func readTrips(cache *store.Cache, fallback *store.Store) (*store.Store, error) {
	if cache == nil {
		return fallback, nil
	}
	return store.Open(cache)
}

// loadTripsCmd analyzes trips in a background goroutine, streaming
// ProgressMsg updates and a final TripsLoadedMsg through sub.
func loadTripsCmd(cache *store.Cache, fallback *store.Store, opts pipeline.Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			st, err := readTrips(cache, fallback)
			if err != nil {
				sub <- TripsLoadedMsg{Err: err, LoadTime: time.Since(start)}
				return
			}
			trips := st.Trips()
			sub <- TripsLoadedMsg{
				Store:    st,
				Trips:    trips,
				ActiveID: st.ActiveID(),
				Result:   pipeline.AnalyzeAll(trips, opts, progressFn),
				LoadTime: time.Since(start),
			}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshTripsCmd reloads trips without the progress UI.
func refreshTripsCmd(cache *store.Cache, fallback *store.Store, opts pipeline.Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		st, err := readTrips(cache, fallback)
		if err != nil {
			return TripsLoadedMsg{Err: err, LoadTime: time.Since(start)}
		}
		trips := st.Trips()
		return TripsLoadedMsg{
			Store:    st,
			Trips:    trips,
			ActiveID: st.ActiveID(),
			Result:   pipeline.AnalyzeAll(trips, opts, nil),
			LoadTime: time.Since(start),
		}
	}
}

// fetchInsightsCmd fetches every insight panel for a trip.
func fetchInsightsCmd(client *travelapi.Client, trip model.Trip, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout*3)
		defer cancel()
		return InsightsMsg{TripID: trip.ID, Set: client.FetchAll(ctx, trip)}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		placed := lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg))
		result.WriteString(placed)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes are derived from the same width rules used by RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}
