// Package theme holds the dashboard color themes and the budget-specific
// color roles derived from them.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme is a resolved set of colors. The base roles come from a palette;
// the budget roles (health, categories, limit line) are derived from them.
type Theme struct {
	Name string

	Background    lipgloss.Color
	Surface       lipgloss.Color // card and panel fill
	SurfaceBright lipgloss.Color // selected row
	Border        lipgloss.Color
	BorderAccent  lipgloss.Color // focused card

	TextDim     lipgloss.Color
	TextMuted   lipgloss.Color
	TextPrimary lipgloss.Color

	Accent       lipgloss.Color
	AccentBright lipgloss.Color
	AccentDim    lipgloss.Color

	Green       lipgloss.Color
	GreenBright lipgloss.Color
	Orange      lipgloss.Color
	Red         lipgloss.Color
	Blue        lipgloss.Color
	Yellow      lipgloss.Color
	Magenta     lipgloss.Color
	Cyan        lipgloss.Color

	// Budget roles.
	Healthy    lipgloss.Color
	Warning    lipgloss.Color
	Critical   lipgloss.Color
	LimitLine  lipgloss.Color    // per-day budget marker on the spend chart
	Categories [5]lipgloss.Color // food, activities, hotels, transit, other
}

// palette is the raw color table a theme is built from. Order:
// background, surface, surface bright, border, text dim, text muted,
// text primary, accent, accent bright, accent dim, green, green bright,
// orange, red, blue, yellow, magenta, cyan.
type palette [18]string

func build(name string, p palette) Theme {
	c := func(i int) lipgloss.Color { return lipgloss.Color(p[i]) }
	t := Theme{
		Name:          name,
		Background:    c(0),
		Surface:       c(1),
		SurfaceBright: c(2),
		Border:        c(3),
		BorderAccent:  c(7),
		TextDim:       c(4),
		TextMuted:     c(5),
		TextPrimary:   c(6),
		Accent:        c(7),
		AccentBright:  c(8),
		AccentDim:     c(9),
		Green:         c(10),
		GreenBright:   c(11),
		Orange:        c(12),
		Red:           c(13),
		Blue:          c(14),
		Yellow:        c(15),
		Magenta:       c(16),
		Cyan:          c(17),
	}
	t.Healthy = t.Green
	t.Warning = t.Orange
	t.Critical = t.Red
	t.LimitLine = t.Yellow
	t.Categories = [5]lipgloss.Color{t.Blue, t.Orange, t.Cyan, t.Magenta, t.TextMuted}
	return t
}

// FlexokiDark is the default: warm, paper-like dark colors.
var FlexokiDark = build("flexoki-dark", palette{
	"#100F0F", "#1C1B1A", "#343331", "#403E3C",
	"#575653", "#878580", "#FFFCF0",
	"#3AA99F", "#5BC8BE", "#1A3533",
	"#879A39", "#A3B859", "#DA702C", "#D14D41", "#4385BE", "#D0A215", "#CE5D97", "#24837B",
})

// CatppuccinMocha is a soft pastel theme.
var CatppuccinMocha = build("catppuccin-mocha", palette{
	"#1E1E2E", "#313244", "#585B70", "#585B70",
	"#6C7086", "#A6ADC8", "#CDD6F4",
	"#89B4FA", "#B4D0FB", "#293147",
	"#A6E3A1", "#C6F6C1", "#FAB387", "#F38BA8", "#89B4FA", "#F9E2AF", "#F5C2E7", "#94E2D5",
})

// TokyoNight is a cool blue and purple theme.
var TokyoNight = build("tokyo-night", palette{
	"#1A1B26", "#24283B", "#414868", "#565F89",
	"#565F89", "#A9B1D6", "#C0CAF5",
	"#7AA2F7", "#A9C1FF", "#252B3F",
	"#9ECE6A", "#B9E87A", "#FF9E64", "#F7768E", "#7AA2F7", "#E0AF68", "#BB9AF7", "#7DCFFF",
})

// Terminal sticks to the 16 ANSI colors for plain terminals.
var Terminal = build("terminal", palette{
	"0", "0", "8", "8",
	"8", "7", "15",
	"6", "14", "0",
	"2", "10", "3", "1", "4", "3", "5", "6",
})

// All lists the themes in the order settings and setup offer them.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Active is the theme every renderer reads.
var Active = FlexokiDark

// ByName looks a theme up, falling back to FlexokiDark.
func ByName(name string) Theme {
	if t, ok := lookup(name); ok {
		return t
	}
	return FlexokiDark
}

// SetActive switches the active theme. Unknown names select FlexokiDark.
func SetActive(name string) {
	Active = ByName(name)
}

// Names returns every theme name in display order.
func Names() []string {
	names := make([]string, len(All))
	for i, t := range All {
		names[i] = t.Name
	}
	return names
}

// Valid reports whether name is a known theme.
func Valid(name string) bool {
	_, ok := lookup(name)
	return ok
}

func lookup(name string) (Theme, bool) {
	for _, t := range All {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// HealthColor maps a budget health level ("ok", "warning", "critical")
// to its color.
func (t Theme) HealthColor(level string) lipgloss.Color {
	switch level {
	case "critical":
		return t.Critical
	case "warning":
		return t.Warning
	default:
		return t.Healthy
	}
}

// CategoryPalette returns the allocation bar colors in category order.
func (t Theme) CategoryPalette() []lipgloss.Color {
	return t.Categories[:]
}
