package components

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/theirongolddev/tripmeter/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// eighths[i] fills i/8 of a cell from the bottom.
var eighths = []rune(" ▁▂▃▄▅▆▇█")

// Sparkline renders values as a single row of block characters scaled to
// the largest value.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}

	out := make([]rune, len(values))
	top := len(sparkBlocks) - 1
	for i, v := range values {
		idx := 0
		if peak > 0 && v > 0 {
			idx = min(top, int(v/peak*float64(top)))
		}
		out[i] = sparkBlocks[idx]
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(string(out))
}

// SpendChart is a per-day spend bar chart with a currency axis.
type SpendChart struct {
	Values   []float64
	Labels   []string // one per value, e.g. "D1"
	Currency string
	// Limit is the per-day budget (total / duration). Days above it are
	// drawn in the critical color and a dashed line marks its height.
	// Zero hides the line.
	Limit float64
	Color lipgloss.Color
}

// Render draws the chart into width columns and height bar rows plus the
// x-axis. Areas too small for bars fall back to a sparkline.
func (c SpendChart) Render(width, height int) string {
	if len(c.Values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(c.Values, c.Color)
	}
	t := theme.Active

	values, labels := c.Values, c.Labels
	if len(labels) != len(values) {
		labels = nil
	}

	top := c.Limit
	for _, v := range values {
		top = math.Max(top, v)
	}
	step, ceiling := spendAxis(top, height)

	axisW := lipgloss.Width(axisLabel(ceiling, c.Currency)) + 1
	plotW := max(5, width-axisW-1)

	barW, gap := 2, 1
	if n := len(values); n == 1 {
		barW, gap = min(plotW, 6), 0
	} else if fit := (plotW - (n - 1)) / n; fit >= 1 {
		barW = min(fit, 6)
	} else {
		values, labels = bucketPeaks(values, labels, (plotW+1)/2)
		barW = 1
	}
	n := len(values)
	axisLen := n*barW + (n-1)*gap

	fill := lipgloss.NewStyle().Background(t.Surface)
	axisStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(c.Color).Background(t.Surface)
	overStyle := lipgloss.NewStyle().Foreground(t.Critical).Background(t.Surface)
	limitStyle := lipgloss.NewStyle().Foreground(t.LimitLine).Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		hi := ceiling * float64(row) / float64(height)
		lo := ceiling * float64(row-1) / float64(height)
		limitRow := c.Limit > 0 && c.Limit > lo && c.Limit <= hi

		label := ""
		if tick := math.Floor(hi/step+1e-9) * step; tick > lo && tick > 0 {
			label = axisLabel(tick, c.Currency)
		}
		b.WriteString(axisStyle.Render(padLeft(label, axisW) + "│"))

		blank := fill
		blankCell := " "
		if limitRow {
			blank, blankCell = limitStyle, "┄"
		}
		for i, v := range values {
			if i > 0 && gap > 0 {
				b.WriteString(blank.Render(strings.Repeat(blankCell, gap)))
			}
			style := barStyle
			if c.Limit > 0 && v > c.Limit {
				style = overStyle
			}
			switch {
			case v >= hi:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > lo:
				idx := max(1, min(8, int((v-lo)/(hi-lo)*8)))
				b.WriteString(style.Render(strings.Repeat(string(eighths[idx]), barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(blankCell, barW)))
			}
		}
		if limitRow && width-axisW-1-axisLen >= 7 {
			b.WriteString(limitStyle.Render(" /day"))
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(padLeft(axisLabel(0, c.Currency), axisW) + "└" + strings.Repeat("─", axisLen)))
	if labels != nil {
		b.WriteString("\n")
		b.WriteString(fill.Render(strings.Repeat(" ", axisW+1)))
		b.WriteString(axisStyle.Render(dayLabels(labels, barW, gap, axisLen)))
	}
	return b.String()
}

// spendAxis picks a tick step and the rounded axis ceiling for a peak,
// keeping at most one labelled tick every two rows.
func spendAxis(peak float64, rows int) (step, ceiling float64) {
	if peak <= 0 {
		peak = 1
	}
	step = chartTickStep(peak)
	maxTicks := max(2, rows/2)
	for math.Ceil(peak/step) > float64(maxTicks) {
		step *= 2
	}
	return step, math.Ceil(peak/step) * step
}

// bucketPeaks shrinks values to at most n bars, keeping the most expensive
// day of each bucket so overspending stays visible.
func bucketPeaks(values []float64, labels []string, n int) ([]float64, []string) {
	n = max(2, n)
	if len(values) <= n {
		return values, labels
	}
	outV := make([]float64, n)
	var outL []string
	if labels != nil {
		outL = make([]string, n)
	}
	for i := range outV {
		from := i * len(values) / n
		to := (i + 1) * len(values) / n
		for _, v := range values[from:to] {
			outV[i] = math.Max(outV[i], v)
		}
		if outL != nil {
			outL[i] = labels[from]
		}
	}
	return outV, outL
}

// dayLabels lays out x-axis labels under their bars, skipping any that
// would collide with the previous one. The last bar is always labelled
// when it fits.
func dayLabels(labels []string, barW, gap, axisLen int) string {
	line := []rune(strings.Repeat(" ", axisLen))
	put := func(pos int, lbl string) int {
		r := []rune(lbl)
		if pos+len(r) > axisLen {
			pos = axisLen - len(r)
		}
		if pos < 0 {
			return -1
		}
		copy(line[pos:], r)
		return pos + len(r)
	}

	lastEnd := -2
	for i, lbl := range labels {
		pos := i * (barW + gap)
		if pos <= lastEnd || pos+len([]rune(lbl)) > axisLen {
			continue
		}
		lastEnd = put(pos, lbl)
	}
	if n := len(labels); n > 1 {
		lbl := labels[n-1]
		pos := min((n-1)*(barW+gap), axisLen-len([]rune(lbl)))
		if pos > lastEnd {
			put(pos, lbl)
		}
	}
	return strings.TrimRight(string(line), " ")
}

// chartTickStep returns a 1, 2 or 5 times power-of-ten step giving
// roughly five ticks up to maxVal.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 5
	base := math.Pow(10, math.Floor(math.Log10(rough)))
	switch frac := rough / base; {
	case frac < 1.5:
		return base
	case frac < 3.5:
		return 2 * base
	default:
		return 5 * base
	}
}

// formatChartLabel shortens an axis value: 2000 -> "2k", 2500 -> "2.5k".
func formatChartLabel(v float64) string {
	for _, u := range []struct {
		div    float64
		suffix string
	}{{1e9, "B"}, {1e6, "M"}, {1e3, "k"}} {
		if v >= u.div {
			prec := 1
			if math.Mod(v, u.div) == 0 {
				prec = 0
			}
			return strconv.FormatFloat(v/u.div, 'f', prec, 64) + u.suffix
		}
	}
	if v >= 1 || v == 0 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func axisLabel(v float64, currency string) string {
	if v == 0 {
		return "0"
	}
	return currency + formatChartLabel(v)
}

func padLeft(s string, w int) string {
	if pad := w - lipgloss.Width(s); pad > 0 {
		return strings.Repeat(" ", pad) + s
	}
	return s
}

// HBar renders one labeled horizontal bar scaled against maxVal, followed by
// a right-hand value string. Used for category allocation rows.
func HBar(label string, value, maxVal float64, valueStr string, labelW, barW int, color lipgloss.Color) string {
	t := theme.Active
	if barW < 1 {
		barW = 1
	}

	filled := 0
	if maxVal > 0 && value > 0 {
		filled = int(math.Round(value / maxVal * float64(barW)))
		if filled < 1 {
			filled = 1
		}
		if filled > barW {
			filled = barW
		}
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	barStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + space +
		barStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("·", barW-filled)) + space +
		valueStyle.Render(valueStr)
}
