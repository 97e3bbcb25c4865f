package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

var blocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders values as one row of block characters scaled to the
// series peak.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}
	peak := values[0]
	for _, v := range values[1:] {
		if v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		peak = 1
	}

	var buf strings.Builder
	buf.Grow(len(values) * 3)
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-1))
		idx = min(max(idx, 0), len(blocks)-1)
		buf.WriteRune(blocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// Resample reduces or stretches values to exactly n points by nearest index.
// The first and last points are always kept.
func Resample(values []float64, n int) []float64 {
	if n <= 0 || len(values) == 0 {
		return nil
	}
	if n == 1 {
		return []float64{values[0]}
	}
	out := make([]float64, n)
	last := len(values) - 1
	for i := range out {
		out[i] = values[int(math.Round(float64(i*last)/float64(n-1)))]
	}
	return out
}

// BalanceChart draws a declining balance as filled columns resampled to the
// available width, with a dollar axis on the left. startLabel and endLabel are
// written under the first and last columns.
func BalanceChart(series []float64, startLabel, endLabel string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	if width < 20 || height < 3 {
		return Sparkline(series, theme.Active.Accent)
	}
	t := theme.Active

	peak := 0.0
	for _, v := range series {
		peak = math.Max(peak, v)
	}
	step := chartTickStep(peak)
	ceiling := math.Max(math.Ceil(peak/step)*step, step)

	yLabelW := max(len(formatChartLabel(ceiling))+1, 5)
	chartW := width - yLabelW - 1
	cols := Resample(series, chartW)

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := ceiling * float64(row) / float64(height)
		bottom := ceiling * float64(row-1) / float64(height)

		label := ""
		switch row {
		case height:
			label = formatChartLabel(ceiling)
		case (height + 1) / 2:
			label = formatChartLabel(ceiling * float64(row) / float64(height))
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		// Columns near the start are still mostly owed; shade them warmer.
		var line strings.Builder
		for i, v := range cols {
			color := t.Accent
			if float64(i) < float64(len(cols))/3 {
				color = t.Interest
			} else if float64(i) < 2*float64(len(cols))/3 {
				color = t.Caution
			}
			cell := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
			switch {
			case v >= top:
				line.WriteString(cell.Render("█"))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * float64(len(blocks)))
				idx = min(max(idx, 0), len(blocks)-1)
				line.WriteString(cell.Render(string(blocks[idx])))
			default:
				line.WriteString(blank.Render(" "))
			}
		}
		b.WriteString(line.String())
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└%s", yLabelW, "$0", strings.Repeat("─", len(cols)))))
	b.WriteString("\n")

	gap := len(cols) - len(startLabel) - len(endLabel)
	footer := strings.Repeat(" ", yLabelW+1) + startLabel
	if gap > 0 {
		footer += strings.Repeat(" ", gap) + endLabel
	}
	b.WriteString(axis.Render(footer))
	return b.String()
}

// chartTickStep picks a round interval giving about four ticks.
func chartTickStep(maxVal float64) float64 {
	if maxVal <= 0 {
		return 1
	}
	rough := maxVal / 4
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

func formatChartLabel(v float64) string {
	switch {
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		if v == math.Trunc(v/1e3)*1e3 {
			return fmt.Sprintf("$%.0fk", v/1e3)
		}
		return fmt.Sprintf("$%.1fk", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}
