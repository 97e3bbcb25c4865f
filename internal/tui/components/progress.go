package components

import (
	"fmt"
	"strings"

	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

func clampPct(pct float64) float64 {
	return min(max(pct, 0), 1)
}

// ProgressBar renders a block bar followed by its percentage.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clampPct(pct)
	filled := int(pct * float64(width))

	color := ColorForPaid(pct)
	filledStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)

	var b strings.Builder
	b.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	b.WriteString(emptyStyle.Render(strings.Repeat("░", width-filled)))
	b.WriteString(emptyStyle.Render(" "))
	b.WriteString(pctStyle.Render(fmt.Sprintf("%.0f%%", pct*100)))
	return b.String()
}

// ColorForPaid moves from red to green as a balance is paid down.
func ColorForPaid(pct float64) lipgloss.Color {
	t := theme.Active
	switch {
	case pct >= 1:
		return t.Paid
	case pct >= 0.66:
		return t.Good
	case pct >= 0.33:
		return t.Caution
	case pct > 0:
		return t.Interest
	default:
		return t.Owed
	}
}

// DebtBar renders one debt's paid-down fraction as a labeled bar with a
// trailing note such as its payoff date.
func DebtBar(label string, pct float64, note string, labelW, barWidth int) string {
	t := theme.Active
	pct = clampPct(pct)
	color := ColorForPaid(pct)

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)
	noteStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	if lipgloss.Width(label) > labelW {
		label = string([]rune(label)[:max(labelW-1, 0)]) + "…"
	}
	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) +
		space.Render(" ") +
		bar.ViewAs(pct) +
		space.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", pct*100)) +
		space.Render("  ") +
		noteStyle.Render(note)
}
