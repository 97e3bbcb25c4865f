package components

import (
	"strings"

	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// StatusInfo is what the status bar reports about the current plan.
type StatusInfo struct {
	Strategy  string
	Extra     string
	User      string
	Computing bool
	Cached    bool
	Elapsed   string
}

// RenderStatusBar renders the bottom status bar: key hints and the active
// strategy on the left, data provenance on the right.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	bg := lipgloss.NewStyle().Background(t.Surface)
	hint := bg.Foreground(t.TextDim)
	label := bg.Foreground(t.TextMuted)
	value := bg.Foreground(t.Accent).Bold(true)

	left := hint.Render(" [?]help [t]strategy [+/-]extra [q]uit  ") +
		label.Render("strategy ") + value.Render(info.Strategy) +
		label.Render("  extra ") + value.Render(info.Extra)

	var right string
	switch {
	case info.Computing:
		right = bg.Foreground(t.Caution).Render("computing… ")
	case info.Cached:
		right = label.Render(info.User+" · cached ") + hint.Render(info.Elapsed+" ")
	default:
		right = label.Render(info.User+" · ") + hint.Render(info.Elapsed+" ")
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return lipgloss.NewStyle().Background(t.Surface).Width(width).MaxWidth(width).
		Render(left + bg.Render(strings.Repeat(" ", gap)) + right)
}
