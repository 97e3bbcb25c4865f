package components

import (
	"strings"

	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// Tab is a single entry in the tab bar. Key is also the first letter of Name.
type Tab struct {
	Name string
	Key  rune
}

// Tabs lists the viewer's tabs in display order.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o'},
	{Name: "Schedule", Key: 's'},
	{Name: "Debts", Key: 'd'},
	{Name: "Compare", Key: 'c'},
}

const tabPadding = 1

// TabVisualWidth is the rendered width of tab, padding included. Mouse
// hit-testing relies on this matching RenderTabBar.
func TabVisualWidth(tab Tab, _ bool) int {
	return lipgloss.Width(tab.Name) + 2*tabPadding
}

// RenderTabBar renders one row of tabs separated by a single column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	base := lipgloss.NewStyle().Padding(0, tabPadding).Background(t.Surface)
	activeStyle := base.
		Foreground(t.AccentBright).
		Background(t.SurfaceHover).
		Bold(true)
	inactiveStyle := base.Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	sep := lipgloss.NewStyle().Background(t.Surface).Render(" ")

	parts := make([]string, 0, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts = append(parts, activeStyle.Render(tab.Name))
			continue
		}
		// Underline the shortcut: it is always the first letter.
		pad := strings.Repeat(" ", tabPadding)
		parts = append(parts,
			inactiveStyle.Padding(0).Render(pad)+
				keyStyle.Render(tab.Name[:1])+
				inactiveStyle.Padding(0).Render(tab.Name[1:]+pad))
	}

	row := strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(t.Surface).Width(width).Render(row)
}

// TabIdxByKey returns the tab index for a key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
