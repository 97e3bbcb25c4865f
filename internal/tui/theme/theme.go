// Package theme defines color themes for the payoff plan viewer.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines the color roles used throughout the TUI. The money roles
// (Paid, Owed, Interest) carry the same meaning on every tab.
type Theme struct {
	Name         string
	Background   lipgloss.Color // Main app background
	Surface      lipgloss.Color // Card/panel backgrounds
	SurfaceHover lipgloss.Color // Selected row, active tab
	Border       lipgloss.Color
	BorderAccent lipgloss.Color // Focused card borders
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels, metadata
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color // Active tab, chart line, current strategy
	AccentBright lipgloss.Color

	Paid     lipgloss.Color // Cleared debts, best strategy
	Good     lipgloss.Color // Progress and savings
	Owed     lipgloss.Color // Outstanding balance, never paid off
	Interest lipgloss.Color // Interest cost
	Caution  lipgloss.Color // Warnings, non-amortizing debts
	Info     lipgloss.Color // Key hints

	// APRScale colors rates from interest-free to 20% and up. See APR.
	APRScale [5]lipgloss.Color
}

// Ledger is the default theme: green-black like a bank statement on a
// terminal, with warm colors kept for money going out.
var Ledger = Theme{
	Name:         "ledger",
	Background:   lipgloss.Color("#0E1411"),
	Surface:      lipgloss.Color("#16201B"),
	SurfaceHover: lipgloss.Color("#223129"),
	Border:       lipgloss.Color("#2F4238"),
	BorderAccent: lipgloss.Color("#4FB286"),
	TextDim:      lipgloss.Color("#52665B"),
	TextMuted:    lipgloss.Color("#8DA297"),
	TextPrimary:  lipgloss.Color("#E8F1EC"),
	Accent:       lipgloss.Color("#4FB286"),
	AccentBright: lipgloss.Color("#7DDCAF"),
	Paid:         lipgloss.Color("#8CE99A"),
	Good:         lipgloss.Color("#5CB270"),
	Owed:         lipgloss.Color("#E5675A"),
	Interest:     lipgloss.Color("#E89B4C"),
	Caution:      lipgloss.Color("#D9C25B"),
	Info:         lipgloss.Color("#6FC2D0"),
	APRScale: [5]lipgloss.Color{
		"#8CE99A", "#6FC2D0", "#D9C25B", "#E89B4C", "#E5675A",
	},
}

// FlexokiDark is a warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Background:   lipgloss.Color("#100F0F"),
	Surface:      lipgloss.Color("#1C1B1A"),
	SurfaceHover: lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	AccentBright: lipgloss.Color("#5BC8BE"),
	Paid:         lipgloss.Color("#A3B859"),
	Good:         lipgloss.Color("#879A39"),
	Owed:         lipgloss.Color("#D14D41"),
	Interest:     lipgloss.Color("#DA702C"),
	Caution:      lipgloss.Color("#D0A215"),
	Info:         lipgloss.Color("#24837B"),
	APRScale: [5]lipgloss.Color{
		"#879A39", "#24837B", "#D0A215", "#DA702C", "#D14D41",
	},
}

// Paper is a light theme for bright terminals and printed screenshots.
var Paper = Theme{
	Name:         "paper",
	Background:   lipgloss.Color("#FAF8F2"),
	Surface:      lipgloss.Color("#F0ECE1"),
	SurfaceHover: lipgloss.Color("#E2DCCB"),
	Border:       lipgloss.Color("#C9C1AC"),
	BorderAccent: lipgloss.Color("#2F6F8F"),
	TextDim:      lipgloss.Color("#A39B86"),
	TextMuted:    lipgloss.Color("#6E6757"),
	TextPrimary:  lipgloss.Color("#1F1D18"),
	Accent:       lipgloss.Color("#2F6F8F"),
	AccentBright: lipgloss.Color("#1D5571"),
	Paid:         lipgloss.Color("#2E7D32"),
	Good:         lipgloss.Color("#4E8A3E"),
	Owed:         lipgloss.Color("#B3261E"),
	Interest:     lipgloss.Color("#B85C00"),
	Caution:      lipgloss.Color("#8A6D00"),
	Info:         lipgloss.Color("#00796B"),
	APRScale: [5]lipgloss.Color{
		"#2E7D32", "#00796B", "#8A6D00", "#B85C00", "#B3261E",
	},
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Background:   lipgloss.Color("0"),
	Surface:      lipgloss.Color("0"),
	SurfaceHover: lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	AccentBright: lipgloss.Color("14"),
	Paid:         lipgloss.Color("10"),
	Good:         lipgloss.Color("2"),
	Owed:         lipgloss.Color("1"),
	Interest:     lipgloss.Color("3"),
	Caution:      lipgloss.Color("11"),
	Info:         lipgloss.Color("6"),
	APRScale:     [5]lipgloss.Color{"2", "6", "11", "3", "1"},
}

// Default is the theme used when none is configured.
var Default = Ledger

// Active is the currently selected theme.
var Active = Default

// All available themes, in cycling order.
var All = []Theme{Ledger, FlexokiDark, Paper, Terminal}

// ByName returns a theme by its name, falling back to Default.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return Default
}

// Valid reports whether name is one of All.
func Valid(name string) bool {
	for _, t := range All {
		if t.Name == name {
			return true
		}
	}
	return false
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Next returns the theme after name in All, wrapping around.
func Next(name string) Theme {
	for i, t := range All {
		if t.Name == name {
			return All[(i+1)%len(All)]
		}
	}
	return All[0]
}

// APR picks a color from APRScale for an annual rate given as a fraction
// (0.199 = 19.9%).
func (t Theme) APR(apr float64) lipgloss.Color {
	switch {
	case apr <= 0:
		return t.APRScale[0]
	case apr < 0.08:
		return t.APRScale[1]
	case apr < 0.15:
		return t.APRScale[2]
	case apr < 0.20:
		return t.APRScale[3]
	default:
		return t.APRScale[4]
	}
}
