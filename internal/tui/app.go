// Package tui provides the interactive Bubble Tea plan viewer.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/payoffhq/payoff/internal/advisor"
	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/config"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/pipeline"
	"github.com/payoffhq/payoff/internal/tui/components"
	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// PlanLoadedMsg carries the result of a background computation.
type PlanLoadedMsg struct {
	Seq       int
	Result    *pipeline.Result
	Rec       *advisor.Recommendation
	Scenarios []advisor.Scenario
	Elapsed   time.Duration
	Err       error
}

// App is the root Bubble Tea model.
type App struct {
	planner   *pipeline.Planner
	req       engine.Request
	baseExtra decimal.Decimal
	user      string

	// Latest computation
	result    *pipeline.Result
	rec       *advisor.Recommendation
	scenarios []advisor.Scenario
	err       error
	elapsed   time.Duration
	loaded    bool
	computing bool
	seq       int

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	spinner   spinner.Model

	// month is the schedule cursor shared by the Schedule and Debts tabs.
	// Zero is the state before the first payment.
	month     int
	schedTop  int
	persistFn func(themeName string) error
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180

	extraStep        = 25
	computeTimeout   = 30 * time.Second
	scrollOverhead   = 10
	minContentHeight = 5
)

// NewApp creates the viewer for req. Strategy and extra payment can be
// changed interactively; the other inputs are fixed.
func NewApp(planner *pipeline.Planner, req engine.Request, user string) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if req.Strategy == "" {
		req.Strategy = model.Snowball
	}
	return App{
		planner:   planner,
		req:       req,
		baseExtra: req.ExtraMonthly,
		user:      user,
		spinner:   sp,
		computing: true,
		persistFn: saveTheme,
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		computeCmd(a.planner, a.req, a.seq),
		a.spinner.Tick,
	)
}

// computeCmd plans req and ranks every strategy against it in the background.
func computeCmd(planner *pipeline.Planner, req engine.Request, seq int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), computeTimeout)
		defer cancel()

		msg := PlanLoadedMsg{Seq: seq}
		res, err := planner.Plan(ctx, req)
		if err != nil {
			msg.Err = err
			msg.Elapsed = time.Since(start)
			return msg
		}
		msg.Result = res

		// Ranking and what-if rows are best effort; the plan alone is usable.
		req.StartDate = res.Plan.StartDate.Format(engine.DateLayout)
		if rec, err := advisor.CompareAll(planner.Engine, req); err == nil {
			msg.Rec = rec
		}
		if sc, err := advisor.WhatIf(planner.Engine, req, nil); err == nil {
			msg.Scenarios = sc
		}
		msg.Elapsed = time.Since(start)
		return msg
	}
}

func (a App) recompute() (App, tea.Cmd) {
	a.seq++
	a.computing = true
	return a, tea.Batch(computeCmd(a.planner, a.req, a.seq), a.spinner.Tick)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			a.moveMonth(-1)
		case tea.MouseButtonWheelDown:
			a.moveMonth(1)
		case tea.MouseButtonLeft:
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case PlanLoadedMsg:
		if msg.Seq != a.seq {
			return a, nil // superseded by a newer request
		}
		a.computing = false
		a.loaded = true
		a.elapsed = msg.Elapsed
		a.err = msg.Err
		if msg.Err == nil {
			a.result = msg.Result
			a.rec = msg.Rec
			a.scenarios = msg.Scenarios
			a.clampMonth()
		}
		return a, nil

	case spinner.TickMsg:
		if a.computing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
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

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil

	case "t":
		a.req.Strategy = nextStrategy(a.req.Strategy)
		return a.recompute()
	case "+", "=":
		a.req.ExtraMonthly = a.req.ExtraMonthly.Add(decimal.NewFromInt(extraStep))
		return a.recompute()
	case "-", "_":
		if !a.req.ExtraMonthly.IsPositive() {
			return a, nil
		}
		a.req.ExtraMonthly = decimal.Max(decimal.Zero, a.req.ExtraMonthly.Sub(decimal.NewFromInt(extraStep)))
		return a.recompute()
	case "0":
		if a.req.ExtraMonthly.Equal(a.baseExtra) {
			return a, nil
		}
		a.req.ExtraMonthly = a.baseExtra
		return a.recompute()
	case "r":
		if a.computing {
			return a, nil
		}
		return a.recompute()
	case "T":
		next := theme.Next(theme.Active.Name)
		theme.SetActive(next.Name)
		a.spinner.Style = a.spinner.Style.Foreground(next.Accent).Background(next.Surface)
		if a.persistFn != nil {
			_ = a.persistFn(next.Name) // best effort
		}
		return a, nil

	case "j", "down":
		a.moveMonth(1)
		return a, nil
	case "k", "up":
		a.moveMonth(-1)
		return a, nil
	case "g", "home":
		a.moveMonth(-a.month)
		return a, nil
	case "G", "end":
		a.moveMonth(a.monthCount() - a.month)
		return a, nil
	case "ctrl+d", "pgdown":
		a.moveMonth(a.halfPage())
		return a, nil
	case "ctrl+u", "pgup":
		a.moveMonth(-a.halfPage())
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func nextStrategy(s model.Strategy) model.Strategy {
	for i, cand := range model.Strategies {
		if cand == s {
			return model.Strategies[(i+1)%len(model.Strategies)]
		}
	}
	return model.Strategies[0]
}

func saveTheme(name string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	cfg.Appearance.Theme = name
	return config.Save(cfg)
}

func (a App) plan() *model.PaymentPlan {
	if a.result == nil {
		return nil
	}
	return a.result.Plan
}

func (a App) monthCount() int {
	if p := a.plan(); p != nil {
		return len(p.Months)
	}
	return 0
}

func (a *App) moveMonth(delta int) {
	a.month += delta
	a.clampMonth()

	// Keep the cursor inside the visible schedule window.
	rows := a.scheduleRows()
	switch {
	case a.month < a.schedTop:
		a.schedTop = a.month
	case a.month >= a.schedTop+rows:
		a.schedTop = a.month - rows + 1
	}
	if a.schedTop < 0 {
		a.schedTop = 0
	}
}

func (a *App) clampMonth() {
	if n := a.monthCount(); a.month > n {
		a.month = n
	}
	if a.month < 0 {
		a.month = 0
	}
	if a.schedTop > a.month {
		a.schedTop = a.month
	}
}

func (a App) halfPage() int {
	return max((a.height-scrollOverhead)/2, 1)
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  payoff needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ payoff"))
	b.WriteString(subtitleStyle.Render(" · debt payoff planner"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(fmt.Sprintf(" Simulating %d debts...", len(a.req.Debts))))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
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
	keyStyle := lipgloss.NewStyle().Foreground(t.Info).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	sections := []struct {
		title    string
		bindings [][2]string
	}{
		{"Navigation", [][2]string{
			{"o s d c", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move through months"},
			{"g G", "First / Last month"},
			{"^d ^u", "Half-page scroll"},
		}},
		{"Plan", [][2]string{
			{"t", "Cycle strategy"},
			{"+ -", fmt.Sprintf("Extra payment ±$%d", extraStep)},
			{"0", "Reset extra payment"},
			{"r", "Recompute"},
			{"T", "Next color theme"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, s := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(s.title))
		b.WriteString("\n")
		for _, bind := range s.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-8s", bind[0])),
				descStyle.Render(bind[1]))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header and status bar
	header := components.RenderTabBar(a.activeTab, w)
	status := components.StatusInfo{
		Strategy:  a.req.Strategy.Label(),
		Extra:     cli.FormatMoney(a.req.ExtraMonthly),
		User:      a.user,
		Computing: a.computing,
		Elapsed:   fmt.Sprintf("%dms", a.elapsed.Milliseconds()),
	}
	if a.result != nil {
		status.Cached = a.result.Cached
	}
	statusBar := components.RenderStatusBar(w, status)

	// 2. Content zone height
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	// 3. Tab content
	var content string
	switch {
	case a.err != nil:
		content = components.ContentCard("Error", a.err.Error(), cw)
	case a.plan() == nil:
		content = components.ContentCard("", "No plan", cw)
	default:
		switch a.activeTab {
		case 0:
			content = a.renderOverviewTab(cw)
		case 1:
			content = a.renderScheduleTab(cw)
		case 2:
			content = a.renderDebtsTab(cw)
		case 3:
			content = a.renderCompareTab(cw)
		}
	}

	// 4. Exact height, background-filled lines, centered when wider than cw
	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
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

// fillLinesWithBackground pads each line to width w with the background color
// so gaps between cards are not left unstyled.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at column x, or -1. Hitboxes follow the
// widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 1 // one-column separator
	}
	return -1
}
