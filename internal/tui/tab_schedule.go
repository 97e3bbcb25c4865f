package tui

import (
	"fmt"
	"strings"

	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/tui/components"
	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// scheduleChrome is the vertical space the schedule card spends on borders,
// title, progress line and column header.
const scheduleChrome = 8

// scheduleRows is how many months fit in the schedule table.
func (a App) scheduleRows() int {
	return max(a.height-scheduleChrome, 3)
}

type scheduleCol struct {
	title string
	width int
	right bool
}

func scheduleCols(targetW int) []scheduleCol {
	return []scheduleCol{
		{"Month", 5, true},
		{"Date", 9, false},
		{"Target", targetW, false},
		{"Paid", 12, true},
		{"Interest", 11, true},
		{"Principal", 12, true},
		{"Remaining", 13, true},
	}
}

func (c scheduleCol) format(s string) string {
	s = truncStr(s, c.width)
	if c.right {
		return fmt.Sprintf("%*s", c.width, s)
	}
	return fmt.Sprintf("%-*s", c.width, s)
}

func (a App) renderScheduleTab(cw int) string {
	t := theme.Active
	plan := a.plan()
	innerW := components.CardInnerWidth(cw)

	names := make(map[string]string, len(plan.Debts))
	for _, d := range plan.Debts {
		names[d.ID] = d.Name
	}

	// Everything but the target column takes 68 cells.
	cols := scheduleCols(max(innerW-68, 8))

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceHover).Bold(true)
	payoffStyle := lipgloss.NewStyle().Foreground(t.Paid).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	var b strings.Builder

	// Progress as of the cursor month
	start := engine.Remaining(plan, 0)
	remaining := engine.Remaining(plan, a.month)
	pct := 0.0
	if start.IsPositive() {
		pct = 1 - remaining.Div(start).InexactFloat64()
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("%-22s", a.monthLabel(plan))))
	b.WriteString(components.ProgressBar(pct, max(innerW-30, 10)))
	b.WriteString("\n")

	heads := make([]string, len(cols))
	for i, c := range cols {
		heads[i] = c.format(c.title)
	}
	b.WriteString(headStyle.Render(strings.Join(heads, " ")))

	rows := a.scheduleRows()
	first := max(a.schedTop, 1) - 1
	for i := first; i < len(plan.Months) && i < first+rows; i++ {
		m := plan.Months[i]
		cells := []string{
			fmt.Sprintf("%d", m.Month),
			m.Date.Format("Jan 2006"),
			names[m.TargetID],
			cli.FormatMoney(m.TotalPaid.Add(m.TotalOneTime)),
			cli.FormatMoney(m.TotalInterest),
			cli.FormatMoney(m.TotalPrincipal.Add(m.TotalOneTime)),
			cli.FormatMoney(m.TotalRemaining),
		}
		out := make([]string, len(cols))
		for j, c := range cols {
			out[j] = c.format(cells[j])
		}
		line := strings.Join(out, " ")

		b.WriteString("\n")
		switch {
		case m.Month == a.month:
			b.WriteString(selStyle.Render(line))
		case paidOffIn(m) != "":
			b.WriteString(payoffStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(line))
		}
	}

	title := fmt.Sprintf("Schedule (%s, %d months)", plan.Strategy.Label(), len(plan.Months))
	return components.ContentCard(title, b.String(), cw)
}

func (a App) monthLabel(plan *model.PaymentPlan) string {
	if a.month == 0 || len(plan.Months) == 0 {
		return "Before month 1"
	}
	m := plan.Months[a.month-1]
	label := fmt.Sprintf("Month %d · %s", m.Month, m.Date.Format("Jan 2006"))
	if paidOffIn(m) != "" {
		label += " ✓"
	}
	return label
}

// paidOffIn returns the ID of the first debt cleared during m, if any.
func paidOffIn(m model.MonthSnapshot) string {
	for _, dm := range m.Debts {
		if dm.PaidOff {
			return dm.DebtID
		}
	}
	return ""
}
