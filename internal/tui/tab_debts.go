package tui

import (
	"fmt"
	"strings"

	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/tui/components"
	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

// debtBalanceAt returns what d owes at the end of month m. Month 0 is
// its starting balance.
func debtBalanceAt(plan *model.PaymentPlan, d model.DebtResult, m int) decimal.Decimal {
	if m <= 0 || len(plan.Months) == 0 {
		return d.StartingBalance
	}
	m = min(m, len(plan.Months))
	for _, dm := range plan.Months[m-1].Debts {
		if dm.DebtID == d.ID {
			return dm.EndingBalance
		}
	}
	return d.StartingBalance
}

// debtSeries is a debt's balance before month 1 and after every month.
func debtSeries(plan *model.PaymentPlan, d model.DebtResult) []float64 {
	out := make([]float64, 0, len(plan.Months)+1)
	for m := 0; m <= len(plan.Months); m++ {
		out = append(out, debtBalanceAt(plan, d, m).InexactFloat64())
	}
	return out
}

func (a App) renderDebtsTab(cw int) string {
	t := theme.Active
	plan := a.plan()
	innerW := components.CardInnerWidth(cw)

	// Card 1: paid-down progress as of the cursor month
	labelW := min(24, innerW/4)
	barW := max(innerW-labelW-30, 10)
	var bars strings.Builder
	for i, d := range plan.Debts {
		if i > 0 {
			bars.WriteString("\n")
		}
		owed := debtBalanceAt(plan, d, a.month)
		pct := 0.0
		if d.StartingBalance.IsPositive() {
			pct = 1 - owed.Div(d.StartingBalance).InexactFloat64()
		}
		note := cli.FormatMoney(owed) + " left"
		if d.PaidOff() && d.PayoffMonth <= a.month {
			note = "paid " + cli.FormatDate(d.PayoffDate)
		}
		bars.WriteString(components.DebtBar(debtLabel(d), pct, note, labelW, barW))
	}

	var b strings.Builder
	b.WriteString(components.ContentCard("Progress · "+a.monthLabel(plan), bars.String(), cw))
	b.WriteString("\n")

	// Card 2: per-debt detail with a balance sparkline
	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	const nameW = 18
	sparkW := max(innerW-81, 0) // room left after the fixed columns

	var b2 strings.Builder
	b2.WriteString(headStyle.Render(fmt.Sprintf("%-*s %11s %7s %9s %9s %10s %11s",
		nameW, "Debt", "Balance", "APR", "Min", "Payoff", "Interest", "Paid")))
	for _, d := range plan.Debts {
		aprColor := t.APR(d.APR.InexactFloat64())
		aprStyle := lipgloss.NewStyle().Foreground(aprColor).Background(t.Surface)
		payoff := cli.FormatDate(d.PayoffDate)
		if !d.PaidOff() {
			payoff = "never"
		}

		b2.WriteString("\n")
		b2.WriteString(rowStyle.Render(fmt.Sprintf("%-*s %11s ", nameW, truncStr(debtLabel(d), nameW), cli.FormatMoney(d.StartingBalance))))
		b2.WriteString(aprStyle.Render(fmt.Sprintf("%7s", cli.FormatAPR(d.APR))))
		b2.WriteString(rowStyle.Render(fmt.Sprintf(" %9s %9s %10s %11s",
			cli.FormatMoney(d.MinPayment), payoff, cli.FormatMoney(d.TotalInterest), cli.FormatMoney(d.TotalPaid))))
		if sparkW >= 8 {
			b2.WriteString(space.Render("  "))
			b2.WriteString(components.Sparkline(components.Resample(debtSeries(plan, d), sparkW-2), aprColor))
		}
		if d.NonAmortizing {
			b2.WriteString(lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface).Render(" !"))
		}
	}
	b.WriteString(components.ContentCard(fmt.Sprintf("Debts (%d)", len(plan.Debts)), b2.String(), cw))
	return b.String()
}
