package tui

import (
	"fmt"
	"strings"

	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/pipeline"
	"github.com/payoffhq/payoff/internal/tui/components"
	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	plan := a.plan()
	var b strings.Builder

	// Row 1: headline metrics
	b.WriteString(components.MetricCardRow(a.overviewMetrics(plan), cw))
	b.WriteString("\n")

	// Row 2: balance over time
	chartH := 10
	if a.isCompactLayout() {
		chartH = 6
	}
	series := pipeline.BalanceSeries(plan)
	start := plan.StartDate.Format("Jan 2006")
	end := cli.FormatDate(plan.Totals.DebtFreeDate)
	if plan.Totals.Incomplete && len(plan.Months) > 0 {
		end = plan.Months[len(plan.Months)-1].Date.Format("Jan 2006")
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Total Balance (%s → %s)", cli.FormatMoneyShort(engine.Remaining(plan, 0)), end),
		components.BalanceChart(series, start, end, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	// Row 3: payoff order, with warnings alongside when there are any
	if len(plan.Warnings) == 0 {
		b.WriteString(components.ContentCard("Payoff Order", a.renderPayoffOrder(plan, cw), cw))
		return b.String()
	}

	warnStyle := lipgloss.NewStyle().Foreground(t.Caution).Background(t.Surface)
	var warn strings.Builder
	for i, w := range plan.Warnings {
		if i > 0 {
			warn.WriteString("\n")
		}
		warn.WriteString(warnStyle.Render("! " + w))
	}
	if a.isCompactLayout() {
		b.WriteString(components.ContentCard("Payoff Order", a.renderPayoffOrder(plan, cw), cw))
		b.WriteString("\n")
		b.WriteString(components.ContentCard("Warnings", warn.String(), cw))
		return b.String()
	}
	halves := components.LayoutRow(cw, 2)
	b.WriteString(components.CardRow([]string{
		components.ContentCard("Payoff Order", a.renderPayoffOrder(plan, halves[0]), halves[0]),
		components.ContentCard("Warnings", lipgloss.NewStyle().Width(components.CardInnerWidth(halves[1])).Render(warn.String()), halves[1]),
	}))
	return b.String()
}

func (a App) overviewMetrics(plan *model.PaymentPlan) []components.Metric {
	totals := plan.Totals

	debtFree := components.Metric{Label: "Debt-free", Value: cli.FormatDate(totals.DebtFreeDate)}
	if totals.Incomplete {
		debtFree.Value = "Not within " + cli.FormatMonths(plan.MaxMonths)
		debtFree.Tone = components.ToneBad
	} else {
		debtFree.Note = cli.FormatMonths(totals.MonthsToDebtFree)
	}

	interest := components.Metric{
		Label: "Total interest",
		Value: cli.FormatMoney(totals.TotalInterest),
		Tone:  components.ToneBad,
	}
	if a.rec != nil && a.rec.Best != plan.Strategy {
		for _, r := range a.rec.Ranking {
			if r.Summary.Strategy == a.rec.Best {
				saved := totals.TotalInterest.Sub(r.Summary.TotalInterest)
				if saved.IsPositive() {
					interest.Note = fmt.Sprintf("%s saves %s", r.Summary.Strategy.Label(), cli.FormatMoney(saved))
				}
			}
		}
	} else if a.rec != nil {
		interest.Tone = components.ToneGood
		interest.Note = "best strategy"
	}

	paid := components.Metric{
		Label: "Total paid",
		Value: cli.FormatMoney(totals.TotalPaid),
		Note:  fmt.Sprintf("%d debts", len(plan.Debts)),
	}
	if totals.OneTimeApplied.IsPositive() {
		paid.Note = "incl. " + cli.FormatMoney(totals.OneTimeApplied) + " lump sum"
	}

	budget := components.Metric{
		Label: "Monthly budget",
		Value: cli.FormatMoney(monthlyBudget(plan)),
		Note:  "+" + cli.FormatMoney(plan.ExtraMonthly) + " extra",
	}

	return []components.Metric{debtFree, interest, paid, budget}
}

// monthlyBudget is the sum of minimums plus the extra payment.
func monthlyBudget(plan *model.PaymentPlan) decimal.Decimal {
	total := plan.ExtraMonthly
	for _, d := range plan.Debts {
		total = total.Add(d.MinPayment)
	}
	return total
}

func (a App) renderPayoffOrder(plan *model.PaymentPlan, outerW int) string {
	t := theme.Active
	innerW := components.CardInnerWidth(outerW)

	rank := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	name := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dim := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	never := lipgloss.NewStyle().Foreground(t.Owed).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	nameW := max(innerW-40, 10)
	var b strings.Builder
	for i, d := range pipeline.PayoffOrder(plan) {
		if i > 0 {
			b.WriteString("\n")
		}
		aprStyle := lipgloss.NewStyle().Foreground(t.APR(d.APR.InexactFloat64())).Background(t.Surface)

		b.WriteString(rank.Render(fmt.Sprintf("%2d. ", i+1)))
		b.WriteString(name.Render(fmt.Sprintf("%-*s", nameW, truncStr(debtLabel(d), nameW))))
		b.WriteString(aprStyle.Render(fmt.Sprintf("%8s", cli.FormatAPR(d.APR))))
		b.WriteString(space.Render("  "))
		if d.PaidOff() {
			b.WriteString(dim.Render(fmt.Sprintf("%-9s", cli.FormatDate(d.PayoffDate))))
			b.WriteString(dim.Render(fmt.Sprintf(" month %-4d", d.PayoffMonth)))
		} else {
			b.WriteString(never.Render(fmt.Sprintf("%-20s", "not paid off")))
		}
	}
	return b.String()
}

func debtLabel(d model.DebtResult) string {
	if d.Last4 != "" {
		return d.Name + " ··" + d.Last4
	}
	return d.Name
}
