package tui

import (
	"fmt"
	"strings"

	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/tui/components"
	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

func (a App) renderCompareTab(cw int) string {
	t := theme.Active

	headStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	bestStyle := lipgloss.NewStyle().Foreground(t.Paid).Background(t.Surface).Bold(true)
	curStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	goodStyle := lipgloss.NewStyle().Foreground(t.Good).Background(t.Surface)

	var b strings.Builder

	// Card 1: every strategy ranked on the current inputs
	if a.rec == nil {
		b.WriteString(components.ContentCard("Strategies", dimStyle.Render("Ranking unavailable"), cw))
	} else {
		var r strings.Builder
		r.WriteString(headStyle.Render(fmt.Sprintf("%-4s %-18s %12s %13s %14s", "#", "Strategy", "Debt-free", "Interest", "Total paid")))
		for _, rk := range a.rec.Ranking {
			s := rk.Summary
			months := cli.FormatMonths(s.MonthsToDebtFree)
			if s.Incomplete {
				months = "never"
			}
			line := fmt.Sprintf("%-4d %-18s %12s %13s %14s", rk.Rank, s.Strategy.Label(), months,
				cli.FormatMoney(s.TotalInterest), cli.FormatMoney(s.TotalPaid))
			style := rowStyle
			switch {
			case s.Strategy == a.rec.Best:
				style = bestStyle
			case s.Strategy == a.req.Strategy:
				style = curStyle
			}
			r.WriteString("\n")
			r.WriteString(style.Render(line))
			if s.Strategy == a.req.Strategy {
				r.WriteString(curStyle.Render("  ◂ current"))
			}
		}
		r.WriteString("\n\n")
		r.WriteString(dimStyle.Render(lipgloss.NewStyle().Width(components.CardInnerWidth(cw)).Render(a.rec.Reason)))
		b.WriteString(components.ContentCard("Strategies", r.String(), cw))
	}
	b.WriteString("\n")

	// Card 2: paying more each month
	if len(a.scenarios) == 0 {
		return b.String()
	}
	var w strings.Builder
	w.WriteString(headStyle.Render(fmt.Sprintf("%-12s %12s %12s %13s %12s %15s",
		"Pay more", "Extra/mo", "Debt-free", "Interest", "Months saved", "Interest saved")))
	for _, sc := range a.scenarios {
		months := cli.FormatMonths(sc.Summary.MonthsToDebtFree)
		if sc.Summary.Incomplete {
			months = "never"
		}
		w.WriteString("\n")
		w.WriteString(rowStyle.Render(fmt.Sprintf("%-12s %12s %12s %13s ",
			"+"+cli.FormatMoney(sc.Additional), cli.FormatMoney(sc.ExtraMonthly), months, cli.FormatMoney(sc.Summary.TotalInterest))))
		w.WriteString(goodStyle.Render(fmt.Sprintf("%12d %15s", sc.MonthsSaved, cli.FormatMoney(sc.InterestSaved))))
	}
	title := fmt.Sprintf("What If (%s, %s extra now)", a.req.Strategy.Label(), cli.FormatMoney(a.req.ExtraMonthly))
	b.WriteString(components.ContentCard(title, w.String(), cw))
	return b.String()
}
