package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/pipeline"

	"github.com/spf13/cobra"
)

var (
	flagYearly bool
	flagDebt   string
	flagLimit  int
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Month-by-month payment schedule",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&flagYearly, "yearly", false, "Group the schedule by calendar year")
	scheduleCmd.Flags().StringVar(&flagDebt, "debt", "", "Show one debt's rows (ID or name substring)")
	scheduleCmd.Flags().IntVar(&flagLimit, "limit", 0, "Show only the first N months")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	res, _, _, err := sess.plan(cmd.Context())
	if err != nil {
		return err
	}
	plan := res.Plan

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCHEDULE  %s", plan.Strategy.Label())))
	fmt.Println()

	switch {
	case flagYearly:
		renderYearly(plan)
	case flagDebt != "":
		id, ok := findDebt(plan, flagDebt)
		if !ok {
			return fmt.Errorf("no debt matches %q", flagDebt)
		}
		renderDebtSchedule(plan, id)
	default:
		renderMonthly(plan)
	}

	if plan.Totals.Incomplete {
		fmt.Println()
		fmt.Printf("  %s\n", cli.Bad(fmt.Sprintf("Stopped at the %d-month cap with %s still owed",
			plan.MaxMonths, cli.FormatMoney(engine.Remaining(plan, len(plan.Months))))))
	}
	return nil
}

func renderMonthly(plan *model.PaymentPlan) {
	names := debtNames(plan)
	months := limitMonths(plan.Months)

	rows := make([][]string, 0, len(months))
	for _, m := range months {
		target := names[m.TargetID]
		if target == "" {
			target = cli.Muted("none")
		}
		paidOff := make([]string, 0, 1)
		for _, dm := range m.Debts {
			if dm.PaidOff {
				paidOff = append(paidOff, names[dm.DebtID])
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(m.Month),
			m.Date.Format(engine.DateLayout),
			target,
			cli.FormatMoney(m.TotalPaid.Add(m.TotalOneTime)),
			cli.FormatMoney(m.TotalInterest),
			cli.FormatMoney(m.TotalPrincipal),
			cli.FormatMoney(m.TotalRemaining),
			cli.Good(strings.Join(paidOff, ", ")),
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Month", "Date", "Target", "Paid", "Interest", "Principal", "Remaining", "Paid Off"},
		Rows:    rows,
	}))
	if flagLimit > 0 && flagLimit < len(plan.Months) {
		fmt.Printf("  %s\n", cli.Muted(fmt.Sprintf("%d more months", len(plan.Months)-flagLimit)))
	}
}

func renderDebtSchedule(plan *model.PaymentPlan, id string) {
	rows := make([][]string, 0, len(plan.Months))
	for _, r := range engine.Rows(plan) {
		if r.DebtID != id {
			continue
		}
		if flagLimit > 0 && r.Month > flagLimit {
			break
		}
		payment := cli.FormatMoney(r.Payment)
		if r.OneTimePayment.IsPositive() {
			payment += cli.Muted(" +" + cli.FormatMoney(r.OneTimePayment))
		}
		mark := ""
		switch {
		case r.PaidOff:
			mark = cli.Good("paid off")
		case r.Targeted:
			mark = "target"
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Month),
			r.Date.Format(engine.DateLayout),
			cli.FormatMoney(r.StartingBalance),
			cli.FormatMoney(r.Interest),
			payment,
			cli.FormatMoney(r.Principal),
			cli.FormatMoney(r.EndingBalance),
			mark,
		})
		if r.PaidOff {
			break
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   debtNames(plan)[id],
		Headers: []string{"Month", "Date", "Start", "Interest", "Payment", "Principal", "End", ""},
		Rows:    rows,
	}))
}

func renderYearly(plan *model.PaymentPlan) {
	years := pipeline.AggregateYears(plan)
	start := engine.Remaining(plan, 0)
	rows := make([][]string, 0, len(years))
	for _, y := range years {
		cleared := ""
		if y.DebtsPaidOff > 0 {
			cleared = strconv.Itoa(y.DebtsPaidOff)
		}
		paidDown := 0.0
		if start.IsPositive() {
			paidDown = 1 - y.EndingBalance.Div(start).InexactFloat64()
		}
		rows = append(rows, []string{
			strconv.Itoa(y.Year),
			strconv.Itoa(y.Months),
			cli.FormatMoney(y.Paid),
			cli.FormatMoney(y.Interest),
			cli.FormatMoney(y.Principal),
			cli.FormatMoney(y.EndingBalance),
			cli.RenderProgressBar(paidDown, 10),
			cleared,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Year", "Months", "Paid", "Interest", "Principal", "Year-end", "Paid down", "Cleared"},
		Rows:    rows,
	}))

	series := pipeline.BalanceSeries(plan)
	fmt.Println()
	fmt.Printf("  Balance  %s\n", cli.RenderSparkline(series))
}

func limitMonths(months []model.MonthSnapshot) []model.MonthSnapshot {
	if flagLimit > 0 && flagLimit < len(months) {
		return months[:flagLimit]
	}
	return months
}

func debtNames(plan *model.PaymentPlan) map[string]string {
	names := make(map[string]string, len(plan.Debts))
	for _, d := range plan.Debts {
		names[d.ID] = d.Name
	}
	return names
}

// findDebt matches an exact ID first, then a case-insensitive name substring.
func findDebt(plan *model.PaymentPlan, query string) (string, bool) {
	for _, d := range plan.Debts {
		if d.ID == query {
			return d.ID, true
		}
	}
	q := strings.ToLower(query)
	for _, d := range plan.Debts {
		if strings.Contains(strings.ToLower(d.Name), q) {
			return d.ID, true
		}
	}
	return "", false
}
