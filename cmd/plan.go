package cmd

import (
	"fmt"
	"strconv"

	"github.com/payoffhq/payoff/internal/advisor"
	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/pipeline"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagJSON     bool
	flagSavePlan bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Payoff summary: debt-free date, interest and payoff order",
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the full plan as JSON")
	planCmd.Flags().BoolVar(&flagSavePlan, "save", false, "Store the strategy and payments as the user's settings")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	res, _, policy, err := sess.plan(ctx)
	if err != nil {
		return err
	}

	if flagSavePlan {
		if sess.store == nil {
			return fmt.Errorf("--save needs the database; drop --file")
		}
		if err := sess.store.SavePolicy(ctx, sess.user, policy); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
		progress("  Saved settings for %s\n", sess.user)
	}

	if flagJSON {
		return printJSON(res.Plan)
	}

	renderPlan(res.Plan, policy)
	return nil
}

func renderPlan(plan *model.PaymentPlan, policy model.Policy) {
	t := plan.Totals

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("PAYOFF PLAN  %s", plan.Strategy.Label())))
	fmt.Println()

	owed := engine.Remaining(plan, 0).Add(t.OneTimeApplied)
	minimums := decimal.Zero
	for _, d := range plan.Debts {
		minimums = minimums.Add(d.MinPayment)
	}

	freeDate := cli.FormatDate(t.DebtFreeDate)
	if t.Incomplete {
		freeDate = cli.Bad(fmt.Sprintf("not within %d months", plan.MaxMonths))
	}

	rows := [][]string{
		{"Debts", strconv.Itoa(len(plan.Debts))},
		{"Total owed", cli.FormatMoney(owed)},
		{"Monthly budget", fmt.Sprintf("%s  (%s min + %s extra)",
			cli.FormatMoney(minimums.Add(plan.ExtraMonthly)), cli.FormatMoney(minimums), cli.FormatMoney(plan.ExtraMonthly))},
	}
	if t.OneTimeApplied.IsPositive() {
		rows = append(rows, []string{"One-time payment", cli.FormatMoney(t.OneTimeApplied)})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Debt-free", freeDate},
		[]string{"Months", cli.FormatMonths(t.MonthsToDebtFree)},
		[]string{"Total interest", cli.FormatMoney(t.TotalInterest)},
		[]string{"Total paid", cli.FormatMoney(t.TotalPaid)},
	)

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Plan", "Value"},
		Rows:    rows,
	}))
	fmt.Println()

	order := pipeline.PayoffOrder(plan)
	debtRows := make([][]string, 0, len(order))
	for i, d := range order {
		paid := cli.Bad("never")
		if d.PaidOff() {
			paid = fmt.Sprintf("%s (mo %d)", cli.FormatDate(d.PayoffDate), d.PayoffMonth)
		}
		debtRows = append(debtRows, []string{
			strconv.Itoa(i + 1),
			displayName(d),
			cli.FormatMoney(d.StartingBalance),
			cli.FormatAPR(d.APR),
			cli.FormatMoney(d.MinPayment),
			paid,
			cli.FormatMoney(d.TotalInterest),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Payoff Order",
		Headers: []string{"#", "Debt", "Balance", "APR", "Min", "Paid Off", "Interest"},
		Rows:    debtRows,
	}))

	if policy.TargetDate != "" {
		if target, err := engine.ParseDate(policy.TargetDate); err == nil {
			fmt.Println()
			fmt.Println("  " + goalLine(advisor.EvaluateGoal(plan, target)))
		}
	}

	if len(plan.Warnings) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderWarnings(plan.Warnings))
	}
}

func displayName(d model.DebtResult) string {
	if d.Last4 == "" {
		return d.Name
	}
	return d.Name + " ••" + d.Last4
}

func goalLine(g advisor.GoalResult) string {
	target := cli.FormatDate(&g.Target)
	switch g.Status {
	case advisor.GoalAhead:
		return cli.Good(fmt.Sprintf("Goal %s: %s ahead", target, cli.FormatMonths(g.MonthsAhead)))
	case advisor.GoalOnTrack:
		return cli.Good(fmt.Sprintf("Goal %s: on track", target))
	case advisor.GoalBehind:
		return cli.Bad(fmt.Sprintf("Goal %s: %s behind", target, cli.FormatMonths(-g.MonthsAhead)))
	default:
		return cli.Bad(fmt.Sprintf("Goal %s: not reachable at this payment", target))
	}
}
