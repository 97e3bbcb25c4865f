package cmd

import (
	"fmt"

	"github.com/payoffhq/payoff/internal/advisor"
	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var whatifCmd = &cobra.Command{
	Use:   "whatif [amount...]",
	Short: "How much sooner you finish by paying more each month",
	Example: `  payoff whatif
  payoff whatif 25 75 300`,
	RunE: runWhatIf,
}

func init() {
	whatifCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the scenarios as JSON")
	rootCmd.AddCommand(whatifCmd)
}

func runWhatIf(cmd *cobra.Command, args []string) error {
	var increments []decimal.Decimal
	for _, a := range args {
		inc, err := decimal.NewFromString(a)
		if err != nil || inc.IsNegative() {
			return fmt.Errorf("invalid amount %q", a)
		}
		increments = append(increments, inc)
	}

	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	req, _, err := sess.request(cmd.Context())
	if err != nil {
		return err
	}

	scenarios, err := advisor.WhatIf(sess.planner.Engine, req, increments)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(scenarios)
	}

	renderScenarios(req, scenarios)
	return nil
}

func renderScenarios(req engine.Request, scenarios []advisor.Scenario) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = model.Snowball
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("WHAT IF  %s, %s extra today", strategy.Label(), cli.FormatMoney(req.ExtraMonthly))))
	fmt.Println()

	rows := make([][]string, 0, len(scenarios))
	for _, s := range scenarios {
		saved := cli.Muted("baseline")
		if s.Additional.IsPositive() {
			saved = fmt.Sprintf("%s, %s", cli.FormatMonths(s.MonthsSaved), cli.FormatSaved(s.InterestSaved))
			if s.MonthsSaved > 0 || s.InterestSaved.IsPositive() {
				saved = cli.Good(saved)
			}
		}
		rows = append(rows, []string{
			"+" + cli.FormatMoney(s.Additional),
			cli.FormatMoney(s.ExtraMonthly),
			summaryMonths(s.Summary),
			cli.FormatMoney(s.Summary.TotalInterest),
			saved,
		})
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Add", "Extra/mo", "Months", "Interest", "Saved"},
		Rows:    rows,
	}))

	// Interest saved per scenario, scaled to the best one.
	best := 0.0
	for _, s := range scenarios {
		best = max(best, s.InterestSaved.InexactFloat64())
	}
	if best <= 0 {
		return
	}
	fmt.Println()
	for _, s := range scenarios {
		if !s.Additional.IsPositive() {
			continue
		}
		label := fmt.Sprintf("%-10s %12s", "+"+cli.FormatMoney(s.Additional), cli.FormatMoney(s.InterestSaved))
		fmt.Println(cli.RenderHorizontalBar(label, s.InterestSaved.InexactFloat64(), best, 30))
	}
}
