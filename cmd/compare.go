package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/payoffhq/payoff/internal/advisor"
	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/spf13/cobra"
)

var flagCompareAll bool

var compareCmd = &cobra.Command{
	Use:   "compare [strategy-a] [strategy-b]",
	Short: "Compare two strategies, or rank all of them with --all",
	Args:  cobra.MaximumNArgs(2),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().BoolVar(&flagCompareAll, "all", false, "Rank every strategy and recommend one")
	compareCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	a, b := model.Snowball, model.Avalanche
	var err error
	if len(args) > 0 {
		if a, err = model.ParseStrategy(args[0]); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		if b, err = model.ParseStrategy(args[1]); err != nil {
			return err
		}
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
	e := sess.planner.Engine

	if flagCompareAll {
		rec, err := advisor.CompareAll(e, req)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(rec)
		}
		renderRecommendation(rec)
		return nil
	}

	c, err := e.Compare(req, a, b)
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(c)
	}
	renderComparison(c)
	return nil
}

func renderComparison(c *model.Comparison) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s vs %s", c.A.Strategy.Label(), c.B.Strategy.Label())))
	fmt.Println()

	rows := [][]string{
		{"Months", summaryMonths(c.A), summaryMonths(c.B)},
		{"Total interest", cli.FormatMoney(c.A.TotalInterest), cli.FormatMoney(c.B.TotalInterest)},
		{"Total paid", cli.FormatMoney(c.A.TotalPaid), cli.FormatMoney(c.B.TotalPaid)},
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", c.A.Strategy.Label(), c.B.Strategy.Label()},
		Rows:    rows,
	}))
	fmt.Println()

	fmt.Printf("  Faster:         %s\n", winnerLabel(c.Faster, fmt.Sprintf("by %s", cli.FormatMonths(c.MonthsSaved))))
	fmt.Printf("  Less interest:  %s\n", winnerLabel(c.LessInterest, cli.FormatSaved(c.InterestSaved)))
}

func winnerLabel(winner, margin string) string {
	if winner == model.Both {
		return cli.Muted("tie")
	}
	s, err := model.ParseStrategy(winner)
	if err != nil {
		return winner
	}
	return cli.Good(s.Label()) + "  " + cli.Muted(margin)
}

func renderRecommendation(rec *advisor.Recommendation) {
	fmt.Println()
	fmt.Println(cli.RenderTitle("STRATEGY RANKING"))
	fmt.Println()

	rows := make([][]string, 0, len(rec.Ranking))
	for _, r := range rec.Ranking {
		rows = append(rows, []string{
			strconv.Itoa(r.Rank),
			r.Summary.Strategy.Label(),
			summaryMonths(r.Summary),
			cli.FormatMoney(r.Summary.TotalInterest),
			cli.FormatMoney(r.Summary.TotalPaid),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "Strategy", "Months", "Interest", "Total Paid"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  Recommended: %s\n", cli.Good(rec.Best.Label()))
	fmt.Printf("  %s\n", rec.Reason)
}

func summaryMonths(s model.StrategySummary) string {
	if s.Incomplete {
		return cli.Bad(cli.FormatMonths(s.MonthsToDebtFree) + "+")
	}
	return cli.FormatMonths(s.MonthsToDebtFree)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
