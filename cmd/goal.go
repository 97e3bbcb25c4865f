package cmd

import (
	"errors"
	"fmt"

	"github.com/payoffhq/payoff/internal/advisor"
	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/engine"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagSaveGoal   bool
	flagExtraLimit string
)

var goalCmd = &cobra.Command{
	Use:   "goal [YYYY-MM-DD]",
	Short: "Check a debt-free target date and the extra payment it needs",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGoal,
}

func init() {
	goalCmd.Flags().BoolVar(&flagSaveGoal, "save", false, "Store the target date in the user's settings")
	goalCmd.Flags().StringVar(&flagExtraLimit, "limit", "", "Largest monthly extra to consider (default 50,000)")
	rootCmd.AddCommand(goalCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	sess, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	ctx := cmd.Context()
	res, req, policy, err := sess.plan(ctx)
	if err != nil {
		return err
	}

	raw := policy.TargetDate
	if len(args) > 0 {
		raw = args[0]
	}
	if raw == "" {
		return errors.New("no target date: pass one or set plan.target_date in the config")
	}
	target, err := engine.ParseDate(raw)
	if err != nil {
		return err
	}

	if flagSaveGoal {
		if sess.store == nil {
			return errors.New("--save needs the database; drop --file")
		}
		policy.TargetDate = target.Format(engine.DateLayout)
		if err := sess.store.SavePolicy(ctx, sess.user, policy); err != nil {
			return fmt.Errorf("saving goal: %w", err)
		}
		progress("  Saved goal %s for %s\n", policy.TargetDate, sess.user)
	}

	g := advisor.EvaluateGoal(res.Plan, target)

	fmt.Println()
	fmt.Println(cli.RenderTitle("DEBT-FREE GOAL"))
	fmt.Println()
	fmt.Print(cli.RenderKV([][2]string{
		{"Target", cli.FormatDate(&g.Target)},
		{"Projected", cli.FormatDate(g.Projected)},
		{"Strategy", res.Plan.Strategy.Label()},
		{"Extra/mo", cli.FormatMoney(res.Plan.ExtraMonthly)},
	}))
	fmt.Println()
	fmt.Println("  " + goalLine(g))

	if g.Status != advisor.GoalBehind && g.Status != advisor.GoalNever {
		return nil
	}

	limit := decimal.Zero
	if flagExtraLimit != "" {
		if limit, err = parseAmount("limit", flagExtraLimit); err != nil {
			return err
		}
	}

	progress("  Searching for the required payment...\n")
	need, err := advisor.RequiredExtra(sess.planner.Engine, req, target, limit)
	if errors.Is(err, advisor.ErrGoalUnreachable) {
		fmt.Printf("  %s\n", cli.Muted(err.Error()))
		return nil
	}
	if err != nil {
		return err
	}
	more := need.Sub(res.Plan.ExtraMonthly)
	fmt.Printf("  Pay %s extra a month (%s more than now) to make it.\n",
		cli.Good(cli.FormatMoney(need)), cli.FormatMoney(more))
	return nil
}
