package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/config"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/pipeline"
	"github.com/payoffhq/payoff/internal/source"
	"github.com/payoffhq/payoff/internal/store"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDebtName    string
	flagDebtLast4   string
	flagDebtBalance string
	flagDebtAPR     string
	flagDebtMin     string
	flagDebtDueDay  int
	flagImportKeep  bool
)

var debtsCmd = &cobra.Command{
	Use:   "debts",
	Short: "Manage stored debts",
	RunE:  runDebtsList,
}

var debtsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored debts",
	RunE:  runDebtsList,
}

var debtsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a debt (interactive when --name is omitted)",
	RunE:  runDebtsAdd,
}

var debtsRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a debt",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtsRm,
}

var debtsImportCmd = &cobra.Command{
	Use:   "import <path>",
	Short: "Replace stored debts with a YAML/JSON file or directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runDebtsImport,
}

func init() {
	debtsAddCmd.Flags().StringVar(&flagDebtName, "name", "", "Debt name")
	debtsAddCmd.Flags().StringVar(&flagDebtLast4, "last4", "", "Last four digits of the account")
	debtsAddCmd.Flags().StringVar(&flagDebtBalance, "balance", "", "Current balance")
	debtsAddCmd.Flags().StringVar(&flagDebtAPR, "apr", "0", "APR as a percentage (19.9) or fraction (0.199)")
	debtsAddCmd.Flags().StringVar(&flagDebtMin, "min", "", "Minimum monthly payment")
	debtsAddCmd.Flags().IntVar(&flagDebtDueDay, "due-day", 0, "Day of month the payment is due")

	debtsImportCmd.Flags().BoolVar(&flagImportKeep, "keep-policy", false, "Ignore the file's policy block")

	debtsCmd.AddCommand(debtsListCmd, debtsAddCmd, debtsRmCmd, debtsImportCmd)
	rootCmd.AddCommand(debtsCmd)
}

// openUserStore opens the database for commands that edit stored debts.
func openUserStore() (*store.Store, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", err
	}
	user := cfg.General.User
	if flagUser != "" {
		user = flagUser
	}
	st, err := store.Open(dbPath(cfg))
	if err != nil {
		return nil, "", err
	}
	return st, user, nil
}

func runDebtsList(cmd *cobra.Command, _ []string) error {
	st, user, err := openUserStore()
	if err != nil {
		return err
	}
	defer st.Close()

	raw, err := st.ListDebts(cmd.Context(), user)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		fmt.Printf("\n  No debts stored for %s.\n", user)
		fmt.Println("  Add one with `payoff debts add` or import a file with `payoff debts import`.")
		return nil
	}

	debts, warnings, err := engine.NormalizeDebts(raw, engine.Options{})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(debts)+2)
	for _, d := range debts {
		due := ""
		if d.DueDay > 0 {
			due = strconv.Itoa(d.DueDay)
		}
		rows = append(rows, []string{
			shortID(d.ID),
			d.DisplayName(),
			cli.FormatMoney(d.Balance),
			cli.FormatAPR(d.APR),
			cli.FormatMoney(d.MinPayment),
			due,
		})
	}
	sum := pipeline.SummarizeDebts(debts)
	rows = append(rows, []string{"---"}, []string{"", "Total", cli.FormatMoney(sum.TotalBalance), cli.FormatAPR(sum.WeightedAPR), cli.FormatMoney(sum.TotalMinimum), ""})

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DEBTS  %s", user)))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"ID", "Debt", "Balance", "APR", "Min", "Due"},
		Rows:    rows,
	}))
	fmt.Println()
	fmt.Printf("  Interest this month: %s (highest APR %s)\n", cli.FormatMoney(sum.MonthlyAccrual), cli.FormatAPR(sum.HighestAPR))
	if sum.NonAmortizing > 0 {
		fmt.Printf("  %s\n", cli.Bad(fmt.Sprintf("%d debt(s) never shrink on the minimum payment alone", sum.NonAmortizing)))
	}
	if len(warnings) > 0 {
		fmt.Println()
		fmt.Print(cli.RenderWarnings(warnings))
	}
	return nil
}

func runDebtsAdd(cmd *cobra.Command, _ []string) error {
	if flagDebtName == "" {
		if err := debtForm().Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
	}

	d, err := rawFromFlags()
	if err != nil {
		return err
	}

	st, user, err := openUserStore()
	if err != nil {
		return err
	}
	defer st.Close()

	id, err := st.PutDebt(cmd.Context(), user, d)
	if err != nil {
		return fmt.Errorf("saving debt: %w", err)
	}
	fmt.Printf("  Added %s (%s)\n", d.Name, shortID(id))
	return nil
}

func debtForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Name").Placeholder("Visa").Value(&flagDebtName).Validate(required),
			huh.NewInput().Title("Last 4 digits").Placeholder("optional").Value(&flagDebtLast4),
			huh.NewInput().Title("Balance").Placeholder("1200.00").Value(&flagDebtBalance).Validate(amount),
			huh.NewInput().Title("APR").Description("19.9 or 0.199").Value(&flagDebtAPR).Validate(amount),
			huh.NewInput().Title("Minimum payment").Placeholder("45.00").Value(&flagDebtMin).Validate(amount),
		),
	)
}

func rawFromFlags() (model.RawDebt, error) {
	d := model.RawDebt{
		Name:   strings.TrimSpace(flagDebtName),
		Last4:  strings.TrimSpace(flagDebtLast4),
		DueDay: flagDebtDueDay,
	}
	var err error
	if d.Balance, err = parseFieldAmount("balance", flagDebtBalance); err != nil {
		return d, err
	}
	if d.APR, err = parseFieldAmount("apr", flagDebtAPR); err != nil {
		return d, err
	}
	if d.MinPayment, err = parseFieldAmount("min", flagDebtMin); err != nil {
		return d, err
	}
	debts, warnings, err := engine.NormalizeDebts([]model.RawDebt{d}, engine.Options{})
	if err != nil {
		return d, err
	}
	if len(debts) == 0 && len(warnings) > 0 {
		return d, errors.New(warnings[0])
	}
	return d, nil
}

func parseFieldAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("%s is required", field)
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %q is not a number", field, s)
	}
	return v, nil
}

func required(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func amount(s string) error {
	_, err := parseFieldAmount("value", s)
	return err
}

func runDebtsRm(cmd *cobra.Command, args []string) error {
	st, user, err := openUserStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	id := args[0]
	// Accept the short form printed by `debts list`.
	if raw, err := st.ListDebts(ctx, user); err == nil {
		for _, d := range raw {
			if strings.HasPrefix(d.ID, id) {
				id = d.ID
				break
			}
		}
	}

	ok, err := st.DeleteDebt(ctx, user, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no debt %q for %s", args[0], user)
	}
	fmt.Printf("  Removed %s\n", shortID(id))
	return nil
}

func runDebtsImport(cmd *cobra.Command, args []string) error {
	res, err := source.LoadAll(args[0])
	if err != nil {
		return err
	}
	if res.ParseErrors > 0 {
		progress("  Skipped %d malformed records\n", res.ParseErrors)
	}
	if len(res.Debts) == 0 {
		return fmt.Errorf("no debts found in %s", args[0])
	}
	if _, _, err := engine.NormalizeDebts(res.Debts, engine.Options{}); err != nil {
		return err
	}

	st, user, err := openUserStore()
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	if err := st.ReplaceDebts(ctx, user, res.Debts); err != nil {
		return fmt.Errorf("importing debts: %w", err)
	}
	if res.Policy != nil && !flagImportKeep {
		if err := st.SavePolicy(ctx, user, *res.Policy); err != nil {
			return fmt.Errorf("saving settings: %w", err)
		}
	}
	fmt.Printf("  Imported %d debts for %s\n", len(res.Debts), user)
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
