package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/payoffhq/payoff/internal/config"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupValues holds the wizard's answers as strings for the form fields.
type setupValues struct {
	user      string
	strategy  string
	extra     string
	theme     string
	backend   string
	redisAddr string
}

func runSetup(_ *cobra.Command, _ []string) error {
	// Load existing config or defaults
	cfg, _ := config.Load()

	vals := setupValues{
		user:      cfg.General.User,
		strategy:  cfg.Plan.Strategy,
		extra:     strconv.FormatFloat(cfg.Plan.ExtraMonthly, 'f', 2, 64),
		theme:     cfg.Appearance.Theme,
		backend:   cfg.Cache.Backend,
		redisAddr: cfg.Cache.RedisAddr,
	}

	fmt.Println()
	fmt.Println("  Welcome to payoff!")
	fmt.Println()

	if err := setupForm(&vals).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	if err := applySetup(&cfg, vals); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `payoff setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func setupForm(v *setupValues) *huh.Form {
	strategies := make([]huh.Option[string], 0, len(model.Strategies))
	for _, s := range model.Strategies {
		strategies = append(strategies, huh.NewOption(s.Label(), string(s)))
	}
	themes := make([]huh.Option[string], 0, len(theme.All))
	for _, t := range theme.All {
		themes = append(themes, huh.NewOption(t.Name, t.Name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("User").Description("Name your debts are stored under").Value(&v.user).Validate(required),
			huh.NewSelect[string]().Title("Strategy").Options(strategies...).Value(&v.strategy),
			huh.NewInput().Title("Extra each month").Description("Paid on top of the minimums").Value(&v.extra).Validate(amount),
		),
		huh.NewGroup(
			huh.NewSelect[string]().Title("Color theme").Options(themes...).Value(&v.theme),
			huh.NewSelect[string]().Title("Plan cache").Options(
				huh.NewOption("SQLite (local)", config.CacheSQLite),
				huh.NewOption("Redis (shared)", config.CacheRedis),
				huh.NewOption("None", config.CacheNone),
			).Value(&v.backend),
		),
		huh.NewGroup(
			huh.NewInput().Title("Redis address").Placeholder("127.0.0.1:6379").Value(&v.redisAddr).Validate(required),
		).WithHideFunc(func() bool { return v.backend != config.CacheRedis }),
	)
}

func applySetup(cfg *config.Config, v setupValues) error {
	extra, err := parseAmount("extra", v.extra)
	if err != nil {
		return err
	}
	cfg.General.User = strings.TrimSpace(v.user)
	cfg.Plan.Strategy = v.strategy
	cfg.Plan.ExtraMonthly = extra.InexactFloat64()
	cfg.Appearance.Theme = v.theme
	cfg.Cache.Backend = v.backend
	cfg.Cache.RedisAddr = strings.TrimSpace(v.redisAddr)
	return cfg.Validate()
}
