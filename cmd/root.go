// Package cmd implements the payoff CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/payoffhq/payoff/internal/cli"
	"github.com/payoffhq/payoff/internal/config"
	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/pipeline"
	"github.com/payoffhq/payoff/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagDB        string
	flagUser      string
	flagFile      string
	flagStrategy  string
	flagExtra     string
	flagOneTime   string
	flagStart     string
	flagMaxMonths int
	flagQuiet     bool
	flagNoCache   bool
)

var rootCmd = &cobra.Command{
	Use:   "payoff",
	Short: "Debt payoff planner",
	Long:  "Simulate month-by-month debt payoff with snowball, avalanche or highest-balance ordering.",
	RunE:  runPlan,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path (default: $XDG_DATA_HOME/payoff/payoff.db)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User whose debts to plan")
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "Read debts from a YAML/JSON file or directory instead of the database")
	rootCmd.PersistentFlags().StringVarP(&flagStrategy, "strategy", "s", "", "Ordering strategy: snowball, avalanche, highest_balance")
	rootCmd.PersistentFlags().StringVarP(&flagExtra, "extra", "e", "", "Extra amount paid every month")
	rootCmd.PersistentFlags().StringVar(&flagOneTime, "one-time", "", "Lump sum applied before month 1")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Plan start date, YYYY-MM-DD (default: today)")
	rootCmd.PersistentFlags().IntVar(&flagMaxMonths, "max-months", 0, "Month cap for the simulation")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip the plan cache")
}

var errNoDebts = errors.New("no debts")

// session is the shared state every planning command starts from.
type session struct {
	cmd     *cobra.Command
	cfg     config.Config
	user    string
	store   *store.Store // nil when debts come from --file and no cache is used
	planner *pipeline.Planner
	closers []func() error
}

// openSession loads config, opens the debt source and picks a plan cache.
func openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	s := &session{cmd: cmd, cfg: cfg, user: cfg.General.User}
	if flagUser != "" {
		s.user = flagUser
	}

	s.planner = &pipeline.Planner{
		Engine:    engine.New(cfg.Plan.EngineOptions(), engine.SystemClock),
		Clock:     engine.SystemClock,
		MaxMonths: cfg.Plan.MaxMonths,
	}

	if flagFile != "" {
		s.planner.Provider = pipeline.FileProvider{Path: flagFile, Policy: cfg.Plan.Policy()}
	} else {
		st, err := s.openStore()
		if err != nil {
			return nil, err
		}
		s.planner.Provider = pipeline.StoreProvider{Store: st, Defaults: cfg.Plan.Policy()}
	}

	if !flagNoCache {
		s.planner.Cache = s.planCache()
	}
	return s, nil
}

func (s *session) openStore() (*store.Store, error) {
	if s.store != nil {
		return s.store, nil
	}
	st, err := store.Open(dbPath(s.cfg))
	if err != nil {
		return nil, err
	}
	s.store = st
	s.closers = append(s.closers, st.Close)
	return st, nil
}

// planCache returns the configured cache. An unreachable backend degrades to
// store.NoopCache so planning still works.
func (s *session) planCache() store.PlanCache {
	ttl := time.Duration(s.cfg.Cache.TTLSec) * time.Second
	switch s.cfg.Cache.Backend {
	case config.CacheRedis:
		rc := store.NewRedisCache(s.cfg.Cache.RedisAddr, ttl)
		ctx, cancel := context.WithTimeout(s.cmd.Context(), time.Second)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			progress("  Redis unavailable (%v), planning without cache\n", err)
			return store.NoopCache{}
		}
		s.closers = append(s.closers, rc.Close)
		return rc
	case config.CacheSQLite:
		st, err := s.openStore()
		if err != nil {
			progress("  Cache unavailable, planning without cache\n")
			return store.NoopCache{}
		}
		return st.PlanCache(ttl)
	default:
		return store.NoopCache{}
	}
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// request builds the engine request for the session user, with command-line
// flags taking precedence over stored settings and config.
func (s *session) request(ctx context.Context) (engine.Request, model.Policy, error) {
	req, policy, err := s.planner.RequestFor(ctx, s.user)
	if err != nil {
		return req, policy, err
	}
	if len(req.Debts) == 0 {
		if flagFile != "" {
			return req, policy, fmt.Errorf("%w in %s", errNoDebts, flagFile)
		}
		return req, policy, fmt.Errorf("%w for user %q; add one with `payoff debts add` or pass --file", errNoDebts, s.user)
	}

	flags := s.cmd.Flags()
	if flags.Changed("strategy") {
		strategy, err := model.ParseStrategy(flagStrategy)
		if err != nil {
			return req, policy, err
		}
		req.Strategy = strategy
		policy.Strategy = strategy
	}
	if flags.Changed("extra") {
		extra, err := parseAmount("extra", flagExtra)
		if err != nil {
			return req, policy, err
		}
		req.ExtraMonthly = extra
		policy.ExtraMonthly = extra
	}
	if flags.Changed("one-time") {
		oneTime, err := parseAmount("one-time", flagOneTime)
		if err != nil {
			return req, policy, err
		}
		req.OneTimeExtra = oneTime
		policy.OneTimeExtra = oneTime
	}
	if flagStart != "" {
		t, err := engine.ParseDate(flagStart)
		if err != nil {
			return req, policy, err
		}
		req.StartDate = t.Format(engine.DateLayout)
	}
	if flags.Changed("max-months") {
		req.MaxMonths = flagMaxMonths
	}

	progress("  Loaded %d debts for %s\n", len(req.Debts), s.user)
	return req, policy, nil
}

// plan runs the session request through the planner.
func (s *session) plan(ctx context.Context) (*pipeline.Result, engine.Request, model.Policy, error) {
	req, policy, err := s.request(ctx)
	if err != nil {
		return nil, req, policy, err
	}
	res, err := s.planner.Plan(ctx, req)
	if err != nil {
		return nil, req, policy, err
	}
	if res.Cached {
		progress("  Plan loaded from cache\n")
	}
	return res, req, policy, nil
}

// parseAmount reads a money flag such as "250" or "1,200.50".
func parseAmount(flag, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimPrefix(strings.TrimSpace(raw), "$"), ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %q is not an amount", flag, raw)
	}
	return v, nil
}

func dbPath(cfg config.Config) string {
	switch {
	case flagDB != "":
		return flagDB
	case cfg.General.DBPath != "":
		return cfg.General.DBPath
	default:
		return store.DefaultPath()
	}
}

func progress(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

func formatNumber(n int64) string {
	return cli.FormatNumber(n)
}
