package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/payoffhq/payoff/internal/config"
	"github.com/payoffhq/payoff/internal/store"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// cachedPlans counts plans in the SQLite cache, or -1 when the database
// cannot be read.
func cachedPlans(cfg config.Config) int {
	st, err := store.Open(dbPath(cfg))
	if err != nil {
		return -1
	}
	defer st.Close()
	n, err := st.PlanCache(0).Count(context.Background())
	if err != nil {
		return -1
	}
	return n
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    User:       %s\n", cfg.General.User)
	fmt.Printf("    Database:   %s\n", dbPath(cfg))
	fmt.Println()

	fmt.Println("  [Plan]")
	policy := cfg.Plan.Policy()
	fmt.Printf("    Strategy:            %s\n", policy.Strategy.Label())
	fmt.Printf("    Extra monthly:       $%s\n", policy.ExtraMonthly.StringFixed(2))
	fmt.Printf("    One-time extra:      $%s\n", policy.OneTimeExtra.StringFixed(2))
	fmt.Printf("    Max months:          %d\n", cfg.Plan.MaxMonths)
	fmt.Printf("    Skip zero minimums:  %v\n", cfg.Plan.ExcludeZeroMinimum)
	fmt.Printf("    Cover interest:      %v\n", cfg.Plan.CoverInterest)
	fmt.Printf("    Cascade surplus:     %v\n", cfg.Plan.CascadeSurplus)
	if policy.TargetDate != "" {
		fmt.Printf("    Target date:         %s\n", policy.TargetDate)
	}
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:      %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Recompute:    %s\n", cfg.Daemon.RecomputeCron)
	fmt.Printf("    Run timeout:  %s\n", time.Duration(cfg.Daemon.RunTimeoutSec)*time.Second)
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Backend: %s\n", cfg.Cache.Backend)
	if cfg.Cache.Backend == config.CacheRedis {
		fmt.Printf("    Redis:   %s\n", cfg.Cache.RedisAddr)
	}
	fmt.Printf("    TTL:     %s\n", time.Duration(cfg.Cache.TTLSec)*time.Second)
	if cfg.Cache.Backend == config.CacheSQLite {
		if n := cachedPlans(cfg); n >= 0 {
			fmt.Printf("    Entries: %d\n", n)
		}
	}
	fmt.Println()

	fmt.Println("  Run `payoff setup` to reconfigure.")
	return nil
}
