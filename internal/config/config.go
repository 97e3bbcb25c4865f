// Package config loads and saves the payoff TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

// Config holds all payoff configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Plan       PlanConfig       `toml:"plan"`
	Appearance AppearanceConfig `toml:"appearance"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Cache      CacheConfig      `toml:"cache"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	User   string `toml:"user"`
	DBPath string `toml:"db_path,omitempty"`
}

// PlanConfig holds the default payment policy and engine options. Values
// saved per user in the database take precedence over the policy fields.
type PlanConfig struct {
	Strategy           string  `toml:"strategy"`
	ExtraMonthly       float64 `toml:"extra_monthly"`
	OneTimeExtra       float64 `toml:"one_time_extra"`
	MaxMonths          int     `toml:"max_months"`
	ExcludeZeroMinimum bool    `toml:"exclude_zero_minimum"`
	CoverInterest      bool    `toml:"cover_interest"`
	CascadeSurplus     bool    `toml:"cascade_surplus"`
	TargetDate         string  `toml:"target_date,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DaemonConfig holds settings for the background service.
type DaemonConfig struct {
	Addr          string `toml:"addr"`
	RecomputeCron string `toml:"recompute_cron"`
	RunTimeoutSec int    `toml:"run_timeout_sec"`
	EventsBuffer  int    `toml:"events_buffer"`
}

// CacheConfig selects where computed plans are cached.
type CacheConfig struct {
	Backend   string `toml:"backend"` // sqlite, redis or none
	RedisAddr string `toml:"redis_addr,omitempty"`
	TTLSec    int    `toml:"ttl_sec"`
}

// Cache backends.
const (
	CacheSQLite = "sqlite"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			User: "default",
		},
		Plan: PlanConfig{
			Strategy:           string(model.Snowball),
			MaxMonths:          engine.DefaultMaxMonths,
			ExcludeZeroMinimum: true,
			CoverInterest:      true,
		},
		Appearance: AppearanceConfig{
			Theme: "ledger",
		},
		Daemon: DaemonConfig{
			Addr:          "127.0.0.1:8787",
			RecomputeCron: "0 6 * * *",
			RunTimeoutSec: 5,
			EventsBuffer:  200,
		},
		Cache: CacheConfig{
			Backend: CacheSQLite,
			TTLSec:  86400,
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "payoff")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "payoff")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
// Environment overrides are applied last.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PAYOFF_DB_PATH"); v != "" {
		cfg.General.DBPath = v
	}
	if v := os.Getenv("PAYOFF_USER"); v != "" {
		cfg.General.User = v
	}
	if v := os.Getenv("PAYOFF_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
		if cfg.Cache.Backend == CacheSQLite {
			cfg.Cache.Backend = CacheRedis
		}
	}
}

// Validate checks values that would otherwise fail deep inside a command.
func (c Config) Validate() error {
	if _, err := model.ParseStrategy(c.Plan.Strategy); err != nil {
		return fmt.Errorf("plan.strategy: %w", err)
	}
	if c.Plan.MaxMonths < 0 {
		return fmt.Errorf("plan.max_months must not be negative")
	}
	if c.Plan.TargetDate != "" {
		if _, err := engine.ParseDate(c.Plan.TargetDate); err != nil {
			return fmt.Errorf("plan.target_date: %w", err)
		}
	}
	switch c.Cache.Backend {
	case CacheSQLite, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend %q: want sqlite, redis or none", c.Cache.Backend)
	}
	return nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// EngineOptions maps the plan section to engine options.
func (p PlanConfig) EngineOptions() engine.Options {
	return engine.Options{
		ExcludeZeroMinimum: p.ExcludeZeroMinimum,
		CoverInterest:      p.CoverInterest,
		CascadeSurplus:     p.CascadeSurplus,
	}
}

// Policy returns the configured default payment policy.
func (p PlanConfig) Policy() model.Policy {
	s, err := model.ParseStrategy(p.Strategy)
	if err != nil {
		s = model.Snowball
	}
	return model.Policy{
		Strategy:     s,
		ExtraMonthly: decimal.NewFromFloat(p.ExtraMonthly),
		OneTimeExtra: decimal.NewFromFloat(p.OneTimeExtra),
		TargetDate:   strings.TrimSpace(p.TargetDate),
	}
}
