package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/payoffhq/payoff/internal/model"
)

// PlanCache stores computed plans under a digest of their inputs. Plans are a
// pure function of their inputs, so entries never need invalidating, only
// expiring.
type PlanCache interface {
	Get(ctx context.Context, key string) (*model.PaymentPlan, bool, error)
	Put(ctx context.Context, key string, plan *model.PaymentPlan) error
}

// NoopCache never stores anything.
type NoopCache struct{}

// Get always misses.
func (NoopCache) Get(context.Context, string) (*model.PaymentPlan, bool, error) { return nil, false, nil }

// Put discards the plan.
func (NoopCache) Put(context.Context, string, *model.PaymentPlan) error { return nil }

// SQLiteCache keeps plans in the store's plans table.
type SQLiteCache struct {
	s   *Store
	ttl time.Duration
}

// PlanCache returns a cache backed by s. Entries older than ttl are misses;
// zero means they never expire.
func (s *Store) PlanCache(ttl time.Duration) *SQLiteCache {
	return &SQLiteCache{s: s, ttl: ttl}
}

// Get looks up a plan by key.
func (c *SQLiteCache) Get(ctx context.Context, key string) (*model.PaymentPlan, bool, error) {
	var body, created string
	err := c.s.db.QueryRowContext(ctx, "SELECT plan_json, created_at FROM plans WHERE cache_key = ?", key).Scan(&body, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.ttl > 0 {
		at, err := time.Parse(time.RFC3339, created)
		if err != nil || c.s.now().Sub(at) > c.ttl {
			return nil, false, nil
		}
	}
	var plan model.PaymentPlan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, false, fmt.Errorf("decoding cached plan: %w", err)
	}
	return &plan, true, nil
}

// Put stores a plan under key, replacing any previous entry.
func (c *SQLiteCache) Put(ctx context.Context, key string, plan *model.PaymentPlan) error {
	body, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	_, err = c.s.db.ExecContext(ctx, `INSERT OR REPLACE INTO plans (cache_key, plan_json, created_at)
		VALUES (?, ?, ?)`, key, string(body), c.s.stamp())
	return err
}

// Prune deletes expired entries and returns how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context) (int64, error) {
	if c.ttl <= 0 {
		return 0, nil
	}
	cutoff := c.s.now().Add(-c.ttl).UTC().Format(time.RFC3339)
	res, err := c.s.db.ExecContext(ctx, "DELETE FROM plans WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of cached plans.
func (c *SQLiteCache) Count(ctx context.Context) (int, error) {
	var n int
	err := c.s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plans").Scan(&n)
	return n, err
}
