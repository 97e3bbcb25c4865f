// Package pipeline connects the engine to stored debts: it loads a user's
// inputs, consults the plan cache, runs simulations under a deadline and
// recomputes plans for many users at once.
package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
	"github.com/payoffhq/payoff/internal/source"
	"github.com/payoffhq/payoff/internal/store"
)

// Provider supplies a user's debts and payment settings.
type Provider interface {
	Load(ctx context.Context, user string) ([]model.RawDebt, model.Policy, error)
}

// FileProvider serves the same debts file to every user.
type FileProvider struct {
	Path string
	// Policy is used when the file has no policy block.
	Policy model.Policy
}

// Load parses the file (or every debts file under a directory).
func (p FileProvider) Load(_ context.Context, _ string) ([]model.RawDebt, model.Policy, error) {
	res, err := source.LoadAll(p.Path)
	if err != nil {
		return nil, model.Policy{}, err
	}
	policy := p.Policy
	if res.Policy != nil {
		policy = *res.Policy
	}
	return res.Debts, policy, nil
}

// StoreProvider serves debts and settings from the database. Users who never
// saved settings get Defaults.
type StoreProvider struct {
	Store    *store.Store
	Defaults model.Policy
}

// Load implements Provider.
func (p StoreProvider) Load(ctx context.Context, user string) ([]model.RawDebt, model.Policy, error) {
	debts, err := p.Store.ListDebts(ctx, user)
	if err != nil {
		return nil, model.Policy{}, fmt.Errorf("loading debts: %w", err)
	}
	policy, ok, err := p.Store.GetPolicy(ctx, user)
	if err != nil {
		return nil, model.Policy{}, fmt.Errorf("loading settings: %w", err)
	}
	if !ok {
		policy = p.Defaults
	}
	return debts, policy, nil
}

// Planner produces plans for users.
type Planner struct {
	Engine   *engine.Engine
	Provider Provider
	Cache    store.PlanCache // nil means no caching
	Clock    engine.Clock    // resolves empty start dates; nil means the system clock
	// MaxMonths caps every simulation. Zero means the engine default.
	MaxMonths int
}

// Result is a plan together with how it was obtained.
type Result struct {
	User   string             `json:"user"`
	Key    string             `json:"key"`
	Cached bool               `json:"cached"`
	Plan   *model.PaymentPlan `json:"plan"`
}

// RequestFor builds the engine request for a user from their stored inputs.
func (p *Planner) RequestFor(ctx context.Context, user string) (engine.Request, model.Policy, error) {
	debts, policy, err := p.Provider.Load(ctx, user)
	if err != nil {
		return engine.Request{}, model.Policy{}, fmt.Errorf("loading %s: %w", user, err)
	}
	req := engine.Request{
		Debts:        debts,
		Strategy:     policy.Strategy,
		ExtraMonthly: policy.ExtraMonthly,
		OneTimeExtra: policy.OneTimeExtra,
		MaxMonths:    p.MaxMonths,
	}
	return req, policy, nil
}

// PlanFor loads a user's inputs and returns their plan.
func (p *Planner) PlanFor(ctx context.Context, user string) (*Result, error) {
	req, _, err := p.RequestFor(ctx, user)
	if err != nil {
		return nil, err
	}
	res, err := p.Plan(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("planning %s: %w", user, err)
	}
	res.User = user
	return res, nil
}

// Plan returns the plan for req, from the cache when possible. Cache failures
// are treated as misses.
func (p *Planner) Plan(ctx context.Context, req engine.Request) (*Result, error) {
	if req.StartDate == "" {
		clock := p.Clock
		if clock == nil {
			clock = engine.SystemClock
		}
		req.StartDate = clock.Now().Format(engine.DateLayout)
	}

	key, err := CacheKey(req, p.Engine.Options())
	if err != nil {
		return nil, err
	}
	if p.Cache != nil {
		if plan, ok, err := p.Cache.Get(ctx, key); err == nil && ok {
			return &Result{Key: key, Cached: true, Plan: plan}, nil
		}
	}

	plan, err := Simulate(ctx, p.Engine, req)
	if err != nil {
		return nil, err
	}
	if p.Cache != nil {
		_ = p.Cache.Put(ctx, key, plan)
	}
	return &Result{Key: key, Plan: plan}, nil
}

// Simulate runs one engine simulation, giving up when ctx is done. The run
// itself is bounded by the month cap and finishes in the background.
func Simulate(ctx context.Context, e *engine.Engine, req engine.Request) (*model.PaymentPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	type outcome struct {
		plan *model.PaymentPlan
		err  error
	}
	done := make(chan outcome, 1)
	go func() {
		plan, err := e.Simulate(req)
		done <- outcome{plan, err}
	}()
	select {
	case o := <-done:
		return o.plan, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CacheKey is a SHA-256 digest of everything that determines a plan.
func CacheKey(req engine.Request, opts engine.Options) (string, error) {
	body, err := json.Marshal(struct {
		Request engine.Request `json:"request"`
		Options engine.Options `json:"options"`
	}{req, opts})
	if err != nil {
		return "", fmt.Errorf("encoding cache key: %w", err)
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}
