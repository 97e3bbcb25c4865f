// Package engine is the debt payoff simulator. It normalizes raw debt records,
// orders them by strategy, simulates the month-by-month waterfall and folds the
// ledger into a PaymentPlan. Every consumer in the module calls through here.
//
// The engine is pure: no I/O, no goroutines, no shared state between runs.
package engine

import (
	"time"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultMaxMonths caps a simulation at 30 years when the request sets no cap.
const DefaultMaxMonths = 360

// DateLayout is the ISO date format accepted for start dates.
const DateLayout = "2006-01-02"

// Clock supplies the current time for the default start date.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock returns a Clock that always reports t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Options tune policy decisions that callers disagree on.
type Options struct {
	// ExcludeZeroMinimum drops debts whose minimum payment is zero.
	ExcludeZeroMinimum bool
	// CoverInterest raises any payment below the month's interest up to the
	// interest, so no balance grows. When false, unpaid interest capitalizes.
	CoverInterest bool
	// CascadeSurplus spills the part of the extra pool the target could not
	// absorb on to the next debts in order. When false the surplus is unused.
	CascadeSurplus bool
}

// DefaultOptions returns the options used by the package-level functions.
func DefaultOptions() Options {
	return Options{
		ExcludeZeroMinimum: true,
		CoverInterest:      true,
	}
}

// Request is the full input of one simulation run.
type Request struct {
	Debts        []model.RawDebt `json:"debts"`
	Strategy     model.Strategy  `json:"strategy"`
	ExtraMonthly decimal.Decimal `json:"extra_monthly"`
	OneTimeExtra decimal.Decimal `json:"one_time_extra"`
	StartDate    string          `json:"start_date,omitempty"`
	MaxMonths    int             `json:"max_months,omitempty"`
}

// WithStrategy returns a copy of r using strategy s.
func (r Request) WithStrategy(s model.Strategy) Request {
	r.Strategy = s
	return r
}

// WithExtra returns a copy of r with a different recurring extra payment.
func (r Request) WithExtra(extra decimal.Decimal) Request {
	r.ExtraMonthly = extra
	return r
}

// Engine runs simulations under a fixed set of options.
type Engine struct {
	opts  Options
	clock Clock
}

// New creates an Engine. A nil clock means SystemClock.
func New(opts Options, clock Clock) *Engine {
	if clock == nil {
		clock = SystemClock
	}
	return &Engine{opts: opts, clock: clock}
}

// Options returns the engine's options.
func (e *Engine) Options() Options { return e.opts }

// Simulate normalizes req and runs it to completion or to the month cap.
func (e *Engine) Simulate(req Request) (*model.PaymentPlan, error) {
	in, err := e.Normalize(req)
	if err != nil {
		return nil, err
	}
	return e.run(in)
}

var defaultEngine = New(DefaultOptions(), nil)

// Simulate runs req with DefaultOptions and the system clock.
func Simulate(req Request) (*model.PaymentPlan, error) {
	return defaultEngine.Simulate(req)
}

// Compare runs req under two strategies with DefaultOptions.
func Compare(req Request, a, b model.Strategy) (*model.Comparison, error) {
	return defaultEngine.Compare(req, a, b)
}
