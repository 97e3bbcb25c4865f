package advisor

import (
	"errors"
	"fmt"
	"time"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

// GoalStatus describes a plan against a target debt-free date.
type GoalStatus string

const (
	GoalAhead   GoalStatus = "ahead"
	GoalOnTrack GoalStatus = "on_track"
	GoalBehind  GoalStatus = "behind"
	GoalNever   GoalStatus = "never" // the plan hits its month cap
)

// GoalResult compares a plan's debt-free date with a target.
type GoalResult struct {
	Target      time.Time  `json:"target"`
	Projected   *time.Time `json:"projected,omitempty"`
	Status      GoalStatus `json:"status"`
	MonthsAhead int        `json:"months_ahead"` // negative when behind
}

// EvaluateGoal measures plan against target in whole calendar months.
func EvaluateGoal(plan *model.PaymentPlan, target time.Time) GoalResult {
	res := GoalResult{Target: target, Projected: plan.Totals.DebtFreeDate}
	if plan.Totals.Incomplete || plan.Totals.DebtFreeDate == nil {
		res.Status = GoalNever
		return res
	}
	res.MonthsAhead = engine.MonthsBetween(*plan.Totals.DebtFreeDate, target)
	switch {
	case res.MonthsAhead > 0:
		res.Status = GoalAhead
	case res.MonthsAhead < 0:
		res.Status = GoalBehind
	default:
		res.Status = GoalOnTrack
	}
	return res
}

// DefaultExtraLimit bounds the search in RequiredExtra.
var DefaultExtraLimit = decimal.NewFromInt(50_000)

// ErrGoalUnreachable means no extra payment up to the limit meets the target.
var ErrGoalUnreachable = errors.New("goal unreachable")

// RequiredExtra finds the smallest monthly extra payment, to the cent, that
// makes req debt-free by target. A zero limit means DefaultExtraLimit.
func RequiredExtra(e *engine.Engine, req engine.Request, target time.Time, limit decimal.Decimal) (decimal.Decimal, error) {
	if !limit.IsPositive() {
		limit = DefaultExtraLimit
	}
	in, err := e.Normalize(req)
	if err != nil {
		return decimal.Zero, err
	}
	months := engine.MonthsBetween(in.StartDate, target)
	if months < 1 {
		return decimal.Zero, fmt.Errorf("%w: target %s is not after the start month", ErrGoalUnreachable, target.Format(engine.DateLayout))
	}
	req.MaxMonths = months

	meets := func(c int64) (bool, error) {
		plan, err := e.Simulate(req.WithExtra(decimal.New(c, -2)))
		if err != nil {
			return false, err
		}
		return !plan.Totals.Incomplete, nil
	}

	hi := limit.Shift(2).IntPart()
	ok, err := meets(hi)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: more than $%s a month extra needed", ErrGoalUnreachable, limit.StringFixed(2))
	}

	lo := int64(0)
	for lo < hi {
		mid := lo + (hi-lo)/2
		ok, err := meets(mid)
		if err != nil {
			return decimal.Zero, err
		}
		if ok {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return decimal.New(lo, -2), nil
}
