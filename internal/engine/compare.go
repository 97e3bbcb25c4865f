package engine

import (
	"fmt"

	"github.com/payoffhq/payoff/internal/model"
)

// Summarize extracts the headline numbers of a plan.
func Summarize(plan *model.PaymentPlan) model.StrategySummary {
	return model.StrategySummary{
		Strategy:         plan.Strategy,
		MonthsToDebtFree: plan.Totals.MonthsToDebtFree,
		TotalInterest:    plan.Totals.TotalInterest,
		TotalPaid:        plan.Totals.TotalPaid,
		Incomplete:       plan.Totals.Incomplete,
	}
}

// Compare runs req under strategies a and b with otherwise identical inputs.
func (e *Engine) Compare(req Request, a, b model.Strategy) (*model.Comparison, error) {
	for _, s := range []model.Strategy{a, b} {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, s)
		}
	}
	in, err := e.Normalize(req.WithStrategy(a))
	if err != nil {
		return nil, err
	}
	ina, inb := *in, *in
	inb.Strategy = b
	pa, err := e.run(&ina)
	if err != nil {
		return nil, err
	}
	pb, err := e.run(&inb)
	if err != nil {
		return nil, err
	}
	return ComparePlans(pa, pb), nil
}

// ComparePlans diffs two plans. Ties are reported as model.Both. A plan that
// finishes beats one that hits the month cap on both counts, since the capped
// plan's interest is understated.
func ComparePlans(pa, pb *model.PaymentPlan) *model.Comparison {
	a, b := Summarize(pa), Summarize(pb)
	c := &model.Comparison{A: a, B: b}

	switch {
	case a.Incomplete != b.Incomplete:
		winner := string(a.Strategy)
		if a.Incomplete {
			winner = string(b.Strategy)
		}
		c.Faster, c.LessInterest = winner, winner
	default:
		c.Faster = pick(a.Strategy, b.Strategy, b.MonthsToDebtFree-a.MonthsToDebtFree)
		c.LessInterest = pick(a.Strategy, b.Strategy, b.TotalInterest.Cmp(a.TotalInterest))
	}

	c.MonthsSaved = a.MonthsToDebtFree - b.MonthsToDebtFree
	if c.MonthsSaved < 0 {
		c.MonthsSaved = -c.MonthsSaved
	}
	c.InterestSaved = a.TotalInterest.Sub(b.TotalInterest).Abs()
	return c
}

// pick returns a when diff > 0, b when diff < 0, and Both on a tie.
func pick(a, b model.Strategy, diff int) string {
	switch {
	case diff > 0:
		return string(a)
	case diff < 0:
		return string(b)
	}
	return model.Both
}
