package advisor

import (
	"fmt"
	"sort"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

// Ranked is one strategy's plan within a recommendation.
type Ranked struct {
	Rank    int                   `json:"rank"`
	Summary model.StrategySummary `json:"summary"`
	Plan    *model.PaymentPlan    `json:"-"`
}

// Recommendation ranks every strategy for the same debts and payments.
type Recommendation struct {
	Best    model.Strategy `json:"best"`
	Reason  string         `json:"reason"`
	Ranking []Ranked       `json:"ranking"`
}

// CompareAll simulates every strategy concurrently and ranks them: plans
// that finish first, then by total interest, then by months. Remaining ties
// keep model.Strategies order.
func CompareAll(e *engine.Engine, req engine.Request) (*Recommendation, error) {
	reqs := make([]engine.Request, len(model.Strategies))
	for i, s := range model.Strategies {
		reqs[i] = req.WithStrategy(s)
	}

	ranking := make([]Ranked, 0, len(reqs))
	for i, o := range simulateAll(e, reqs) {
		if o.err != nil {
			return nil, fmt.Errorf("simulating %s: %w", model.Strategies[i], o.err)
		}
		ranking = append(ranking, Ranked{Summary: engine.Summarize(o.plan), Plan: o.plan})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		a, b := ranking[i].Summary, ranking[j].Summary
		if a.Incomplete != b.Incomplete {
			return !a.Incomplete
		}
		if c := a.TotalInterest.Cmp(b.TotalInterest); c != 0 {
			return c < 0
		}
		return a.MonthsToDebtFree < b.MonthsToDebtFree
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	return &Recommendation{
		Best:    ranking[0].Summary.Strategy,
		Reason:  reason(ranking),
		Ranking: ranking,
	}, nil
}

func reason(ranking []Ranked) string {
	best := ranking[0].Summary
	worst := ranking[len(ranking)-1].Summary
	if best.Incomplete {
		return fmt.Sprintf("No strategy clears these debts within %d months; raise the monthly payment.", best.MonthsToDebtFree)
	}
	saved := worst.TotalInterest.Sub(best.TotalInterest)
	months := worst.MonthsToDebtFree - best.MonthsToDebtFree
	switch {
	case worst.Incomplete:
		return fmt.Sprintf("%s is the only strategy that finishes, in %d months.", best.Strategy.Label(), best.MonthsToDebtFree)
	case saved.IsZero() && months == 0:
		return "All strategies cost the same here; pick the one that keeps you motivated."
	case months > 0:
		return fmt.Sprintf("%s saves $%s in interest and finishes %d months sooner than %s.",
			best.Strategy.Label(), saved.StringFixed(2), months, worst.Strategy.Label())
	}
	return fmt.Sprintf("%s saves $%s in interest over %s.", best.Strategy.Label(), saved.StringFixed(2), worst.Strategy.Label())
}

// DefaultIncrements are the extra monthly amounts tried by WhatIf.
var DefaultIncrements = []decimal.Decimal{
	decimal.Zero,
	decimal.NewFromInt(50),
	decimal.NewFromInt(100),
	decimal.NewFromInt(250),
}

// Scenario is the outcome of paying Additional more each month.
type Scenario struct {
	Additional    decimal.Decimal       `json:"additional"`
	ExtraMonthly  decimal.Decimal       `json:"extra_monthly"`
	Summary       model.StrategySummary `json:"summary"`
	MonthsSaved   int                   `json:"months_saved"`
	InterestSaved decimal.Decimal       `json:"interest_saved"`
}

// WhatIf runs req once per increment on top of its extra payment and reports
// savings against req itself. Nil increments means DefaultIncrements.
func WhatIf(e *engine.Engine, req engine.Request, increments []decimal.Decimal) ([]Scenario, error) {
	if increments == nil {
		increments = DefaultIncrements
	}
	reqs := make([]engine.Request, 0, len(increments)+1)
	reqs = append(reqs, req)
	for _, inc := range increments {
		reqs = append(reqs, req.WithExtra(req.ExtraMonthly.Add(inc)))
	}

	results := simulateAll(e, reqs)
	for _, o := range results {
		if o.err != nil {
			return nil, o.err
		}
	}

	base := engine.Summarize(results[0].plan)
	scenarios := make([]Scenario, len(increments))
	for i, inc := range increments {
		plan := results[i+1].plan
		sum := engine.Summarize(plan)
		scenarios[i] = Scenario{
			Additional:    inc,
			ExtraMonthly:  plan.ExtraMonthly,
			Summary:       sum,
			MonthsSaved:   base.MonthsToDebtFree - sum.MonthsToDebtFree,
			InterestSaved: base.TotalInterest.Sub(sum.TotalInterest),
		}
	}
	return scenarios, nil
}
