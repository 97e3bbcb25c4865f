package advisor

import (
	"errors"
	"testing"
	"time"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var start = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func testEngine() *engine.Engine {
	return engine.New(engine.DefaultOptions(), engine.FixedClock(start))
}

func exampleRequest() engine.Request {
	return engine.Request{
		Debts: []model.RawDebt{
			{ID: "card", Name: "Card", Balance: d("1200"), APR: d("19.9"), MinPayment: d("45")},
			{ID: "loan", Name: "Loan", Balance: d("800"), APR: d("0"), MinPayment: d("40")},
		},
		ExtraMonthly: d("100"),
	}
}

func singleDebt() engine.Request {
	return engine.Request{
		Debts: []model.RawDebt{{Name: "Loan", Balance: d("1000"), MinPayment: d("100")}},
	}
}

func TestCompareAll(t *testing.T) {
	rec, err := CompareAll(testEngine(), exampleRequest())
	if err != nil {
		t.Fatal(err)
	}
	want := []model.Strategy{model.Avalanche, model.HighestBalance, model.Snowball}
	if len(rec.Ranking) != len(want) {
		t.Fatalf("got %d ranked strategies, want %d", len(rec.Ranking), len(want))
	}
	for i, s := range want {
		if got := rec.Ranking[i].Summary.Strategy; got != s {
			t.Errorf("rank %d = %s, want %s", i+1, got, s)
		}
		if rec.Ranking[i].Rank != i+1 {
			t.Errorf("Rank = %d, want %d", rec.Ranking[i].Rank, i+1)
		}
	}
	if rec.Best != model.Avalanche {
		t.Errorf("Best = %s, want avalanche", rec.Best)
	}
	if rec.Reason != "Avalanche saves $72.67 in interest over Snowball." {
		t.Errorf("Reason = %q", rec.Reason)
	}
}

func TestCompareAll_PropagatesInvalidInput(t *testing.T) {
	_, err := CompareAll(testEngine(), engine.Request{})
	if !errors.Is(err, engine.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestWhatIf(t *testing.T) {
	scenarios, err := WhatIf(testEngine(), singleDebt(), []decimal.Decimal{d("0"), d("100"), d("400")})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		months, saved int
	}{
		{10, 0},
		{5, 5},
		{2, 8},
	}
	for i, tt := range tests {
		s := scenarios[i]
		if s.Summary.MonthsToDebtFree != tt.months || s.MonthsSaved != tt.saved {
			t.Errorf("scenario %d: %d months (%d saved), want %d (%d saved)",
				i, s.Summary.MonthsToDebtFree, s.MonthsSaved, tt.months, tt.saved)
		}
	}
	if !scenarios[1].ExtraMonthly.Equal(d("100")) {
		t.Errorf("ExtraMonthly = %s, want 100", scenarios[1].ExtraMonthly)
	}
}

func TestWhatIf_DefaultIncrements(t *testing.T) {
	scenarios, err := WhatIf(testEngine(), exampleRequest(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(scenarios) != len(DefaultIncrements) {
		t.Fatalf("got %d scenarios, want %d", len(scenarios), len(DefaultIncrements))
	}
	for i := 1; i < len(scenarios); i++ {
		if scenarios[i].InterestSaved.LessThan(scenarios[i-1].InterestSaved) {
			t.Errorf("paying more saved less interest at scenario %d", i)
		}
	}
}

func TestEvaluateGoal(t *testing.T) {
	plan, err := testEngine().Simulate(exampleRequest()) // debt-free 2027-01-15
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		target time.Time
		status GoalStatus
		ahead  int
	}{
		{time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC), GoalAhead, 2},
		{time.Date(2027, 1, 31, 0, 0, 0, 0, time.UTC), GoalOnTrack, 0},
		{time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), GoalBehind, -3},
	}
	for _, tt := range tests {
		got := EvaluateGoal(plan, tt.target)
		if got.Status != tt.status || got.MonthsAhead != tt.ahead {
			t.Errorf("target %s: %s/%d, want %s/%d", tt.target.Format(engine.DateLayout), got.Status, got.MonthsAhead, tt.status, tt.ahead)
		}
	}

	capped := &model.PaymentPlan{Totals: model.Totals{Incomplete: true}}
	if got := EvaluateGoal(capped, start); got.Status != GoalNever {
		t.Errorf("capped plan status = %s, want never", got.Status)
	}
}

func TestRequiredExtra(t *testing.T) {
	tests := []struct {
		months int
		want   string
	}{
		{10, "0"},
		{5, "100"},
		{4, "150"},
		{3, "233.34"},
	}
	for _, tt := range tests {
		target := engine.AddMonths(start, tt.months)
		got, err := RequiredExtra(testEngine(), singleDebt(), target, decimal.Zero)
		if err != nil {
			t.Fatalf("%d months: %v", tt.months, err)
		}
		if !got.Equal(d(tt.want)) {
			t.Errorf("%d months: extra = %s, want %s", tt.months, got, tt.want)
		}
	}
}

func TestRequiredExtra_Unreachable(t *testing.T) {
	_, err := RequiredExtra(testEngine(), singleDebt(), start, decimal.Zero)
	if !errors.Is(err, ErrGoalUnreachable) {
		t.Errorf("same-month target: err = %v, want ErrGoalUnreachable", err)
	}
	_, err = RequiredExtra(testEngine(), singleDebt(), engine.AddMonths(start, 1), d("50"))
	if !errors.Is(err, ErrGoalUnreachable) {
		t.Errorf("low limit: err = %v, want ErrGoalUnreachable", err)
	}
}
