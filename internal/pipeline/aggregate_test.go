package pipeline

import (
	"testing"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
)

func examplePlan(t *testing.T) *model.PaymentPlan {
	t.Helper()
	plan, err := engine.New(engine.DefaultOptions(), engine.FixedClock(start)).Simulate(engine.Request{
		Debts:        exampleDebts(),
		ExtraMonthly: d("100"),
	})
	if err != nil {
		t.Fatal(err)
	}
	return plan
}

func TestSummarizeDebts(t *testing.T) {
	debts, _, err := engine.NormalizeDebts(exampleDebts(), engine.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	s := SummarizeDebts(debts)
	if s.Count != 2 || !s.TotalBalance.Equal(d("2000")) || !s.TotalMinimum.Equal(d("85")) {
		t.Errorf("summary = %+v", s)
	}
	// 1200 * 0.199 / 2000
	if !s.WeightedAPR.Equal(d("0.1194")) {
		t.Errorf("WeightedAPR = %s, want 0.1194", s.WeightedAPR)
	}
	if !s.HighestAPR.Equal(d("0.199")) || !s.MonthlyAccrual.Equal(d("19.90")) {
		t.Errorf("HighestAPR = %s, MonthlyAccrual = %s", s.HighestAPR, s.MonthlyAccrual)
	}
}

func TestAggregateYears(t *testing.T) {
	plan := examplePlan(t) // months dated 2026-02-15 .. 2027-01-15
	years := AggregateYears(plan)
	if len(years) != 2 {
		t.Fatalf("got %d years, want 2", len(years))
	}
	if years[0].Year != 2026 || years[0].Months != 11 || years[1].Months != 1 {
		t.Errorf("years = %+v", years)
	}
	total := years[0].Paid.Add(years[1].Paid)
	if !total.Equal(plan.Totals.TotalPaid) {
		t.Errorf("yearly paid %s != plan total %s", total, plan.Totals.TotalPaid)
	}
	if years[0].DebtsPaidOff != 1 || years[1].DebtsPaidOff != 1 {
		t.Errorf("payoffs per year = %d, %d", years[0].DebtsPaidOff, years[1].DebtsPaidOff)
	}
	if !years[1].EndingBalance.IsZero() {
		t.Errorf("final balance = %s", years[1].EndingBalance)
	}
}

func TestBalanceSeriesAndPayoffOrder(t *testing.T) {
	plan := examplePlan(t)
	series := BalanceSeries(plan)
	if len(series) != len(plan.Months)+1 || series[0] != 2000 || series[len(series)-1] != 0 {
		t.Errorf("series = %v", series)
	}

	order := PayoffOrder(plan)
	if order[0].ID != "loan" || order[1].ID != "card" {
		t.Errorf("payoff order = %s, %s", order[0].ID, order[1].ID)
	}
	if plan.Debts[0].ID != "card" {
		t.Error("PayoffOrder mutated the plan")
	}
}
