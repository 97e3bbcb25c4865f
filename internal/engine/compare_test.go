package engine

import (
	"errors"
	"testing"

	"github.com/payoffhq/payoff/internal/model"
)

func TestCompare_SnowballVsAvalanche(t *testing.T) {
	c, err := testEngine(DefaultOptions()).Compare(Request{
		Debts:        exampleDebts(),
		ExtraMonthly: d("100"),
	}, model.Snowball, model.Avalanche)
	if err != nil {
		t.Fatal(err)
	}

	if c.A.Strategy != model.Snowball || c.B.Strategy != model.Avalanche {
		t.Fatalf("sides = %s/%s", c.A.Strategy, c.B.Strategy)
	}
	if c.Faster != model.Both {
		t.Errorf("Faster = %q, want both (12 months each)", c.Faster)
	}
	if c.LessInterest != string(model.Avalanche) {
		t.Errorf("LessInterest = %q, want avalanche", c.LessInterest)
	}
	if !c.B.TotalInterest.Equal(d("101.47")) {
		t.Errorf("avalanche interest = %s, want 101.47", c.B.TotalInterest)
	}
	if !c.InterestSaved.Equal(d("72.67")) {
		t.Errorf("InterestSaved = %s, want 72.67", c.InterestSaved)
	}
	if c.MonthsSaved != 0 {
		t.Errorf("MonthsSaved = %d, want 0", c.MonthsSaved)
	}
}

func TestCompare_SameStrategyTies(t *testing.T) {
	c, err := testEngine(DefaultOptions()).Compare(Request{Debts: exampleDebts()}, model.Snowball, model.Snowball)
	if err != nil {
		t.Fatal(err)
	}
	if c.Faster != model.Both || c.LessInterest != model.Both {
		t.Errorf("got %q/%q, want both/both", c.Faster, c.LessInterest)
	}
}

func TestCompare_IgnoresRequestStrategy(t *testing.T) {
	req := Request{Debts: exampleDebts(), Strategy: "bogus"}
	if _, err := testEngine(DefaultOptions()).Compare(req, model.Snowball, model.HighestBalance); err != nil {
		t.Errorf("Compare: %v", err)
	}
	if _, err := testEngine(DefaultOptions()).Compare(req, model.Snowball, "bogus"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestComparePlans_CompletedBeatsCapped(t *testing.T) {
	done := &model.PaymentPlan{Strategy: model.Snowball, Totals: model.Totals{MonthsToDebtFree: 60, TotalInterest: d("900")}}
	capped := &model.PaymentPlan{Strategy: model.Avalanche, Totals: model.Totals{MonthsToDebtFree: 60, TotalInterest: d("400"), Incomplete: true}}

	c := ComparePlans(capped, done)
	if c.Faster != string(model.Snowball) || c.LessInterest != string(model.Snowball) {
		t.Errorf("got %q/%q, want snowball on both", c.Faster, c.LessInterest)
	}
}
