package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var testStart = time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

func testEngine(opts Options) *Engine {
	return New(opts, FixedClock(testStart))
}

// exampleDebts is a $1200 card at 19.9% and an $800 interest-free loan.
func exampleDebts() []model.RawDebt {
	return []model.RawDebt{
		{ID: "card", Name: "Card", Balance: d("1200"), APR: d("0.199"), MinPayment: d("45")},
		{ID: "loan", Name: "Loan", Balance: d("800"), APR: d("0"), MinPayment: d("40")},
	}
}

func mustSimulate(t *testing.T, e *Engine, req Request) *model.PaymentPlan {
	t.Helper()
	plan, err := e.Simulate(req)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	return plan
}

func debtResult(t *testing.T, plan *model.PaymentPlan, id string) model.DebtResult {
	t.Helper()
	for _, r := range plan.Debts {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("debt %q not in plan", id)
	return model.DebtResult{}
}

func TestSimulate_ExampleSnowball(t *testing.T) {
	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{
		Debts:        exampleDebts(),
		Strategy:     model.Snowball,
		ExtraMonthly: d("100"),
	})

	if plan.Status != model.StatusComplete {
		t.Fatalf("Status = %s, want complete", plan.Status)
	}
	first := plan.Months[0]
	if first.TargetID != "loan" {
		t.Errorf("month 1 target = %q, want loan", first.TargetID)
	}
	if !first.Debts[1].Payment.Equal(d("140")) {
		t.Errorf("month 1 loan payment = %s, want 140", first.Debts[1].Payment)
	}
	if !first.Debts[0].Interest.Equal(d("19.90")) {
		t.Errorf("month 1 card interest = %s, want 19.90", first.Debts[0].Interest)
	}
	if !first.Debts[0].EndingBalance.Equal(d("1174.90")) {
		t.Errorf("month 1 card balance = %s, want 1174.90", first.Debts[0].EndingBalance)
	}

	loan := debtResult(t, plan, "loan")
	if loan.PayoffMonth != 6 {
		t.Errorf("loan PayoffMonth = %d, want 6", loan.PayoffMonth)
	}
	if !loan.TotalInterest.IsZero() {
		t.Errorf("loan TotalInterest = %s, want 0", loan.TotalInterest)
	}

	// The loan's $40 minimum joins the pool: 45 + 100 + 40.
	if got := plan.Months[6].Debts[0].Payment; !got.Equal(d("185")) {
		t.Errorf("month 7 card payment = %s, want 185", got)
	}

	card := debtResult(t, plan, "card")
	if card.PayoffMonth != 12 {
		t.Errorf("card PayoffMonth = %d, want 12", card.PayoffMonth)
	}
	if plan.Totals.MonthsToDebtFree != 12 {
		t.Errorf("MonthsToDebtFree = %d, want 12", plan.Totals.MonthsToDebtFree)
	}
	if !plan.Totals.TotalInterest.Equal(d("174.14")) {
		t.Errorf("TotalInterest = %s, want 174.14", plan.Totals.TotalInterest)
	}
	if !plan.Totals.TotalInterest.Equal(card.TotalInterest) {
		t.Errorf("TotalInterest %s should all come from the card (%s)", plan.Totals.TotalInterest, card.TotalInterest)
	}
	if !plan.Totals.TotalPaid.Equal(d("2174.14")) {
		t.Errorf("TotalPaid = %s, want 2174.14", plan.Totals.TotalPaid)
	}
	if plan.Totals.DebtFreeDate == nil || !plan.Totals.DebtFreeDate.Equal(time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("DebtFreeDate = %v, want 2027-01-15", plan.Totals.DebtFreeDate)
	}
}

func TestSimulate_OneTimeCascade(t *testing.T) {
	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{
		Debts:        exampleDebts(),
		Strategy:     model.Snowball,
		ExtraMonthly: d("100"),
		OneTimeExtra: d("500"),
	})

	loan := plan.Months[0].Debts[1]
	if !loan.OneTimePayment.Equal(d("500")) {
		t.Errorf("loan one-time = %s, want 500", loan.OneTimePayment)
	}
	if !loan.StartingBalance.Equal(d("300")) {
		t.Errorf("loan month 1 starting balance = %s, want 300", loan.StartingBalance)
	}
	if got := debtResult(t, plan, "loan"); got.PayoffMonth != 3 || !got.StartingBalance.Equal(d("300")) {
		t.Errorf("loan result = month %d from %s, want month 3 from 300", got.PayoffMonth, got.StartingBalance)
	}
	if !plan.Totals.OneTimeApplied.Equal(d("500")) {
		t.Errorf("OneTimeApplied = %s, want 500", plan.Totals.OneTimeApplied)
	}
	if plan.Totals.MonthsToDebtFree != 10 {
		t.Errorf("MonthsToDebtFree = %d, want 10", plan.Totals.MonthsToDebtFree)
	}
	if !plan.Totals.TotalInterest.Equal(d("129.30")) {
		t.Errorf("TotalInterest = %s, want 129.30", plan.Totals.TotalInterest)
	}
}

func TestSimulate_OneTimeOverflowCascades(t *testing.T) {
	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{
		Debts:        exampleDebts(),
		Strategy:     model.Snowball,
		OneTimeExtra: d("1000"),
	})

	m1 := plan.Months[0]
	if !m1.Debts[1].OneTimePayment.Equal(d("800")) || !m1.Debts[1].PaidOff {
		t.Errorf("loan should be cleared by the lump sum, got %+v", m1.Debts[1])
	}
	if !m1.Debts[0].OneTimePayment.Equal(d("200")) {
		t.Errorf("card one-time = %s, want 200", m1.Debts[0].OneTimePayment)
	}
	if !m1.Debts[0].StartingBalance.Equal(d("1000")) {
		t.Errorf("card starting balance = %s, want 1000", m1.Debts[0].StartingBalance)
	}
	if got := debtResult(t, plan, "loan").PayoffMonth; got != 1 {
		t.Errorf("loan PayoffMonth = %d, want 1", got)
	}
	// The cleared loan's minimum is in the pool from month 1.
	if !m1.ExtraPool.Equal(d("40")) {
		t.Errorf("month 1 pool = %s, want 40", m1.ExtraPool)
	}
	if !m1.Debts[0].Payment.Equal(d("85")) {
		t.Errorf("card month 1 payment = %s, want 85", m1.Debts[0].Payment)
	}
}

func TestSimulate_LumpSumClearsEverything(t *testing.T) {
	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{
		Debts:        exampleDebts(),
		OneTimeExtra: d("5000"),
	})
	if plan.Status != model.StatusComplete || plan.Totals.MonthsToDebtFree != 1 {
		t.Fatalf("got %s after %d months, want complete after 1", plan.Status, plan.Totals.MonthsToDebtFree)
	}
	if !plan.Totals.OneTimeApplied.Equal(d("2000")) {
		t.Errorf("OneTimeApplied = %s, want 2000", plan.Totals.OneTimeApplied)
	}
	if !plan.Totals.TotalPaid.Equal(d("2000")) {
		t.Errorf("TotalPaid = %s, want 2000", plan.Totals.TotalPaid)
	}
	if !plan.Totals.TotalInterest.IsZero() {
		t.Errorf("TotalInterest = %s, want 0", plan.Totals.TotalInterest)
	}
}

func TestSimulate_Deterministic(t *testing.T) {
	e := testEngine(DefaultOptions())
	req := Request{
		Debts:        exampleDebts(),
		Strategy:     model.Avalanche,
		ExtraMonthly: d("75.50"),
		OneTimeExtra: d("250"),
		StartDate:    "2026-03-31",
	}
	a, err := json.Marshal(mustSimulate(t, e, req))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(mustSimulate(t, e, req))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("two runs with identical input produced different JSON")
	}
}

func TestSimulate_SingleDebtStrategiesAgree(t *testing.T) {
	e := testEngine(DefaultOptions())
	debts := []model.RawDebt{{ID: "x", Name: "Auto", Balance: d("9400"), APR: d("6.9"), MinPayment: d("310")}}

	var want []byte
	for _, s := range model.Strategies {
		plan := mustSimulate(t, e, Request{Debts: debts, Strategy: s, ExtraMonthly: d("90")})
		plan.Strategy = ""
		got, err := json.Marshal(plan)
		if err != nil {
			t.Fatal(err)
		}
		if want == nil {
			want = got
			continue
		}
		if !bytes.Equal(got, want) {
			t.Errorf("%s schedule differs from %s", s, model.Strategies[0])
		}
	}
}

func TestSimulate_MinimumOnlyMatchesAmortization(t *testing.T) {
	tests := []struct {
		balance, apr, min string
		want              int
	}{
		{"1000", "0", "100", 10},
		{"1000", "0.12", "100", 11},
		{"5000", "0.18", "150", 47},
		{"2500", "24.99", "120", 0},
	}

	e := testEngine(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.balance+"@"+tt.apr, func(t *testing.T) {
			apr := NormalizeAPR(d(tt.apr))
			want, ok := AmortizationMonths(d(tt.balance), apr, d(tt.min))
			if !ok {
				t.Fatal("expected the debt to amortize")
			}
			if tt.want != 0 && want != tt.want {
				t.Fatalf("AmortizationMonths = %d, want %d", want, tt.want)
			}

			plan := mustSimulate(t, e, Request{Debts: []model.RawDebt{
				{Name: "only", Balance: d(tt.balance), APR: d(tt.apr), MinPayment: d(tt.min)},
			}})
			if got := plan.Debts[0].PayoffMonth; got != want {
				t.Errorf("simulated payoff month = %d, closed form = %d", got, want)
			}
		})
	}
}

func TestSimulate_FirstPayoffMatchesAmortization(t *testing.T) {
	// Without extra money the first debt to finish has had no help from
	// rollover, so it must match its own closed form.
	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{Debts: exampleDebts()})
	loan := debtResult(t, plan, "loan")
	want, _ := AmortizationMonths(d("800"), d("0"), d("40"))
	if loan.PayoffMonth != want {
		t.Errorf("loan PayoffMonth = %d, want %d", loan.PayoffMonth, want)
	}
	card := debtResult(t, plan, "card")
	alone, _ := AmortizationMonths(d("1200"), d("0.199"), d("45"))
	if card.PayoffMonth >= alone {
		t.Errorf("card PayoffMonth = %d, rollover should beat %d", card.PayoffMonth, alone)
	}
}

func TestSimulate_NonAmortizingFlagged(t *testing.T) {
	debts := []model.RawDebt{{ID: "store", Name: "Store card", Balance: d("1000"), APR: d("24"), MinPayment: d("10")}}

	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{Debts: debts, MaxMonths: 12})
	if !plan.Totals.Incomplete || plan.Status != model.StatusCappedIncomplete {
		t.Fatalf("expected a capped plan, got %s", plan.Status)
	}
	if plan.Totals.MonthsToDebtFree != 12 || len(plan.Months) != 12 {
		t.Errorf("months = %d/%d, want 12", plan.Totals.MonthsToDebtFree, len(plan.Months))
	}
	if !plan.Debts[0].NonAmortizing {
		t.Error("expected NonAmortizing")
	}
	if plan.Totals.DebtFreeDate != nil {
		t.Error("capped plan should have no debt-free date")
	}
	if len(plan.Warnings) < 2 {
		t.Errorf("warnings = %q, want non-amortizing and cap warnings", plan.Warnings)
	}
	// Covering interest holds the balance flat.
	if got := plan.Months[11].Debts[0].EndingBalance; !got.Equal(d("1000")) {
		t.Errorf("ending balance = %s, want 1000", got)
	}
}

func TestSimulate_InterestCapitalizesWithoutCover(t *testing.T) {
	opts := DefaultOptions()
	opts.CoverInterest = false
	plan := mustSimulate(t, testEngine(opts), Request{
		Debts:     []model.RawDebt{{Name: "Store card", Balance: d("1000"), APR: d("24"), MinPayment: d("10")}},
		MaxMonths: 2,
	})
	if got := plan.Months[0].Debts[0].EndingBalance; !got.Equal(d("1010")) {
		t.Errorf("month 1 balance = %s, want 1010", got)
	}
	if got := plan.Months[0].Debts[0].Principal; !got.Equal(d("-10")) {
		t.Errorf("month 1 principal = %s, want -10", got)
	}
}

func TestSimulate_CascadeSurplus(t *testing.T) {
	debts := []model.RawDebt{
		{ID: "small", Name: "Small", Balance: d("100"), APR: d("0"), MinPayment: d("10")},
		{ID: "big", Name: "Big", Balance: d("1000"), APR: d("0"), MinPayment: d("50")},
	}
	tests := []struct {
		cascade bool
		want    string
	}{
		{false, "950"},
		{true, "840"},
	}
	for _, tt := range tests {
		opts := DefaultOptions()
		opts.CascadeSurplus = tt.cascade
		plan := mustSimulate(t, testEngine(opts), Request{Debts: debts, ExtraMonthly: d("200")})
		if got := plan.Months[0].Debts[1].EndingBalance; !got.Equal(d(tt.want)) {
			t.Errorf("cascade=%v: big balance after month 1 = %s, want %s", tt.cascade, got, tt.want)
		}
	}
}

func TestSimulate_Conservation(t *testing.T) {
	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{
		Debts: []model.RawDebt{
			{Name: "A", Balance: d("4312.77"), APR: d("22.49"), MinPayment: d("129")},
			{Name: "B", Balance: d("918.02"), APR: d("0.0799"), MinPayment: d("35")},
			{Name: "C", Balance: d("15000"), APR: d("5.5"), MinPayment: d("286.40")},
		},
		Strategy:     model.Avalanche,
		ExtraMonthly: d("333.33"),
		OneTimeExtra: d("1234.56"),
	})
	for _, m := range plan.Months {
		if !m.TotalPrincipal.Add(m.TotalInterest).Equal(m.TotalPaid) {
			t.Fatalf("month %d: principal %s + interest %s != paid %s", m.Month, m.TotalPrincipal, m.TotalInterest, m.TotalPaid)
		}
	}
	var paid decimal.Decimal
	for _, r := range plan.Debts {
		paid = paid.Add(r.TotalPaid)
	}
	if !paid.Equal(plan.Totals.TotalPaid) {
		t.Errorf("sum of debt TotalPaid %s != Totals.TotalPaid %s", paid, plan.Totals.TotalPaid)
	}
	owed := d("4312.77").Add(d("918.02")).Add(d("15000"))
	if !plan.Totals.TotalPaid.Equal(owed.Add(plan.Totals.TotalInterest)) {
		t.Errorf("TotalPaid %s != balances %s + interest %s", plan.Totals.TotalPaid, owed, plan.Totals.TotalInterest)
	}
}

func TestSimulate_DefaultsAndStartDate(t *testing.T) {
	plan := mustSimulate(t, testEngine(DefaultOptions()), Request{Debts: exampleDebts()})
	if plan.Strategy != model.Snowball {
		t.Errorf("Strategy = %s, want snowball", plan.Strategy)
	}
	if plan.MaxMonths != DefaultMaxMonths {
		t.Errorf("MaxMonths = %d, want %d", plan.MaxMonths, DefaultMaxMonths)
	}
	if !plan.StartDate.Equal(testStart) {
		t.Errorf("StartDate = %v, want %v", plan.StartDate, testStart)
	}

	plan = mustSimulate(t, testEngine(DefaultOptions()), Request{
		Debts:        []model.RawDebt{{Name: "x", Balance: d("100"), MinPayment: d("100")}},
		StartDate:    "2026-01-31",
		ExtraMonthly: d("0"),
	})
	want := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	if got := plan.Debts[0].PayoffDate; got == nil || !got.Equal(want) {
		t.Errorf("PayoffDate = %v, want %v", got, want)
	}
}

func TestSimulate_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"no debts", Request{}},
		{"all filtered", Request{Debts: []model.RawDebt{{Name: " ", Balance: d("10"), MinPayment: d("1")}}}},
		{"negative cap", Request{Debts: exampleDebts(), MaxMonths: -1}},
		{"bad date", Request{Debts: exampleDebts(), StartDate: "15/01/2026"}},
		{"bad strategy", Request{Debts: exampleDebts(), Strategy: "random"}},
		{"duplicate id", Request{Debts: []model.RawDebt{
			{ID: "a", Name: "one", Balance: d("10"), MinPayment: d("1")},
			{ID: "a", Name: "two", Balance: d("20"), MinPayment: d("1")},
		}}},
	}
	e := testEngine(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Simulate(tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}
