package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "sub", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func TestDebtsCRUD(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	visa := model.RawDebt{Name: "Visa", Last4: "4242", Balance: d("1200.55"), APR: d("19.9"), MinPayment: d("45"), DueDay: 12}
	id, err := s.PutDebt(ctx, "alice", visa)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Fatal("PutDebt returned an empty id")
	}
	if _, err := s.PutDebt(ctx, "alice", model.RawDebt{ID: "car", Name: "Car", Balance: d("800"), MinPayment: d("40")}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.PutDebt(ctx, "bob", model.RawDebt{Name: "Loan", Balance: d("5"), MinPayment: d("1")}); err != nil {
		t.Fatal(err)
	}

	debts, err := s.ListDebts(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(debts) != 2 || debts[0].Name != "Visa" || debts[1].ID != "car" {
		t.Fatalf("debts = %+v, want Visa then car", debts)
	}
	got := debts[0]
	if !got.Balance.Equal(visa.Balance) || !got.APR.Equal(visa.APR) || got.Last4 != "4242" || got.DueDay != 12 {
		t.Errorf("round trip = %+v, want %+v", got, visa)
	}

	// Updating keeps the position.
	got.Balance = d("1100")
	if _, err := s.PutDebt(ctx, "alice", got); err != nil {
		t.Fatal(err)
	}
	debts, _ = s.ListDebts(ctx, "alice")
	if debts[0].ID != id || !debts[0].Balance.Equal(d("1100")) {
		t.Errorf("after update debts[0] = %+v", debts[0])
	}

	ok, err := s.DeleteDebt(ctx, "alice", "car")
	if err != nil || !ok {
		t.Fatalf("DeleteDebt = %v, %v", ok, err)
	}
	if ok, _ := s.DeleteDebt(ctx, "alice", "car"); ok {
		t.Error("second delete reported success")
	}

	users, err := s.Users(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0] != "alice" || users[1] != "bob" {
		t.Errorf("Users = %v", users)
	}
}

func TestPutDebt_RequiresName(t *testing.T) {
	if _, err := openTest(t).PutDebt(context.Background(), "alice", model.RawDebt{Name: "  "}); err == nil {
		t.Error("expected an error for a blank name")
	}
}

func TestReplaceDebts(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	if _, err := s.PutDebt(ctx, "alice", model.RawDebt{Name: "Old", Balance: d("1")}); err != nil {
		t.Fatal(err)
	}
	err := s.ReplaceDebts(ctx, "alice", []model.RawDebt{
		{Name: "B", Balance: d("2")},
		{ID: "a", Name: "A", Balance: d("1")},
	})
	if err != nil {
		t.Fatal(err)
	}
	debts, _ := s.ListDebts(ctx, "alice")
	if len(debts) != 2 || debts[0].Name != "B" || debts[1].Name != "A" {
		t.Errorf("debts = %+v, want B then A", debts)
	}
}

func TestPolicy(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	if _, ok, err := s.GetPolicy(ctx, "alice"); ok || err != nil {
		t.Fatalf("GetPolicy on empty db = %v, %v", ok, err)
	}
	want := model.Policy{Strategy: model.Avalanche, ExtraMonthly: d("150.25"), OneTimeExtra: d("1000"), TargetDate: "2027-06-01"}
	if err := s.SavePolicy(ctx, "alice", want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.GetPolicy(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("GetPolicy = %v, %v", ok, err)
	}
	if got.Strategy != want.Strategy || !got.ExtraMonthly.Equal(want.ExtraMonthly) || got.TargetDate != want.TargetDate {
		t.Errorf("policy = %+v, want %+v", got, want)
	}
}

func testPlan() *model.PaymentPlan {
	free := time.Date(2027, 1, 15, 0, 0, 0, 0, time.UTC)
	return &model.PaymentPlan{
		Strategy:  model.Snowball,
		StartDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:    model.StatusComplete,
		Totals:    model.Totals{MonthsToDebtFree: 12, DebtFreeDate: &free, TotalInterest: d("174.14")},
	}
}

func TestSQLiteCache(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	c := s.PlanCache(time.Hour)

	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Fatalf("empty cache Get = %v, %v", ok, err)
	}
	if err := c.Put(ctx, "k", testPlan()); err != nil {
		t.Fatal(err)
	}
	plan, ok, err := c.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if plan.Totals.MonthsToDebtFree != 12 || !plan.Totals.TotalInterest.Equal(d("174.14")) {
		t.Errorf("cached plan totals = %+v", plan.Totals)
	}

	now = now.Add(2 * time.Hour)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("expired entry was a hit")
	}
	n, err := c.Prune(ctx)
	if err != nil || n != 1 {
		t.Errorf("Prune = %d, %v; want 1", n, err)
	}
	if count, _ := c.Count(ctx); count != 0 {
		t.Errorf("Count after prune = %d", count)
	}
}

func TestNoopCache(t *testing.T) {
	var c PlanCache = NoopCache{}
	if err := c.Put(context.Background(), "k", testPlan()); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(context.Background(), "k"); ok {
		t.Error("NoopCache hit")
	}
}

func TestRedisCache_Unreachable(t *testing.T) {
	c := NewRedisCache("127.0.0.1:1", time.Minute)
	defer func() { _ = c.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, _, err := c.Get(ctx, "k"); err == nil {
		t.Error("expected an error from an unreachable server")
	}
	if got := RedisKey("abc"); got != "payoff:plan:abc" {
		t.Errorf("RedisKey = %q", got)
	}
}
