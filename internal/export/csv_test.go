package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

func testPlan(t *testing.T) *model.PaymentPlan {
	t.Helper()
	e := engine.New(engine.DefaultOptions(), engine.FixedClock(time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)))
	plan, err := e.Simulate(engine.Request{
		Debts: []model.RawDebt{
			{ID: "card", Name: "Card, Visa", Balance: decimal.NewFromInt(1200), APR: decimal.RequireFromString("19.9"), MinPayment: decimal.NewFromInt(45)},
			{ID: "loan", Name: "Loan", Balance: decimal.NewFromInt(800), MinPayment: decimal.NewFromInt(40)},
		},
		ExtraMonthly: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatal(err)
	}
	return plan
}

func TestWriteCSV(t *testing.T) {
	plan := testPlan(t)
	var buf bytes.Buffer
	if err := WriteCSV(&buf, plan); err != nil {
		t.Fatal(err)
	}

	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1+len(plan.Months)*2 {
		t.Fatalf("got %d records, want %d", len(recs), 1+len(plan.Months)*2)
	}
	if strings.Join(recs[0], ",") != strings.Join(Header, ",") {
		t.Errorf("header = %v", recs[0])
	}
	want := []string{"1", "2026-02-15", "card", "Card, Visa", "false", "1200.00", "0.00", "19.90", "45.00", "25.10", "1174.90", "false"}
	if strings.Join(recs[1], "|") != strings.Join(want, "|") {
		t.Errorf("first row = %v\nwant        %v", recs[1], want)
	}
	if recs[2][4] != "true" || recs[2][8] != "140.00" {
		t.Errorf("loan row = %v, want targeted payment 140.00", recs[2])
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, testPlan(t)); err != nil {
		t.Fatal(err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	loan := recs[2]
	if loan[0] != "loan" || loan[5] != "6" || loan[6] != "2026-07-15" || loan[7] != "0.00" || loan[8] != "800.00" {
		t.Errorf("loan summary = %v", loan)
	}
}
