package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

// writeFile creates a temp debts file and returns its path.
func writeFile(t *testing.T, name string, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile_YAML(t *testing.T) {
	path := writeFile(t, "debts.yaml",
		"debts:",
		"  - name: Visa",
		"    last4: \"4242\"",
		"    balance: 1200",
		"    apr: 19.9",
		"    min_payment: 45",
		"    due_day: 12",
		"  - id: car",
		"    name: Car loan",
		"    balance: 800.50",
		"    apr: 0.049",
		"    min_payment: 40",
		"policy:",
		"  strategy: avalanche",
		"  extra_monthly: 150",
		"  target_date: \"2027-06-01\"",
	)

	res := ParseFile(path)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if len(res.Debts) != 2 {
		t.Fatalf("got %d debts, want 2", len(res.Debts))
	}
	visa := res.Debts[0]
	if visa.Name != "Visa" || visa.Last4 != "4242" || visa.DueDay != 12 {
		t.Errorf("Visa = %+v", visa)
	}
	if !visa.APR.Equal(decimal.RequireFromString("19.9")) {
		t.Errorf("APR = %s, want 19.9 (normalized later)", visa.APR)
	}
	if !res.Debts[1].Balance.Equal(decimal.RequireFromString("800.5")) || res.Debts[1].ID != "car" {
		t.Errorf("Car loan = %+v", res.Debts[1])
	}

	if res.Policy == nil {
		t.Fatal("policy missing")
	}
	if res.Policy.Strategy != model.Avalanche || !res.Policy.ExtraMonthly.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Policy = %+v", res.Policy)
	}
	if res.Policy.TargetDate != "2027-06-01" {
		t.Errorf("TargetDate = %q", res.Policy.TargetDate)
	}
}

func TestParseFile_JSONArray(t *testing.T) {
	path := writeFile(t, "debts.json",
		`[{"name":"Store card","balance":310.25,"apr":26.99,"min_payment":25},`,
		` {"name":"Medical","balance":1500,"apr":0,"min_payment":50}]`,
	)
	res := ParseFile(path)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if len(res.Debts) != 2 || res.Policy != nil {
		t.Errorf("got %d debts, policy %v; want 2 and none", len(res.Debts), res.Policy)
	}
}

func TestParseFile_JSONDocument(t *testing.T) {
	path := writeFile(t, "plan.json",
		`{"debts":[{"name":"Visa","balance":100,"apr":0.2,"min_payment":10}],`,
		` "policy":{"strategy":"highest-balance","one_time_extra":250}}`,
	)
	res := ParseFile(path)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.Policy == nil || res.Policy.Strategy != model.HighestBalance {
		t.Fatalf("Policy = %+v, want highest_balance", res.Policy)
	}
	if !res.Policy.OneTimeExtra.Equal(decimal.NewFromInt(250)) {
		t.Errorf("OneTimeExtra = %s, want 250", res.Policy.OneTimeExtra)
	}
}

func TestParseFile_ExactAmounts(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		lines []string
	}{
		{"yaml", "debts.yaml", []string{
			"debts:",
			"  - name: Card",
			"    balance: 1234.57",
			`    apr: "19.99"`,
			"    min_payment: 0.1",
			"policy:",
			"  extra_monthly: 33.33",
		}},
		{"json", "debts.json", []string{
			`{"debts":[{"name":"Card","balance":1234.57,"apr":"19.99","min_payment":0.1}],`,
			` "policy":{"extra_monthly":"33.33"}}`,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseFile(writeFile(t, tt.file, tt.lines...))
			if res.Err != nil {
				t.Fatal(res.Err)
			}
			debt := res.Debts[0]
			if got := debt.Balance.String(); got != "1234.57" {
				t.Errorf("Balance = %s, want 1234.57", got)
			}
			if got := debt.APR.String(); got != "19.99" {
				t.Errorf("APR = %s, want 19.99", got)
			}
			if got := debt.MinPayment.String(); got != "0.1" {
				t.Errorf("MinPayment = %s, want 0.1", got)
			}
			if res.Policy == nil || res.Policy.ExtraMonthly.String() != "33.33" {
				t.Errorf("Policy = %+v, want extra 33.33", res.Policy)
			}
		})
	}
}

func TestParseFile_JSONLSkipsBadLines(t *testing.T) {
	path := writeFile(t, "export.jsonl",
		`{"name":"A","balance":10,"apr":5,"min_payment":1}`,
		`not json`,
		``,
		`{"name":"B","balance":20,"apr":5,"min_payment":2}`,
	)
	res := ParseFile(path)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if len(res.Debts) != 2 {
		t.Errorf("got %d debts, want 2", len(res.Debts))
	}
	if res.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", res.ParseErrors)
	}
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		lines []string
	}{
		{"extension", "debts.txt", []string{"name: x"}},
		{"yaml syntax", "debts.yaml", []string{"debts: [unclosed"}},
		{"bad strategy", "debts.yaml", []string{"debts: []", "policy:", "  strategy: fastest"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := ParseFile(writeFile(t, tt.file, tt.lines...)); res.Err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.yaml":        "debts:\n  - name: A\n    balance: 10\n    min_payment: 1\npolicy:\n  strategy: avalanche\n",
		"nested/b.json": `[{"name":"B","balance":20,"min_payment":2}]`,
		"notes.md":      "# not debts",
		".hidden/c.yml": "debts:\n  - name: C\n    balance: 30\n",
	}
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	res, err := LoadAll(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Debts) != 2 || res.Debts[0].Name != "A" || res.Debts[1].Name != "B" {
		t.Errorf("Debts = %+v, want A then B", res.Debts)
	}
	if res.Policy == nil || res.Policy.Strategy != model.Avalanche {
		t.Errorf("Policy = %+v", res.Policy)
	}
}

func FuzzParseJSONL(f *testing.F) {
	f.Add(`{"name":"A","balance":10,"apr":5,"min_payment":1}`)
	f.Add(`{"name":`)
	f.Add("\n\n{}\n")
	f.Fuzz(func(t *testing.T, input string) {
		res := Parse(strings.NewReader(input), FormatJSONL)
		if res.ParseErrors < 0 {
			t.Fatal("negative parse errors")
		}
	})
}
