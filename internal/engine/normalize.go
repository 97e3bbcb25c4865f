package engine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
	cent    = decimal.New(1, -2)
)

// debtNamespace seeds deterministic IDs for debts that arrive without one.
var debtNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://payoff.dev/ns/debt"))

// Input is a normalized request, ready for simulation.
type Input struct {
	Debts        []model.Debt
	Strategy     model.Strategy
	ExtraMonthly decimal.Decimal
	OneTimeExtra decimal.Decimal
	StartDate    time.Time
	MaxMonths    int
	Warnings     []string
}

// NormalizeAPR converts an APR to a fraction in [0, 1]. Values above 1 are
// read as percentages and divided by 100. This is the only place that rule
// is applied.
func NormalizeAPR(apr decimal.Decimal) decimal.Decimal {
	if apr.IsNegative() {
		return zero
	}
	if apr.GreaterThan(one) {
		apr = apr.Div(hundred)
	}
	if apr.GreaterThan(one) {
		return one
	}
	return apr
}

// Money clamps a user-typed amount to zero and rounds it to cents.
func Money(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d.Round(2)
}

// DebtID returns the deterministic ID assigned to an unidentified debt at
// position index of its input list.
func DebtID(name string, index int) string {
	return uuid.NewSHA1(debtNamespace, []byte(strconv.Itoa(index)+":"+name)).String()
}

// NormalizeDebts cleans raw records into validated debts. Dropped records are
// described in the returned warnings.
func NormalizeDebts(raw []model.RawDebt, opts Options) ([]model.Debt, []string, error) {
	debts := make([]model.Debt, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	var warnings []string

	for i, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			warnings = append(warnings, fmt.Sprintf("skipped debt #%d: name is blank", i+1))
			continue
		}
		balance := Money(r.Balance)
		if !balance.IsPositive() {
			warnings = append(warnings, fmt.Sprintf("skipped %q: balance is zero", name))
			continue
		}
		minPay := Money(r.MinPayment)
		if opts.ExcludeZeroMinimum && !minPay.IsPositive() {
			warnings = append(warnings, fmt.Sprintf("skipped %q: minimum payment is zero", name))
			continue
		}

		id := strings.TrimSpace(r.ID)
		if id == "" {
			id = DebtID(name, i)
		}
		if _, dup := seen[id]; dup {
			return nil, nil, fmt.Errorf("%w: duplicate debt id %q", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}

		dueDay := r.DueDay
		if dueDay < 0 || dueDay > 31 {
			dueDay = 0
		}

		debts = append(debts, model.Debt{
			ID:         id,
			Name:       name,
			Last4:      strings.TrimSpace(r.Last4),
			Balance:    balance,
			APR:        NormalizeAPR(r.APR),
			MinPayment: minPay,
			DueDay:     dueDay,
		})
	}
	return debts, warnings, nil
}

// Normalize validates req. Any error wraps ErrInvalidInput.
func (e *Engine) Normalize(req Request) (*Input, error) {
	strategy := req.Strategy
	if strategy == "" {
		strategy = model.Snowball
	}
	if !strategy.Valid() {
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidInput, req.Strategy)
	}

	if req.MaxMonths < 0 {
		return nil, fmt.Errorf("%w: max_months must not be negative, got %d", ErrInvalidInput, req.MaxMonths)
	}
	maxMonths := req.MaxMonths
	if maxMonths == 0 {
		maxMonths = DefaultMaxMonths
	}

	var start time.Time
	if strings.TrimSpace(req.StartDate) == "" {
		start = dateOf(e.clock.Now())
	} else {
		var err error
		if start, err = ParseDate(req.StartDate); err != nil {
			return nil, err
		}
	}

	debts, warnings, err := NormalizeDebts(req.Debts, e.opts)
	if err != nil {
		return nil, err
	}
	if len(debts) == 0 {
		return nil, fmt.Errorf("%w: no debts with a name and a positive balance", ErrInvalidInput)
	}

	return &Input{
		Debts:        debts,
		Strategy:     strategy,
		ExtraMonthly: Money(req.ExtraMonthly),
		OneTimeExtra: Money(req.OneTimeExtra),
		StartDate:    start,
		MaxMonths:    maxMonths,
		Warnings:     warnings,
	}, nil
}
