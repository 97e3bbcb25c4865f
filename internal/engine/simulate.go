package engine

import (
	"fmt"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

// ledger is the mutable state of one run. It never escapes run.
type ledger struct {
	in       *Input
	opts     Options
	balance  []decimal.Decimal
	oneTime  []decimal.Decimal
	interest []decimal.Decimal // cumulative
	paid     []decimal.Decimal // cumulative, monthly payments only
	payoff   []int
	pool     decimal.Decimal
	months   []model.MonthSnapshot
}

func newLedger(in *Input, opts Options) *ledger {
	n := len(in.Debts)
	l := &ledger{
		in:       in,
		opts:     opts,
		balance:  make([]decimal.Decimal, n),
		oneTime:  make([]decimal.Decimal, n),
		interest: make([]decimal.Decimal, n),
		paid:     make([]decimal.Decimal, n),
		payoff:   make([]int, n),
		pool:     in.ExtraMonthly,
	}
	for i, d := range in.Debts {
		l.balance[i] = d.Balance
		l.oneTime[i] = zero
		l.interest[i] = zero
		l.paid[i] = zero
	}
	return l
}

// MonthlyInterest is one month of simple interest on balance, in cents.
func MonthlyInterest(balance, apr decimal.Decimal) decimal.Decimal {
	if !balance.IsPositive() || !apr.IsPositive() {
		return zero
	}
	return balance.Mul(apr).Div(twelve).Round(2)
}

// cascade applies the one-time payment in strategy order before any interest
// accrues. Debts it clears are paid off in month 1 and release their minimum
// into the pool straight away.
func (l *ledger) cascade() decimal.Decimal {
	left := l.in.OneTimeExtra
	applied := zero
	if !left.IsPositive() {
		return applied
	}
	for _, i := range Order(l.in.Debts, l.balance, l.in.Strategy) {
		if !left.IsPositive() {
			break
		}
		amt := decimal.Min(left, l.balance[i])
		l.balance[i] = l.balance[i].Sub(amt)
		l.oneTime[i] = amt
		left = left.Sub(amt)
		applied = applied.Add(amt)
		if !l.balance[i].IsPositive() {
			l.balance[i] = zero
			l.payoff[i] = 1
			l.pool = l.pool.Add(l.in.Debts[i].MinPayment)
		}
	}
	return applied
}

// step simulates month m and appends its snapshot.
func (l *ledger) step(m int) error {
	debts := l.in.Debts
	n := len(debts)

	snap := model.MonthSnapshot{
		Month:          m,
		Date:           AddMonths(l.in.StartDate, m),
		ExtraPool:      l.pool,
		Debts:          make([]model.DebtMonth, n),
		TotalPaid:      zero,
		TotalInterest:  zero,
		TotalPrincipal: zero,
		TotalOneTime:   zero,
		TotalRemaining: zero,
	}

	interest := make([]decimal.Decimal, n)
	for i, d := range debts {
		interest[i] = MonthlyInterest(l.balance[i], d.APR)
		snap.Debts[i] = model.DebtMonth{
			DebtID:          d.ID,
			StartingBalance: l.balance[i],
			OneTimePayment:  zero,
			Interest:        interest[i],
			Payment:         zero,
			Principal:       zero,
			EndingBalance:   l.balance[i],
		}
		if m == 1 {
			snap.Debts[i].OneTimePayment = l.oneTime[i]
			snap.TotalOneTime = snap.TotalOneTime.Add(l.oneTime[i])
			snap.Debts[i].PaidOff = l.payoff[i] == 1
		}
	}

	order := Order(debts, l.balance, l.in.Strategy)
	pool := l.pool
	spill := zero
	for k, i := range order {
		d := debts[i]
		budget := d.MinPayment
		if k == 0 {
			budget = budget.Add(pool)
			snap.TargetID = d.ID
			snap.Debts[i].Targeted = true
		} else if l.opts.CascadeSurplus {
			budget = budget.Add(spill)
		}

		want := budget
		if l.opts.CoverInterest && want.LessThan(interest[i]) {
			want = interest[i]
		}
		owed := l.balance[i].Add(interest[i])
		actual := decimal.Min(want, owed)
		if l.opts.CascadeSurplus {
			spill = decimal.Max(zero, budget.Sub(actual))
		}

		principal := actual.Sub(interest[i])
		next := l.balance[i].Sub(principal)
		if next.LessThan(cent.Neg()) {
			return fmt.Errorf("%w: month %d: %s balance would be %s", ErrNumericAnomaly, m, d.ID, next)
		}
		if next.LessThan(cent) {
			next = zero
		}

		l.balance[i] = next
		l.interest[i] = l.interest[i].Add(interest[i])
		l.paid[i] = l.paid[i].Add(actual)

		row := &snap.Debts[i]
		row.Payment = actual
		row.Principal = principal
		row.EndingBalance = next
		if next.IsZero() && l.payoff[i] == 0 {
			l.payoff[i] = m
			l.pool = l.pool.Add(d.MinPayment)
			row.PaidOff = true
		}
	}

	for i := range snap.Debts {
		row := snap.Debts[i]
		snap.TotalPaid = snap.TotalPaid.Add(row.Payment)
		snap.TotalInterest = snap.TotalInterest.Add(row.Interest)
		snap.TotalPrincipal = snap.TotalPrincipal.Add(row.Principal)
		snap.TotalRemaining = snap.TotalRemaining.Add(row.EndingBalance)
	}
	l.months = append(l.months, snap)
	return nil
}

func (l *ledger) remaining() decimal.Decimal {
	sum := zero
	for _, b := range l.balance {
		sum = sum.Add(b)
	}
	return sum
}

// run drives the ledger through Simulating(1..N) to Complete or
// CappedIncomplete.
func (e *Engine) run(in *Input) (*model.PaymentPlan, error) {
	l := newLedger(in, e.opts)
	applied := l.cascade()
	startBalance := make([]decimal.Decimal, len(l.balance))
	copy(startBalance, l.balance)

	status := model.StatusCappedIncomplete
	for m := 1; m <= in.MaxMonths; m++ {
		if err := l.step(m); err != nil {
			return nil, err
		}
		if l.remaining().LessThan(cent) {
			status = model.StatusComplete
			break
		}
	}
	return report(in, l, startBalance, applied, status), nil
}
