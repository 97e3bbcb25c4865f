package pipeline

import (
	"sort"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

// DebtSummary describes a set of debts before any plan is applied.
type DebtSummary struct {
	Count          int
	TotalBalance   decimal.Decimal
	TotalMinimum   decimal.Decimal
	WeightedAPR    decimal.Decimal // balance-weighted
	HighestAPR     decimal.Decimal
	MonthlyAccrual decimal.Decimal // interest the balances earn in one month
	NonAmortizing  int
}

// SummarizeDebts computes portfolio totals for normalized debts.
func SummarizeDebts(debts []model.Debt) DebtSummary {
	s := DebtSummary{
		TotalBalance:   decimal.Zero,
		TotalMinimum:   decimal.Zero,
		WeightedAPR:    decimal.Zero,
		HighestAPR:     decimal.Zero,
		MonthlyAccrual: decimal.Zero,
	}
	weighted := decimal.Zero
	for _, d := range debts {
		s.Count++
		s.TotalBalance = s.TotalBalance.Add(d.Balance)
		s.TotalMinimum = s.TotalMinimum.Add(d.MinPayment)
		s.MonthlyAccrual = s.MonthlyAccrual.Add(engine.MonthlyInterest(d.Balance, d.APR))
		weighted = weighted.Add(d.Balance.Mul(d.APR))
		if d.APR.GreaterThan(s.HighestAPR) {
			s.HighestAPR = d.APR
		}
		if engine.NonAmortizing(d.Balance, d.APR, d.MinPayment) {
			s.NonAmortizing++
		}
	}
	if s.TotalBalance.IsPositive() {
		s.WeightedAPR = weighted.Div(s.TotalBalance).Round(4)
	}
	return s
}

// YearStats folds one calendar year of a plan.
type YearStats struct {
	Year          int
	Months        int
	Paid          decimal.Decimal // includes any one-time payment
	Interest      decimal.Decimal
	Principal     decimal.Decimal
	EndingBalance decimal.Decimal
	DebtsPaidOff  int
}

// AggregateYears groups a plan's months by calendar year, oldest first.
func AggregateYears(plan *model.PaymentPlan) []YearStats {
	byYear := make(map[int]*YearStats)
	for _, m := range plan.Months {
		y := m.Date.Year()
		ys, ok := byYear[y]
		if !ok {
			ys = &YearStats{Year: y, Paid: decimal.Zero, Interest: decimal.Zero, Principal: decimal.Zero}
			byYear[y] = ys
		}
		ys.Months++
		ys.Paid = ys.Paid.Add(m.TotalPaid).Add(m.TotalOneTime)
		ys.Interest = ys.Interest.Add(m.TotalInterest)
		ys.Principal = ys.Principal.Add(m.TotalPrincipal).Add(m.TotalOneTime)
		ys.EndingBalance = m.TotalRemaining
		for _, dm := range m.Debts {
			if dm.PaidOff {
				ys.DebtsPaidOff++
			}
		}
	}

	years := make([]YearStats, 0, len(byYear))
	for _, ys := range byYear {
		years = append(years, *ys)
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}

// BalanceSeries returns the total owed before month 1 followed by the total
// remaining after each month, for charts.
func BalanceSeries(plan *model.PaymentPlan) []float64 {
	series := make([]float64, 0, len(plan.Months)+1)
	series = append(series, engine.Remaining(plan, 0).InexactFloat64())
	for _, m := range plan.Months {
		series = append(series, m.TotalRemaining.InexactFloat64())
	}
	return series
}

// PayoffOrder returns the plan's debts in the order they are paid off.
// Debts never paid off come last, in input order.
func PayoffOrder(plan *model.PaymentPlan) []model.DebtResult {
	out := make([]model.DebtResult, len(plan.Debts))
	copy(out, plan.Debts)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].PayoffMonth, out[j].PayoffMonth
		if a == 0 || b == 0 {
			return a != 0 && b == 0
		}
		return a < b
	})
	return out
}
