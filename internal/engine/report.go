package engine

import (
	"fmt"
	"time"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

func report(in *Input, l *ledger, startBalance []decimal.Decimal, applied decimal.Decimal, status model.PlanStatus) *model.PaymentPlan {
	plan := &model.PaymentPlan{
		Strategy:     in.Strategy,
		StartDate:    in.StartDate,
		ExtraMonthly: in.ExtraMonthly,
		OneTimeExtra: in.OneTimeExtra,
		MaxMonths:    in.MaxMonths,
		Status:       status,
		Months:       l.months,
		Debts:        make([]model.DebtResult, len(in.Debts)),
	}
	plan.Warnings = append(plan.Warnings, in.Warnings...)

	totals := model.Totals{
		MonthsToDebtFree: len(l.months),
		TotalInterest:    zero,
		TotalPaid:        applied,
		OneTimeApplied:   applied,
		Incomplete:       status == model.StatusCappedIncomplete,
	}
	if !totals.Incomplete {
		t := AddMonths(in.StartDate, totals.MonthsToDebtFree)
		totals.DebtFreeDate = &t
	}

	for i, d := range in.Debts {
		res := model.DebtResult{
			ID:              d.ID,
			Name:            d.Name,
			Last4:           d.Last4,
			StartingBalance: startBalance[i],
			APR:             d.APR,
			MinPayment:      d.MinPayment,
			PayoffMonth:     l.payoff[i],
			TotalInterest:   l.interest[i],
			TotalPaid:       l.paid[i].Add(l.oneTime[i]),
			NonAmortizing:   NonAmortizing(startBalance[i], d.APR, d.MinPayment),
		}
		if res.PayoffMonth > 0 {
			t := AddMonths(in.StartDate, res.PayoffMonth)
			res.PayoffDate = &t
		}
		if res.NonAmortizing {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"%q: minimum payment %s does not cover monthly interest %s; it is only paid down by extra payments",
				d.Name, d.MinPayment.StringFixed(2), MonthlyInterest(startBalance[i], d.APR).StringFixed(2)))
		}
		plan.Debts[i] = res

		totals.TotalInterest = totals.TotalInterest.Add(l.interest[i])
		totals.TotalPaid = totals.TotalPaid.Add(l.paid[i])
	}
	if totals.Incomplete {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"not debt-free within %d months; %s still owed", in.MaxMonths, l.remaining().StringFixed(2)))
	}

	plan.Totals = totals
	return plan
}

// NonAmortizing reports whether a debt's minimum payment fails to cover its
// first month of interest, so it never shrinks on minimums alone.
func NonAmortizing(balance, apr, minPayment decimal.Decimal) bool {
	if !balance.IsPositive() {
		return false
	}
	return minPayment.LessThanOrEqual(MonthlyInterest(balance, apr))
}

// Row is one debt in one month, flattened for exporters.
type Row struct {
	Month           int
	Date            time.Time
	DebtID          string
	DebtName        string
	Targeted        bool
	StartingBalance decimal.Decimal
	OneTimePayment  decimal.Decimal
	Interest        decimal.Decimal
	Payment         decimal.Decimal
	Principal       decimal.Decimal
	EndingBalance   decimal.Decimal
	PaidOff         bool
}

// Rows flattens plan into one row per debt per month, months ascending and
// debts in input order.
func Rows(plan *model.PaymentPlan) []Row {
	names := make(map[string]string, len(plan.Debts))
	for _, d := range plan.Debts {
		names[d.ID] = d.Name
	}
	rows := make([]Row, 0, len(plan.Months)*len(plan.Debts))
	for _, m := range plan.Months {
		for _, dm := range m.Debts {
			rows = append(rows, Row{
				Month:           m.Month,
				Date:            m.Date,
				DebtID:          dm.DebtID,
				DebtName:        names[dm.DebtID],
				Targeted:        dm.Targeted,
				StartingBalance: dm.StartingBalance,
				OneTimePayment:  dm.OneTimePayment,
				Interest:        dm.Interest,
				Payment:         dm.Payment,
				Principal:       dm.Principal,
				EndingBalance:   dm.EndingBalance,
				PaidOff:         dm.PaidOff,
			})
		}
	}
	return rows
}

// Remaining returns the balance still owed at the end of month m (1-based).
// Month 0 is the total before the first payment.
func Remaining(plan *model.PaymentPlan, m int) decimal.Decimal {
	if m <= 0 || len(plan.Months) == 0 {
		sum := zero
		for _, d := range plan.Debts {
			sum = sum.Add(d.StartingBalance)
		}
		return sum
	}
	if m > len(plan.Months) {
		m = len(plan.Months)
	}
	return plan.Months[m-1].TotalRemaining
}
