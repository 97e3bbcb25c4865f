package engine

import (
	"sort"

	"github.com/payoffhq/payoff/internal/model"

	"github.com/shopspring/decimal"
)

// SnowballTolerance is the balance gap under which snowball ordering groups
// debts together and prefers the higher APR.
var SnowballTolerance = decimal.NewFromInt(5)

// Order returns the indexes of debts with a positive balance, highest
// priority first. balances[i] is the current balance of debts[i]. The sort
// is stable on input order.
func Order(debts []model.Debt, balances []decimal.Decimal, strategy model.Strategy) []int {
	idx := make([]int, 0, len(debts))
	for i := range debts {
		if balances[i].IsPositive() {
			idx = append(idx, i)
		}
	}

	switch strategy {
	case model.Avalanche:
		sort.SliceStable(idx, func(i, j int) bool {
			a, b := idx[i], idx[j]
			if c := debts[a].APR.Cmp(debts[b].APR); c != 0 {
				return c > 0
			}
			if c := balances[a].Cmp(balances[b]); c != 0 {
				return c < 0
			}
			return debts[a].MinPayment.GreaterThan(debts[b].MinPayment)
		})
	case model.HighestBalance:
		sort.SliceStable(idx, func(i, j int) bool {
			return balances[idx[i]].GreaterThan(balances[idx[j]])
		})
	default:
		snowball(idx, debts, balances)
	}
	return idx
}

// snowball sorts idx by balance ascending, then reorders each run of debts
// whose balances sit within SnowballTolerance of the run's smallest balance
// by APR descending. Runs are anchored on their first debt, so the result
// does not depend on input order beyond exact ties.
func snowball(idx []int, debts []model.Debt, balances []decimal.Decimal) {
	sort.SliceStable(idx, func(i, j int) bool {
		return balances[idx[i]].LessThan(balances[idx[j]])
	})
	for start := 0; start < len(idx); {
		end := start + 1
		limit := balances[idx[start]].Add(SnowballTolerance)
		for end < len(idx) && balances[idx[end]].LessThan(limit) {
			end++
		}
		run := idx[start:end]
		sort.SliceStable(run, func(i, j int) bool {
			return debts[run[i]].APR.GreaterThan(debts[run[j]].APR)
		})
		start = end
	}
}

// Target returns the debt that receives the extra pool, or -1 when every
// balance is zero.
func Target(debts []model.Debt, balances []decimal.Decimal, strategy model.Strategy) int {
	order := Order(debts, balances, strategy)
	if len(order) == 0 {
		return -1
	}
	return order[0]
}
