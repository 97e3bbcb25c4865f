package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// AmortizationMonths is the closed-form number of months a single debt takes
// to reach zero paying only payment each month:
//
//	n = -ln(1 - r*B/P) / ln(1 + r),  r = apr/12
//
// rounded up. ok is false when the payment never covers the interest.
func AmortizationMonths(balance, apr, payment decimal.Decimal) (months int, ok bool) {
	b := balance.InexactFloat64()
	p := payment.InexactFloat64()
	r := apr.InexactFloat64() / 12
	if b <= 0 {
		return 0, true
	}
	if p <= 0 {
		return 0, false
	}
	if r == 0 {
		return int(math.Ceil(b / p)), true
	}
	if p <= r*b {
		return 0, false
	}
	n := -math.Log(1-r*b/p) / math.Log(1+r)
	return int(math.Ceil(n - 1e-9)), true
}
