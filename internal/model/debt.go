// Package model defines domain types for debts and payoff plans.
package model

import "github.com/shopspring/decimal"

// RawDebt is a debt record as it arrives from a form, a file or the store.
// Values are not trusted: APR may be a percentage (19.9) or a fraction (0.199),
// and amounts may be negative while a user is still editing them.
type RawDebt struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Last4      string          `json:"last4,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	APR        decimal.Decimal `json:"apr"`
	MinPayment decimal.Decimal `json:"min_payment"`
	DueDay     int             `json:"due_day,omitempty"`
}

// Debt is a validated liability. Balance and MinPayment are non-negative and
// rounded to cents; APR is an annual fraction in [0, 1].
type Debt struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Last4      string          `json:"last4,omitempty"`
	Balance    decimal.Decimal `json:"balance"`
	APR        decimal.Decimal `json:"apr"`
	MinPayment decimal.Decimal `json:"min_payment"`
	DueDay     int             `json:"due_day,omitempty"` // display only
}

// Raw converts a validated debt back to its boundary shape.
func (d Debt) Raw() RawDebt {
	return RawDebt{
		ID:         d.ID,
		Name:       d.Name,
		Last4:      d.Last4,
		Balance:    d.Balance,
		APR:        d.APR,
		MinPayment: d.MinPayment,
		DueDay:     d.DueDay,
	}
}

// DisplayName returns the name with the masked account suffix, if any.
func (d Debt) DisplayName() string {
	if d.Last4 == "" {
		return d.Name
	}
	return d.Name + " ••" + d.Last4
}

// Policy holds the user's payment settings that accompany a debt list.
type Policy struct {
	Strategy     Strategy        `json:"strategy"`
	ExtraMonthly decimal.Decimal `json:"extra_monthly"`
	OneTimeExtra decimal.Decimal `json:"one_time_extra"`
	TargetDate   string          `json:"target_date,omitempty"` // YYYY-MM-DD, optional
}
