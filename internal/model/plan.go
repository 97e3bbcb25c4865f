package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlanStatus is the terminal state of a simulation run.
type PlanStatus string

const (
	StatusComplete         PlanStatus = "complete"
	StatusCappedIncomplete PlanStatus = "capped_incomplete"
)

// DebtMonth is one debt's activity within a simulated month.
type DebtMonth struct {
	DebtID          string          `json:"debt_id"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	OneTimePayment  decimal.Decimal `json:"one_time_payment"`
	Interest        decimal.Decimal `json:"interest"`
	Payment         decimal.Decimal `json:"payment"`
	Principal       decimal.Decimal `json:"principal"`
	EndingBalance   decimal.Decimal `json:"ending_balance"`
	Targeted        bool            `json:"targeted,omitempty"`
	PaidOff         bool            `json:"paid_off,omitempty"`
}

// MonthSnapshot is one row of the payoff ledger. Debts appear in input order.
type MonthSnapshot struct {
	Month          int             `json:"month"`
	Date           time.Time       `json:"date"`
	TargetID       string          `json:"target_id,omitempty"`
	ExtraPool      decimal.Decimal `json:"extra_pool"`
	Debts          []DebtMonth     `json:"debts"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalInterest  decimal.Decimal `json:"total_interest"`
	TotalPrincipal decimal.Decimal `json:"total_principal"`
	TotalOneTime   decimal.Decimal `json:"total_one_time"`
	TotalRemaining decimal.Decimal `json:"total_remaining"`
}

// Totals summarizes a whole plan.
type Totals struct {
	MonthsToDebtFree int             `json:"months_to_debt_free"`
	DebtFreeDate     *time.Time      `json:"debt_free_date,omitempty"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	OneTimeApplied   decimal.Decimal `json:"one_time_applied"`
	Incomplete       bool            `json:"incomplete"`
}

// DebtResult is the per-debt outcome of a plan.
type DebtResult struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Last4           string          `json:"last4,omitempty"`
	StartingBalance decimal.Decimal `json:"starting_balance"` // after the one-time cascade
	APR             decimal.Decimal `json:"apr"`
	MinPayment      decimal.Decimal `json:"min_payment"`
	PayoffMonth     int             `json:"payoff_month"` // 0 when never paid off
	PayoffDate      *time.Time      `json:"payoff_date,omitempty"`
	TotalInterest   decimal.Decimal `json:"total_interest"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	NonAmortizing   bool            `json:"non_amortizing,omitempty"`
}

// PaidOff reports whether the debt reached zero within the plan.
func (r DebtResult) PaidOff() bool {
	return r.PayoffMonth > 0
}

// PaymentPlan is the immutable output of one simulation run.
type PaymentPlan struct {
	Strategy     Strategy        `json:"strategy"`
	StartDate    time.Time       `json:"start_date"`
	ExtraMonthly decimal.Decimal `json:"extra_monthly"`
	OneTimeExtra decimal.Decimal `json:"one_time_extra"`
	MaxMonths    int             `json:"max_months"`
	Status       PlanStatus      `json:"status"`
	Months       []MonthSnapshot `json:"months"`
	Totals       Totals          `json:"totals"`
	Debts        []DebtResult    `json:"debts"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// StrategySummary is the headline outcome of one strategy in a comparison.
type StrategySummary struct {
	Strategy         Strategy        `json:"strategy"`
	MonthsToDebtFree int             `json:"months_to_debt_free"`
	TotalInterest    decimal.Decimal `json:"total_interest"`
	TotalPaid        decimal.Decimal `json:"total_paid"`
	Incomplete       bool            `json:"incomplete"`
}

// Both is reported as the winner when two strategies tie.
const Both = "both"

// Comparison reports how two strategies fare against each other on identical
// inputs. Faster and LessInterest hold a strategy name or Both.
type Comparison struct {
	A             StrategySummary `json:"a"`
	B             StrategySummary `json:"b"`
	Faster        string          `json:"faster"`
	LessInterest  string          `json:"less_interest"`
	MonthsSaved   int             `json:"months_saved"`
	InterestSaved decimal.Decimal `json:"interest_saved"`
}
