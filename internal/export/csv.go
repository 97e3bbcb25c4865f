// Package export writes payment plans for spreadsheets.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/payoffhq/payoff/internal/engine"
	"github.com/payoffhq/payoff/internal/model"
)

// Header is the first row of every schedule CSV.
var Header = []string{
	"month", "date", "debt_id", "debt_name", "targeted",
	"starting_balance", "one_time_payment", "interest", "payment", "principal", "ending_balance", "paid_off",
}

// WriteCSV writes one row per debt per month.
func WriteCSV(w io.Writer, plan *model.PaymentPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range engine.Rows(plan) {
		rec := []string{
			strconv.Itoa(r.Month),
			r.Date.Format(engine.DateLayout),
			r.DebtID,
			r.DebtName,
			strconv.FormatBool(r.Targeted),
			r.StartingBalance.StringFixed(2),
			r.OneTimePayment.StringFixed(2),
			r.Interest.StringFixed(2),
			r.Payment.StringFixed(2),
			r.Principal.StringFixed(2),
			r.EndingBalance.StringFixed(2),
			strconv.FormatBool(r.PaidOff),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SummaryHeader is the first row of a per-debt summary CSV.
var SummaryHeader = []string{
	"debt_id", "debt_name", "starting_balance", "apr", "min_payment",
	"payoff_month", "payoff_date", "total_interest", "total_paid",
}

// WriteSummaryCSV writes one row per debt with its payoff outcome.
func WriteSummaryCSV(w io.Writer, plan *model.PaymentPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, d := range plan.Debts {
		payoffDate := ""
		if d.PayoffDate != nil {
			payoffDate = d.PayoffDate.Format(engine.DateLayout)
		}
		rec := []string{
			d.ID,
			d.Name,
			d.StartingBalance.StringFixed(2),
			d.APR.String(),
			d.MinPayment.StringFixed(2),
			strconv.Itoa(d.PayoffMonth),
			payoffDate,
			d.TotalInterest.StringFixed(2),
			d.TotalPaid.StringFixed(2),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
