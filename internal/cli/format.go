// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatMoney formats an amount as dollars and cents with comma separators.
// e.g., 1234.5 -> "$1,234.50", -20 -> "-$20.00"
func FormatMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg())
	}
	s := d.StringFixed(2)
	whole, cents, _ := strings.Cut(s, ".")
	n, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return "$" + s
	}
	return "$" + FormatNumber(n) + "." + cents
}

// FormatMoneyShort formats an amount without cents, abbreviating large values.
// e.g., 950 -> "$950", 12345 -> "$12.3K", 2500000 -> "$2.5M"
func FormatMoneyShort(d decimal.Decimal) string {
	f := d.Abs().InexactFloat64()
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	switch {
	case f >= 1_000_000:
		return fmt.Sprintf("%s$%.1fM", sign, f/1_000_000)
	case f >= 10_000:
		return fmt.Sprintf("%s$%.1fK", sign, f/1_000)
	default:
		return sign + "$" + FormatNumber(d.Abs().Round(0).IntPart())
	}
}

// FormatAPR formats an APR fraction as a percentage.
// e.g., 0.199 -> "19.90%"
func FormatAPR(apr decimal.Decimal) string {
	return apr.Shift(2).StringFixed(2) + "%"
}

// FormatMonths formats a month count as years and months.
// e.g., 8 -> "8 mo", 12 -> "1 yr", 27 -> "2 yr 3 mo"
func FormatMonths(n int) string {
	if n <= 0 {
		return "0 mo"
	}
	years, months := n/12, n%12
	switch {
	case years == 0:
		return fmt.Sprintf("%d mo", months)
	case months == 0:
		return fmt.Sprintf("%d yr", years)
	}
	return fmt.Sprintf("%d yr %d mo", years, months)
}

// FormatDate formats a payoff date as month and year, or a dash when absent.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "—"
	}
	return t.Format("Jan 2006")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatSaved formats a saving with an explicit sign.
// e.g., 72.67 -> "+$72.67 saved", -5 -> "-$5.00 more"
func FormatSaved(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + FormatMoney(d.Neg()) + " more"
	}
	return "+" + FormatMoney(d) + " saved"
}
