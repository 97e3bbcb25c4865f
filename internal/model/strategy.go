package model

import (
	"fmt"
	"strings"
)

// Strategy selects the order in which debts receive extra payment.
type Strategy string

const (
	Snowball       Strategy = "snowball"        // smallest balance first
	Avalanche      Strategy = "avalanche"       // highest APR first
	HighestBalance Strategy = "highest_balance" // largest balance first
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{Snowball, Avalanche, HighestBalance}

// Valid reports whether s is one of the supported strategies.
func (s Strategy) Valid() bool {
	switch s {
	case Snowball, Avalanche, HighestBalance:
		return true
	}
	return false
}

// Label returns a human-readable name for the strategy.
func (s Strategy) Label() string {
	switch s {
	case Snowball:
		return "Snowball"
	case Avalanche:
		return "Avalanche"
	case HighestBalance:
		return "Highest balance"
	}
	return string(s)
}

// ParseStrategy accepts a strategy name case-insensitively. "highest-balance"
// and "highest" are accepted as aliases for HighestBalance.
func ParseStrategy(raw string) (Strategy, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "highest-balance", "highest", "highestbalance":
		return HighestBalance, nil
	}
	st := Strategy(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown strategy %q (want snowball, avalanche or highest_balance)", raw)
	}
	return st, nil
}
