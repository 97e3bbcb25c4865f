package source

import "github.com/shopspring/decimal"

// fileDebt is one debt as written in a debts file. Amounts are numbers or
// numeric strings, decoded without a float round trip; the APR may be a
// percentage (19.9) or a fraction (0.199).
type fileDebt struct {
	ID         string          `yaml:"id" json:"id"`
	Name       string          `yaml:"name" json:"name"`
	Last4      string          `yaml:"last4" json:"last4"`
	Balance    decimal.Decimal `yaml:"balance" json:"balance"`
	APR        decimal.Decimal `yaml:"apr" json:"apr"`
	MinPayment decimal.Decimal `yaml:"min_payment" json:"min_payment"`
	DueDay     int             `yaml:"due_day" json:"due_day"`
}

// filePolicy is the optional payment policy block of a debts file.
type filePolicy struct {
	Strategy     string          `yaml:"strategy" json:"strategy"`
	ExtraMonthly decimal.Decimal `yaml:"extra_monthly" json:"extra_monthly"`
	OneTimeExtra decimal.Decimal `yaml:"one_time_extra" json:"one_time_extra"`
	TargetDate   string          `yaml:"target_date" json:"target_date"`
}

// debtsFile is the top-level document of a YAML or JSON debts file.
type debtsFile struct {
	Debts  []fileDebt  `yaml:"debts" json:"debts"`
	Policy *filePolicy `yaml:"policy" json:"policy"`
}
