package model

import (
	"github.com/shopspring/decimal"
)

// Transaction is one line of an account's activity. Exactly one of Debit or
// Credit is normally non-zero, but neither is required to be.
type Transaction struct {
	Date        string          `json:"date"` // YYYY-MM-DD as reported
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// Net returns debit minus credit.
func (t Transaction) Net() decimal.Decimal {
	return t.Debit.Sub(t.Credit)
}
