// Package provider is a client for the bank-data provider proxy API.
package provider

import (
	"encoding/json"

	"github.com/cleared-dev/elmledger/internal/model"
)

// AccountsResponse is the body of GET /accounts.
type AccountsResponse struct {
	Accounts []model.ExternalAccount `json:"accounts"`
}

// BalanceResponse is the body of GET /accounts/{id}/balance. The balance
// field is kept raw because providers send a number or an object.
type BalanceResponse struct {
	AccountID string          `json:"account_id,omitempty"`
	Balance   json.RawMessage `json:"balance"`
}

// TransactionsResponse is the body of GET /accounts/{id}/transactions.
type TransactionsResponse struct {
	AccountID    string            `json:"account_id,omitempty"`
	Transactions []TransactionItem `json:"transactions"`
}

// TransactionItem is a provider transaction. Ledger-style feeds send debit
// and credit; card-style feeds send a signed amount instead.
type TransactionItem struct {
	ID          string       `json:"id,omitempty"`
	Date        string       `json:"date"`
	Description string       `json:"description"`
	Debit       *json.Number `json:"debit,omitempty"`
	Credit      *json.Number `json:"credit,omitempty"`
	Amount      *json.Number `json:"amount,omitempty"`
}

// ErrorResponse is the optional JSON body of a non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
