package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/elmledger/internal/model"
)

// ErrNoBalance is returned when a balance response carries no usable value.
var ErrNoBalance = errors.New("balance response has no balance")

// ClientConfig represents the configuration for the provider client.
type ClientConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration // Default: 30 seconds
	HTTPClient *http.Client  // overrides Timeout when set
}

// Client is a bank-data provider API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient creates a new provider client.
func NewClient(config ClientConfig) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		timeout := config.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		token:      config.Token,
	}
}

// ListAccounts lists every account the provider exposes. The body may be
// {"accounts": [...]} or a bare array.
func (c *Client) ListAccounts(ctx context.Context) ([]model.ExternalAccount, error) {
	body, err := c.get(ctx, "/accounts", nil)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var accounts []model.ExternalAccount
		if err := json.Unmarshal(trimmed, &accounts); err != nil {
			return nil, fmt.Errorf("failed to decode accounts: %w", err)
		}
		return accounts, nil
	}

	var resp AccountsResponse
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode accounts: %w", err)
	}
	return resp.Accounts, nil
}

// Balance fetches the live balance of one account.
func (c *Client) Balance(ctx context.Context, accountID string) (decimal.NullDecimal, error) {
	body, err := c.get(ctx, "/accounts/"+url.PathEscape(accountID)+"/balance", nil)
	if err != nil {
		return decimal.NullDecimal{}, err
	}

	var resp BalanceResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to decode balance: %w", err)
	}
	if len(resp.Balance) == 0 {
		return decimal.NullDecimal{}, ErrNoBalance
	}

	dec := json.NewDecoder(bytes.NewReader(resp.Balance))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("failed to decode balance: %w", err)
	}

	bal := model.ParseBalance(raw)
	if !bal.Valid {
		return decimal.NullDecimal{}, ErrNoBalance
	}
	return bal, nil
}

// Transactions fetches up to limit recent transactions for one account. A
// limit of zero or less omits the parameter and lets the provider decide.
func (c *Client) Transactions(ctx context.Context, accountID string, limit int) ([]model.Transaction, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	body, err := c.get(ctx, "/accounts/"+url.PathEscape(accountID)+"/transactions", query)
	if err != nil {
		return nil, err
	}

	var resp TransactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txns := make([]model.Transaction, 0, len(resp.Transactions))
	for i, item := range resp.Transactions {
		txn, err := item.toModel()
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

// get performs a GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(path, resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}

func (item TransactionItem) toModel() (model.Transaction, error) {
	txn := model.Transaction{
		Date:        item.Date,
		Description: item.Description,
		Debit:       decimal.Zero,
		Credit:      decimal.Zero,
	}

	if item.Debit != nil || item.Credit != nil {
		var err error
		if txn.Debit, err = number(item.Debit); err != nil {
			return model.Transaction{}, fmt.Errorf("parsing debit: %w", err)
		}
		if txn.Credit, err = number(item.Credit); err != nil {
			return model.Transaction{}, fmt.Errorf("parsing credit: %w", err)
		}
		return txn, nil
	}

	amount, err := number(item.Amount)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount: %w", err)
	}
	if amount.IsNegative() {
		txn.Credit = amount.Neg()
	} else {
		txn.Debit = amount
	}
	return txn, nil
}

func number(n *json.Number) (decimal.Decimal, error) {
	if n == nil || *n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}
