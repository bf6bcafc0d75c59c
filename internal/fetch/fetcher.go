// Package fetch pulls live balances and transactions from the bank-data
// provider and assigns them to slots.
package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/elmledger/internal/accounts"
	"github.com/cleared-dev/elmledger/internal/model"
	"github.com/cleared-dev/elmledger/internal/provider"
	"github.com/cleared-dev/elmledger/internal/resolve"
)

// DefaultTransactionLimit is the page size used when none is configured.
const DefaultTransactionLimit = 100

// Provider is the subset of the provider client the fetcher uses.
type Provider interface {
	ListAccounts(ctx context.Context) ([]model.ExternalAccount, error)
	Balance(ctx context.Context, accountID string) (decimal.NullDecimal, error)
	Transactions(ctx context.Context, accountID string, limit int) ([]model.Transaction, error)
}

// BalanceSource says where a record's balance came from.
type BalanceSource string

const (
	BalanceLive BalanceSource = "live"
	BalanceRaw  BalanceSource = "raw"
	BalanceNone BalanceSource = "none"
)

// Record is the fetch outcome for one external account.
type Record struct {
	AccountID       string
	Label           string
	Slot            model.Slot
	Strategy        string
	Resolved        bool
	BalanceSource   BalanceSource
	BalanceErr      error
	TransactionsErr error
	Live            model.LiveData
}

// Report lists every external account in the order the provider returned
// them.
type Report struct {
	Records []Record
}

// Resolved returns the number of records that were assigned a slot.
func (r *Report) Resolved() int {
	n := 0
	for _, rec := range r.Records {
		if rec.Resolved {
			n++
		}
	}
	return n
}

// Fetcher gathers live data for every slot the provider knows about.
type Fetcher struct {
	client   Provider
	resolver *resolve.Resolver
	limit    int
	logger   zerolog.Logger
}

// NewFetcher creates a Fetcher. A limit of zero or less uses
// DefaultTransactionLimit.
func NewFetcher(client Provider, resolver *resolve.Resolver, limit int, logger zerolog.Logger) *Fetcher {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}
	return &Fetcher{
		client:   client,
		resolver: resolver,
		limit:    limit,
		logger:   logger,
	}
}

// FetchLiveData returns live data keyed by slot. Only a failure to list
// accounts is an error; per-account failures fall back and are logged.
func (f *Fetcher) FetchLiveData(ctx context.Context) (map[model.Slot]model.LiveData, error) {
	live, _, err := f.FetchWithReport(ctx)
	return live, err
}

// FetchWithReport is FetchLiveData plus a per-record report.
func (f *Fetcher) FetchWithReport(ctx context.Context) (map[model.Slot]model.LiveData, *Report, error) {
	batch, err := f.client.ListAccounts(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching account list: %w", err)
	}

	records := make([]Record, len(batch))

	// Every call settles on its own; nothing here returns an error, so
	// Wait only joins.
	var g errgroup.Group
	for i, acct := range batch {
		acct := acct
		rec := &records[i]
		rec.AccountID = acct.ID()
		rec.Label = acct.Label()

		g.Go(func() error {
			f.fetchBalance(ctx, acct, rec)
			return nil
		})
		g.Go(func() error {
			f.fetchTransactions(ctx, acct, rec)
			return nil
		})
	}
	_ = g.Wait()

	live := make(map[model.Slot]model.LiveData)
	for i, res := range f.resolver.ResolveAll(batch) {
		rec := &records[i]
		if !res.Resolved {
			continue
		}
		rec.Slot, rec.Strategy, rec.Resolved = res.Slot, res.Strategy, true
		if prev, ok := live[res.Slot]; ok {
			f.logger.Warn().
				Str("slot", string(res.Slot)).
				Str("account_id", rec.AccountID).
				Int("previous_transactions", len(prev.Transactions)).
				Msg("slot already filled by an earlier account, replacing")
		}
		live[res.Slot] = rec.Live
	}

	f.logger.Debug().
		Int("accounts", len(batch)).
		Int("slots", len(live)).
		Msg("fetched live data")
	return live, &Report{Records: records}, nil
}

func (f *Fetcher) fetchBalance(ctx context.Context, acct model.ExternalAccount, rec *Record) {
	bal, err := f.balance(ctx, acct)
	if err == nil {
		rec.Live.Balance = bal
		rec.BalanceSource = BalanceLive
		return
	}

	rec.BalanceErr = err
	f.logFailure(rec.AccountID, "balance", err)

	if raw := acct.RawBalance(); raw.Valid {
		rec.Live.Balance = raw
		rec.BalanceSource = BalanceRaw
		return
	}
	rec.BalanceSource = BalanceNone
}

func (f *Fetcher) balance(ctx context.Context, acct model.ExternalAccount) (decimal.NullDecimal, error) {
	if acct.ID() == "" {
		return decimal.NullDecimal{}, errMissingID
	}
	return f.client.Balance(ctx, acct.ID())
}

func (f *Fetcher) fetchTransactions(ctx context.Context, acct model.ExternalAccount, rec *Record) {
	var (
		txns []model.Transaction
		err  = errMissingID
	)
	if acct.ID() != "" {
		txns, err = f.client.Transactions(ctx, acct.ID(), f.limit)
	}
	if err != nil {
		rec.TransactionsErr = err
		f.logFailure(rec.AccountID, "transactions", err)
		txns = nil
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	rec.Live.Transactions = txns
}

var errMissingID = errors.New("account has no id")

// logFailure logs a per-account fetch failure. A 404 for one of the demo
// dataset ids is expected and logged at info.
func (f *Fetcher) logFailure(accountID, kind string, err error) {
	ev := f.logger.Warn()
	if provider.IsNotFound(err) && accounts.IsDemoAccount(accountID) {
		ev = f.logger.Info()
	}
	ev.Err(err).
		Str("account_id", accountID).
		Str("kind", kind).
		Msg("live data unavailable, using fallback")
}
