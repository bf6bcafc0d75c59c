// Package ledger merges live provider data into the persisted account record
// set and applies user edits to it.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/cleared-dev/elmledger/internal/accounts"
	"github.com/cleared-dev/elmledger/internal/model"
	"github.com/cleared-dev/elmledger/internal/store"
)

var (
	// ErrNoBaseline is returned by Save when nothing has been persisted yet.
	ErrNoBaseline = errors.New("cannot save, no persisted data found; run a refresh first")

	// ErrUnknownSlot is returned for a slot outside the catalog.
	ErrUnknownSlot = errors.New("unknown account slot")

	// ErrNotLiability is returned when financing terms are set on an
	// account that cannot carry them.
	ErrNotLiability = errors.New("account is not a liability")
)

// LiveSource supplies live data keyed by slot.
type LiveSource interface {
	FetchLiveData(ctx context.Context) (map[model.Slot]model.LiveData, error)
}

// Engine owns the persisted record set. It is the only writer.
type Engine struct {
	live   LiveSource
	store  store.Store
	logger zerolog.Logger

	// mu serializes read-modify-write cycles within this process.
	mu sync.Mutex
}

// NewEngine creates an Engine.
func NewEngine(live LiveSource, st store.Store, logger zerolog.Logger) *Engine {
	return &Engine{live: live, store: st, logger: logger}
}

// ApplyLive returns a copy of acct with its balance and transactions taken
// from live. No other field is touched.
func ApplyLive(acct model.Account, live model.LiveData) model.Account {
	out := acct.Clone()
	out.Balance = live.Balance
	out.Transactions = make([]model.Transaction, len(live.Transactions))
	copy(out.Transactions, live.Transactions)
	return out
}

// Load fetches live data, overlays it on the persisted record set (or on the
// catalog defaults on first run), persists the result and returns it.
//
// A failure to list provider accounts is returned and nothing is written. A
// failure to persist is logged and the merged result is still returned.
func (e *Engine) Load(ctx context.Context) (model.Store, error) {
	live, err := e.live.FetchLiveData(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	base, persist := e.baseline()
	for slot, data := range live {
		acct, ok := base[slot]
		if !ok {
			continue
		}
		base[slot] = ApplyLive(acct, data)
	}

	if persist {
		if err := e.store.Set(base); err != nil {
			e.logger.Error().Err(err).Msg("failed to persist merged accounts")
		}
	}
	return base, nil
}

// baseline returns the record set live data is merged onto and whether the
// merged result may be written back.
func (e *Engine) baseline() (model.Store, bool) {
	persisted, ok, err := e.store.Get()
	if err != nil {
		// An unreadable store is not overwritten; it may still be
		// recoverable by hand.
		e.logger.Error().Err(err).Msg("failed to read persisted accounts, using defaults")
		return accounts.DefaultStore(), false
	}
	if !ok {
		e.logger.Info().Msg("first run, seeding accounts from defaults")
		return accounts.DefaultStore(), true
	}

	base := make(model.Store, len(model.AllSlots()))
	for _, slot := range model.AllSlots() {
		if acct, ok := persisted[slot]; ok {
			base[slot] = acct
			continue
		}
		e.logger.Warn().Str("slot", string(slot)).Msg("persisted accounts missing slot, using default")
		base[slot], _ = accounts.Default(slot)
	}
	return base, true
}

// Save replaces one slot in the persisted record set with acct. The caller
// builds the complete record; no field-level merge happens here.
func (e *Engine) Save(slot model.Slot, acct model.Account) (model.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.save(slot, acct)
}

func (e *Engine) save(slot model.Slot, acct model.Account) (model.Account, error) {
	if !slot.Valid() {
		return model.Account{}, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	current, ok, err := e.store.Get()
	if err != nil {
		return model.Account{}, fmt.Errorf("reading persisted accounts: %w", err)
	}
	if !ok {
		return model.Account{}, ErrNoBaseline
	}

	current[slot] = acct.Clone()
	if err := e.store.Set(current); err != nil {
		e.logger.Error().Err(err).Str("slot", string(slot)).Msg("failed to persist account")
	} else {
		e.logger.Info().Str("slot", string(slot)).Msg("saved account")
	}
	return acct, nil
}

// Snapshot returns the last persisted record set without contacting the
// provider. It is the fallback when Load fails.
func (e *Engine) Snapshot() (model.Store, bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Get()
}

// Update reads the persisted record for slot, lets fn edit it and saves the
// result.
func (e *Engine) Update(slot model.Slot, fn func(*model.Account) error) (model.Account, error) {
	if !slot.Valid() {
		return model.Account{}, fmt.Errorf("%w: %q", ErrUnknownSlot, slot)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok, err := e.store.Get()
	if err != nil {
		return model.Account{}, fmt.Errorf("reading persisted accounts: %w", err)
	}
	if !ok {
		return model.Account{}, ErrNoBaseline
	}

	acct, ok := current[slot]
	if !ok {
		acct, _ = accounts.Default(slot)
	}
	acct = acct.Clone()
	if err := fn(&acct); err != nil {
		return model.Account{}, err
	}
	return e.save(slot, acct)
}

// Rename changes an account's display name and subtitle. Empty values keep
// the current ones.
func (e *Engine) Rename(slot model.Slot, name, subtitle string) (model.Account, error) {
	return e.Update(slot, func(acct *model.Account) error {
		if name != "" {
			acct.Name = name
		}
		if subtitle != "" {
			acct.Subtitle = subtitle
		}
		return nil
	})
}

// SetTerms replaces a liability's financing terms after validating them.
func (e *Engine) SetTerms(slot model.Slot, terms model.FinancingTerms) (model.Account, error) {
	if err := terms.Validate(); err != nil {
		return model.Account{}, err
	}
	return e.Update(slot, func(acct *model.Account) error {
		if acct.Kind != model.KindLiability {
			return fmt.Errorf("%w: %s is %s", ErrNotLiability, slot, acct.Kind)
		}
		t := terms.Clone()
		acct.FinancingTerms = &t
		return nil
	})
}
