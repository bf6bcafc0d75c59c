// Package resolve maps provider account records onto the fixed account slots.
//
// Per-record strategies run in a fixed order and the first match wins:
// operator overrides, the built-in id table, names, then last four digits.
// Records still unresolved after that go through the institution pass, which
// looks at the whole batch at once.
package resolve

import (
	"github.com/rs/zerolog"

	"github.com/cleared-dev/elmledger/internal/model"
)

// Options configures a Resolver.
type Options struct {
	// Overrides maps exact identity strings to slots and beats every
	// built-in mapping.
	Overrides map[string]model.Slot
	// Institution names the bank whose checking and savings accounts fill
	// the LLC slots. Empty means DefaultInstitution.
	Institution string
	Logger      zerolog.Logger
}

// Resolution is the outcome for one input record.
type Resolution struct {
	Account  model.ExternalAccount
	Slot     model.Slot
	Strategy string
	Resolved bool
}

// Resolver runs the strategy chain.
type Resolver struct {
	strategies  []Strategy
	institution *InstitutionPass
	logger      zerolog.Logger
}

// New builds the default chain.
func New(opts Options) *Resolver {
	institution := opts.Institution
	if institution == "" {
		institution = DefaultInstitution
	}
	return &Resolver{
		strategies: []Strategy{
			NewOverrideStrategy(opts.Overrides),
			NewIDStrategy(),
			NewNameStrategy(),
			NewLastFourStrategy(),
		},
		institution: NewInstitutionPass(institution),
		logger:      opts.Logger,
	}
}

// Strategies returns the per-record strategies in evaluation order.
func (r *Resolver) Strategies() []Strategy {
	return r.strategies
}

// Resolve runs the per-record strategies only. The institution pass needs
// the whole batch, see ResolveAll.
func (r *Resolver) Resolve(acct model.ExternalAccount) (model.Slot, string, bool) {
	for _, s := range r.strategies {
		if slot, ok := s.Resolve(acct); ok {
			return slot, s.Name(), true
		}
	}
	return "", "", false
}

// ResolveAll resolves a batch and returns one Resolution per input, in input
// order. The institution pass only claims slots nobody else in the batch has
// taken; the first qualifying record wins.
func (r *Resolver) ResolveAll(batch []model.ExternalAccount) []Resolution {
	out := make([]Resolution, len(batch))
	claimed := make(map[model.Slot]bool)

	for i, acct := range batch {
		out[i].Account = acct
		slot, strategy, ok := r.Resolve(acct)
		if !ok {
			continue
		}
		out[i].Slot, out[i].Strategy, out[i].Resolved = slot, strategy, true
		claimed[slot] = true
	}

	for i := range out {
		if out[i].Resolved {
			continue
		}
		slot, ok := r.institution.Match(out[i].Account)
		if !ok {
			continue
		}
		if claimed[slot] {
			r.logger.Debug().
				Str("account_id", out[i].Account.ID()).
				Str("slot", string(slot)).
				Msg("institution match lost to an earlier claim")
			continue
		}
		claimed[slot] = true
		out[i].Slot, out[i].Strategy, out[i].Resolved = slot, r.institution.Name(), true
	}

	for _, res := range out {
		if res.Resolved {
			r.logger.Debug().
				Str("account_id", res.Account.ID()).
				Str("slot", string(res.Slot)).
				Str("strategy", res.Strategy).
				Msg("resolved account")
			continue
		}
		r.logger.Warn().
			Str("account_id", res.Account.ID()).
			Str("name", res.Account.Label()).
			Msg("account is not mapped to a slot and will be ignored")
	}
	return out
}
