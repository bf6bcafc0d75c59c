package accounts

import (
	"github.com/cleared-dev/elmledger/internal/model"
)

// Entry pairs a slot with its account record.
type Entry struct {
	Slot    model.Slot
	Account model.Account
}

// Service provides ordered, in-memory lookup over a record set.
type Service struct {
	entries []Entry
	bySlot  map[model.Slot]model.Account
}

// NewService creates a Service from a store. Slots come back in display
// order; slots missing from store are skipped.
func NewService(store model.Store) *Service {
	var entries []Entry
	bySlot := make(map[model.Slot]model.Account, len(store))
	for _, slot := range model.AllSlots() {
		acct, ok := store[slot]
		if !ok {
			continue
		}
		entries = append(entries, Entry{Slot: slot, Account: acct})
		bySlot[slot] = acct
	}
	return &Service{entries: entries, bySlot: bySlot}
}

// All returns every entry in display order.
func (s *Service) All() []Entry {
	return s.entries
}

// Get returns the account for a slot.
func (s *Service) Get(slot model.Slot) (model.Account, bool) {
	a, ok := s.bySlot[slot]
	return a, ok
}

// Exists reports whether a slot is present.
func (s *Service) Exists(slot model.Slot) bool {
	_, ok := s.bySlot[slot]
	return ok
}

// ByKind returns all entries of the given kind.
func (s *Service) ByKind(kind model.Kind) []Entry {
	var result []Entry
	for _, e := range s.entries {
		if e.Account.Kind == kind {
			result = append(result, e)
		}
	}
	return result
}
