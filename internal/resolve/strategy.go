package resolve

import (
	"github.com/cleared-dev/elmledger/internal/accounts"
	"github.com/cleared-dev/elmledger/internal/model"
)

// Strategy maps a single external record to a slot.
type Strategy interface {
	Name() string
	Resolve(acct model.ExternalAccount) (model.Slot, bool)
}

// OverrideStrategy matches identity candidates against an operator supplied
// identity to slot map. Keys compare in normalized form.
type OverrideStrategy struct {
	overrides map[string]model.Slot
}

func NewOverrideStrategy(overrides map[string]model.Slot) *OverrideStrategy {
	return &OverrideStrategy{overrides: identityTable(overrides)}
}

func (s *OverrideStrategy) Name() string { return "override" }

func (s *OverrideStrategy) Resolve(acct model.ExternalAccount) (model.Slot, bool) {
	return lookupIdentity(s.overrides, acct)
}

// IDStrategy matches identity candidates against the built-in provider id
// table.
type IDStrategy struct {
	ids map[string]model.Slot
}

func NewIDStrategy() *IDStrategy {
	return &IDStrategy{ids: identityTable(accounts.DemoAccountIDs())}
}

func (s *IDStrategy) Name() string { return "id" }

func (s *IDStrategy) Resolve(acct model.ExternalAccount) (model.Slot, bool) {
	return lookupIdentity(s.ids, acct)
}

// identityTable keys a copy of in by normalized identity, dropping blank
// keys and invalid slots.
func identityTable(in map[string]model.Slot) map[string]model.Slot {
	out := make(map[string]model.Slot, len(in))
	for identity, slot := range in {
		key := Normalize(identity)
		if key == "" || !slot.Valid() {
			continue
		}
		out[key] = slot
	}
	return out
}

func lookupIdentity(table map[string]model.Slot, acct model.ExternalAccount) (model.Slot, bool) {
	if len(table) == 0 {
		return "", false
	}
	for _, candidate := range acct.IdentityCandidates() {
		if slot, ok := table[Normalize(candidate)]; ok {
			return slot, true
		}
	}
	return "", false
}

// nameAliases are display names seen from providers that differ from the
// catalog names.
var nameAliases = map[string]model.Slot{
	"Julie Personal":      model.SlotJuliePersonal,
	"David Personal":      model.SlotDavidPersonal,
	"LLC Operating":       model.SlotLLCBank,
	"LLC Reserve":         model.SlotLLCSavings,
	"Home Equity Line":    model.SlotHELOCLoan,
	"Roof Loan":           model.SlotMemberLoan,
	"672 Elm St Mortgage": model.SlotMortgageLoan,
	"672 Elm Street":      model.SlotPropertyAsset,
	"Rental Income":       model.SlotRent,
}

// NameStrategy matches normalized descriptors against the catalog names,
// subtitles and known aliases. A subtitle shared by several slots is not
// used.
type NameStrategy struct {
	names map[string]model.Slot
}

func NewNameStrategy() *NameStrategy {
	names := make(map[string]model.Slot)
	ambiguous := make(map[string]bool)
	add := func(label string, slot model.Slot) {
		key := Normalize(label)
		if key == "" || ambiguous[key] {
			return
		}
		if existing, ok := names[key]; ok && existing != slot {
			delete(names, key)
			ambiguous[key] = true
			return
		}
		names[key] = slot
	}

	catalog := accounts.DefaultStore()
	for _, slot := range model.AllSlots() {
		acct := catalog[slot]
		add(acct.Name, slot)
		add(acct.Subtitle, slot)
	}
	for label, slot := range nameAliases {
		add(label, slot)
	}
	return &NameStrategy{names: names}
}

func (s *NameStrategy) Name() string { return "name" }

func (s *NameStrategy) Resolve(acct model.ExternalAccount) (model.Slot, bool) {
	for _, d := range acct.Descriptors() {
		if slot, ok := s.names[Normalize(d)]; ok {
			return slot, true
		}
	}
	return "", false
}

// lastFourTable holds the account number endings of the linked LLC accounts.
var lastFourTable = map[string]model.Slot{
	"7123": model.SlotLLCBank,
	"7131": model.SlotLLCSavings,
}

// LastFourStrategy matches the record's last-four field.
type LastFourStrategy struct {
	table map[string]model.Slot
}

func NewLastFourStrategy() *LastFourStrategy {
	return &LastFourStrategy{table: lastFourTable}
}

func (s *LastFourStrategy) Name() string { return "last_four" }

func (s *LastFourStrategy) Resolve(acct model.ExternalAccount) (model.Slot, bool) {
	digits := lastFour(acct.LastFour())
	if digits == "" {
		return "", false
	}
	slot, ok := s.table[digits]
	return slot, ok
}
