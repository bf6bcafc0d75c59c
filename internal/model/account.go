package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind classifies what an account slot holds.
type Kind string

const (
	KindPersonal  Kind = "personal"
	KindAsset     Kind = "asset"
	KindLiability Kind = "liability"
	KindRevenue   Kind = "revenue"
)

// Slot identifies one of the nine fixed internal accounts.
type Slot string

const (
	SlotJuliePersonal Slot = "juliePersonalFinances"
	SlotDavidPersonal Slot = "davidPersonalFinances"
	SlotLLCBank       Slot = "llcBank"
	SlotLLCSavings    Slot = "llcSavings"
	SlotHELOCLoan     Slot = "helocLoan"
	SlotMemberLoan    Slot = "memberLoan"
	SlotMortgageLoan  Slot = "mortgageLoan"
	SlotPropertyAsset Slot = "propertyAsset"
	SlotRent          Slot = "rent"
)

var allSlots = []Slot{
	SlotJuliePersonal,
	SlotDavidPersonal,
	SlotLLCBank,
	SlotLLCSavings,
	SlotHELOCLoan,
	SlotMemberLoan,
	SlotMortgageLoan,
	SlotPropertyAsset,
	SlotRent,
}

// AllSlots returns every slot in display order.
func AllSlots() []Slot {
	out := make([]Slot, len(allSlots))
	copy(out, allSlots)
	return out
}

// Valid reports whether s is one of the nine known slots.
func (s Slot) Valid() bool {
	for _, known := range allSlots {
		if s == known {
			return true
		}
	}
	return false
}

// ParseSlot validates a slot identifier.
func ParseSlot(s string) (Slot, error) {
	slot := Slot(s)
	if !slot.Valid() {
		return "", fmt.Errorf("unknown account slot %q", s)
	}
	return slot, nil
}

// Account is the persisted record for one slot. Kind-specific fields are
// left empty for kinds that do not use them.
type Account struct {
	Name         string              `json:"name"`
	Subtitle     string              `json:"subtitle"`
	Kind         Kind                `json:"type"`
	Balance      decimal.NullDecimal `json:"balance"`
	Transactions []Transaction       `json:"transactions"`

	// Liabilities only.
	FinancingTerms *FinancingTerms `json:"financingTerms,omitempty"`

	// Revenue only.
	TotalMonthlyRent *decimal.Decimal    `json:"totalMonthlyRent,omitempty"`
	BaseTenants      []BaseTenant        `json:"baseTenants,omitempty"`
	MonthlyRecords   []MonthlyRentRecord `json:"monthlyRecords,omitempty"`
}

// Clone returns a deep copy of a.
func (a Account) Clone() Account {
	out := a
	if a.Transactions != nil {
		out.Transactions = make([]Transaction, len(a.Transactions))
		copy(out.Transactions, a.Transactions)
	}
	if a.FinancingTerms != nil {
		terms := a.FinancingTerms.Clone()
		out.FinancingTerms = &terms
	}
	if a.TotalMonthlyRent != nil {
		total := *a.TotalMonthlyRent
		out.TotalMonthlyRent = &total
	}
	if a.BaseTenants != nil {
		out.BaseTenants = make([]BaseTenant, len(a.BaseTenants))
		copy(out.BaseTenants, a.BaseTenants)
	}
	if a.MonthlyRecords != nil {
		out.MonthlyRecords = make([]MonthlyRentRecord, len(a.MonthlyRecords))
		for i, rec := range a.MonthlyRecords {
			out.MonthlyRecords[i] = rec.Clone()
		}
	}
	return out
}

// HasBalance reports whether the account kind carries a direct balance.
func (a Account) HasBalance() bool {
	return a.Kind == KindAsset || a.Kind == KindLiability
}

// LiveData is the subset of an account the bank-data provider may supply.
type LiveData struct {
	Balance      decimal.NullDecimal
	Transactions []Transaction
}

// Store is the complete persisted record set, keyed by slot.
type Store map[Slot]Account

// Complete reports whether every known slot is present.
func (s Store) Complete() bool {
	for _, slot := range allSlots {
		if _, ok := s[slot]; !ok {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s Store) Clone() Store {
	if s == nil {
		return nil
	}
	out := make(Store, len(s))
	for slot, acct := range s {
		out[slot] = acct.Clone()
	}
	return out
}
