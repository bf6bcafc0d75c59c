package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// rentTBD is the wire value for a rent that has not been agreed yet.
const rentTBD = "TBD"

// BaseTenant is a unit in the rent roll and who occupies it.
type BaseTenant struct {
	ID     int    `json:"id"`
	Floor  string `json:"floor"`
	Renter string `json:"renter"`
}

// Rent is a monthly rent amount, or TBD when unknown.
type Rent struct {
	Amount decimal.Decimal
	TBD    bool
}

// RentAmount returns a known rent.
func RentAmount(d decimal.Decimal) Rent { return Rent{Amount: d} }

// RentUnknown returns a TBD rent.
func RentUnknown() Rent { return Rent{TBD: true} }

// MarshalJSON encodes TBD as the string "TBD" and amounts as numbers.
func (r Rent) MarshalJSON() ([]byte, error) {
	if r.TBD {
		return json.Marshal(rentTBD)
	}
	return []byte(r.Amount.String()), nil
}

// UnmarshalJSON accepts a number, a numeric string, or "TBD".
func (r *Rent) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = RentUnknown()
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decoding rent: %w", err)
		}
		if strings.EqualFold(strings.TrimSpace(s), rentTBD) {
			*r = RentUnknown()
			return nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("parsing rent %q: %w", s, err)
		}
		*r = RentAmount(d)
		return nil
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return fmt.Errorf("parsing rent %s: %w", data, err)
	}
	*r = RentAmount(d)
	return nil
}

// MonthlyTenantRecord is one tenant's rent position for a month.
type MonthlyTenantRecord struct {
	ID          int             `json:"id"`
	MonthlyRent Rent            `json:"monthlyRent"`
	Due         decimal.Decimal `json:"due"`
	Received    decimal.Decimal `json:"received"`
}

// MonthlyRentRecord holds every tenant's rent position for one month (YYYY-MM).
type MonthlyRentRecord struct {
	Month   string                `json:"month"`
	Tenants []MonthlyTenantRecord `json:"tenants"`
}

// Clone returns a deep copy of r.
func (r MonthlyRentRecord) Clone() MonthlyRentRecord {
	out := r
	if r.Tenants != nil {
		out.Tenants = make([]MonthlyTenantRecord, len(r.Tenants))
		copy(out.Tenants, r.Tenants)
	}
	return out
}

// Record returns the rent record for month, if one exists.
func (a Account) Record(month string) (MonthlyRentRecord, bool) {
	for _, rec := range a.MonthlyRecords {
		if rec.Month == month {
			return rec, true
		}
	}
	return MonthlyRentRecord{}, false
}

// RentForMonth sums the agreed (non-TBD) rents for month.
func (a Account) RentForMonth(month string) (decimal.Decimal, bool) {
	rec, ok := a.Record(month)
	if !ok {
		return decimal.Zero, false
	}
	total := decimal.Zero
	for _, t := range rec.Tenants {
		if !t.MonthlyRent.TBD {
			total = total.Add(t.MonthlyRent.Amount)
		}
	}
	return total, true
}

// ReceivedForMonth returns the amounts due and received for month.
func (a Account) ReceivedForMonth(month string) (due, received decimal.Decimal, ok bool) {
	rec, ok := a.Record(month)
	if !ok {
		return decimal.Zero, decimal.Zero, false
	}
	due, received = decimal.Zero, decimal.Zero
	for _, t := range rec.Tenants {
		due = due.Add(t.Due)
		received = received.Add(t.Received)
	}
	return due, received, true
}
