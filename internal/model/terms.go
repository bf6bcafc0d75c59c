package model

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// BreakdownTotalKey is the optional breakdown entry that restates the principal.
const BreakdownTotalKey = "Total"

// ErrInvalidTerms wraps every error returned by FinancingTerms.Validate.
var ErrInvalidTerms = errors.New("invalid financing terms")

// FinancingTerms describes how a liability is financed.
type FinancingTerms struct {
	Principal    decimal.Decimal            `json:"principal"`
	InterestRate decimal.Decimal            `json:"interestRate"` // percent, e.g. 6.5
	TermYears    int                        `json:"termYears"`
	Breakdown    map[string]decimal.Decimal `json:"breakdown,omitempty"`
}

// Clone returns a deep copy of t.
func (t FinancingTerms) Clone() FinancingTerms {
	out := t
	if t.Breakdown != nil {
		out.Breakdown = make(map[string]decimal.Decimal, len(t.Breakdown))
		for k, v := range t.Breakdown {
			out.Breakdown[k] = v
		}
	}
	return out
}

// Contributors returns the breakdown names, excluding the Total entry, sorted.
func (t FinancingTerms) Contributors() []string {
	var names []string
	for name := range t.Breakdown {
		if name == BreakdownTotalKey {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the terms for internal consistency. Contributor shares must
// sum to the principal, and a Total entry, if present, must equal it.
func (t FinancingTerms) Validate() error {
	var errs []error
	if t.Principal.IsNegative() {
		errs = append(errs, fmt.Errorf("principal %s is negative", t.Principal))
	}
	if t.InterestRate.IsNegative() {
		errs = append(errs, fmt.Errorf("interest rate %s is negative", t.InterestRate))
	}
	if t.TermYears < 0 {
		errs = append(errs, fmt.Errorf("term %d years is negative", t.TermYears))
	}

	if len(t.Breakdown) > 0 {
		if total, ok := t.Breakdown[BreakdownTotalKey]; ok && !total.Equal(t.Principal) {
			errs = append(errs, fmt.Errorf("breakdown total %s != principal %s", total, t.Principal))
		}
		names := t.Contributors()
		if len(names) > 0 {
			sum := decimal.Zero
			for _, name := range names {
				sum = sum.Add(t.Breakdown[name])
			}
			if !sum.Equal(t.Principal) {
				errs = append(errs, fmt.Errorf("breakdown shares sum to %s, principal is %s", sum, t.Principal))
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTerms, errors.Join(errs...))
}
