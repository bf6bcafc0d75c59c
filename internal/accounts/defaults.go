package accounts

import (
	"maps"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/elmledger/internal/model"
)

// demoAccountIDs maps the ids used by the provider's static demo dataset to
// the slot each one feeds.
var demoAccountIDs = map[string]model.Slot{
	"acc_julie_personal":   model.SlotJuliePersonal,
	"acc_david_personal":   model.SlotDavidPersonal,
	"acc_llc_checking":     model.SlotLLCBank,
	"acc_llc_savings":      model.SlotLLCSavings,
	"acc_heloc_loan":       model.SlotHELOCLoan,
	"acc_member_loan_roof": model.SlotMemberLoan,
	"acc_mortgage_loan":    model.SlotMortgageLoan,
	"acc_property_asset":   model.SlotPropertyAsset,
	"acc_rent_roll":        model.SlotRent,
}

// DemoAccountIDs returns a copy of the demo id table.
func DemoAccountIDs() map[string]model.Slot {
	return maps.Clone(demoAccountIDs)
}

// IsDemoAccount reports whether id belongs to the static demo dataset,
// ignoring case and surrounding space.
func IsDemoAccount(id string) bool {
	_, ok := demoAccountIDs[strings.ToLower(strings.TrimSpace(id))]
	return ok
}

// DefaultStore returns the seed record set used before anything has been
// persisted. Each call returns a fresh copy.
func DefaultStore() model.Store {
	return model.Store{
		model.SlotJuliePersonal: juliePersonal(),
		model.SlotDavidPersonal: davidPersonal(),
		model.SlotLLCBank:       llcBank(),
		model.SlotLLCSavings:    llcSavings(),
		model.SlotHELOCLoan:     helocLoan(),
		model.SlotMemberLoan:    memberLoan(),
		model.SlotMortgageLoan:  mortgageLoan(),
		model.SlotPropertyAsset: propertyAsset(),
		model.SlotRent:          rentRoll(),
	}
}

// Default returns the seed record for one slot.
func Default(slot model.Slot) (model.Account, bool) {
	acct, ok := DefaultStore()[slot]
	return acct, ok
}

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func balance(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(d(v)) }

func debit(date, desc string, amount int64) model.Transaction {
	return model.Transaction{Date: date, Description: desc, Debit: d(amount), Credit: decimal.Zero}
}

func credit(date, desc string, amount int64) model.Transaction {
	return model.Transaction{Date: date, Description: desc, Debit: decimal.Zero, Credit: d(amount)}
}

func juliePersonal() model.Account {
	return model.Account{
		Name:     "Julie's Finances",
		Subtitle: "Transactions related to the LLC.",
		Kind:     model.KindPersonal,
		Transactions: []model.Transaction{
			credit("2025-01-15", "Loan to LLC (from HELOC)", 50000),
			credit("2025-03-05", "Loan to LLC (Roof Share)", 7500),
			debit("2025-04-05", "Distribution from LLC", 1000),
			credit("2025-04-06", "Payment to HELOC Lender", 500),
			credit("2025-04-06", "Share of Mortgage Payment", 750),
		},
	}
}

func davidPersonal() model.Account {
	return model.Account{
		Name:     "David's Finances",
		Subtitle: "Transactions related to the LLC.",
		Kind:     model.KindPersonal,
		Transactions: []model.Transaction{
			credit("2025-03-05", "Loan to LLC (Roof Share)", 7500),
			debit("2025-04-05", "Distribution from LLC", 1000),
			credit("2025-04-06", "Share of Mortgage Payment", 750),
		},
	}
}

func llcBank() model.Account {
	return model.Account{
		Name:     "LLC Checking",
		Subtitle: "Central hub for all business income and expenses.",
		Kind:     model.KindAsset,
		Balance:  balance(31500),
		Transactions: []model.Transaction{
			debit("2025-01-15", "Loan from Julie (HELOC)", 50000),
			debit("2025-03-05", "Loan from Members (Roof)", 15000),
			credit("2025-03-10", "Payment to Roofer", 15000),
			debit("2025-04-01", "Rental Income Received", 3500),
			credit("2025-04-05", "Distribution to Members", 2000),
		},
	}
}

func llcSavings() model.Account {
	return model.Account{
		Name:     "LLC Savings",
		Subtitle: "Reserve funds for future capital expenditures.",
		Kind:     model.KindAsset,
		Balance:  balance(0),
		Transactions: []model.Transaction{
			credit("2025-05-01", "Initial Transfer from Checking", 0),
		},
	}
}

func helocLoan() model.Account {
	return model.Account{
		Name:     "HELOC Loan",
		Subtitle: "Liability from Julie's HELOC for the down payment.",
		Kind:     model.KindLiability,
		Balance:  balance(50000),
		Transactions: []model.Transaction{
			credit("2025-01-15", "Loan from Julie", 50000),
		},
		FinancingTerms: &model.FinancingTerms{
			Principal:    d(50000),
			InterestRate: decimal.RequireFromString("6.5"),
			TermYears:    15,
			Breakdown: map[string]decimal.Decimal{
				model.BreakdownTotalKey: d(50000),
				"Julie":                 d(50000),
				"David":                 d(0),
			},
		},
	}
}

func memberLoan() model.Account {
	return model.Account{
		Name:     "Member Loan (Roof)",
		Subtitle: "A formal liability owed by the LLC to its members.",
		Kind:     model.KindLiability,
		Balance:  balance(15000),
		Transactions: []model.Transaction{
			credit("2025-03-05", "Loan proceeds for roof", 15000),
		},
		FinancingTerms: &model.FinancingTerms{
			Principal:    d(15000),
			InterestRate: decimal.RequireFromString("5.0"),
			TermYears:    10,
			Breakdown: map[string]decimal.Decimal{
				model.BreakdownTotalKey: d(15000),
				"Julie":                 d(7500),
				"David":                 d(7500),
			},
		},
	}
}

func mortgageLoan() model.Account {
	return model.Account{
		Name:     "672 Elm St. Mortgage",
		Subtitle: "Primary mortgage for the investment property.",
		Kind:     model.KindLiability,
		Balance:  balance(200000),
		Transactions: []model.Transaction{
			credit("2025-01-20", "Initial Mortgage Loan", 200000),
		},
		FinancingTerms: &model.FinancingTerms{
			Principal:    d(200000),
			InterestRate: decimal.RequireFromString("7.1"),
			TermYears:    30,
		},
	}
}

func propertyAsset() model.Account {
	return model.Account{
		Name:     "672 Elm St",
		Subtitle: "The capitalized value of the building and improvements.",
		Kind:     model.KindAsset,
		Balance:  balance(265000),
		Transactions: []model.Transaction{
			debit("2025-01-20", "Property Acquisition (Building Value)", 250000),
			debit("2025-03-10", "Capital Improvement (New Roof)", 15000),
		},
	}
}

func rentRoll() model.Account {
	total := d(5000)
	tenant := func(id int, rent model.Rent, due, received int64) model.MonthlyTenantRecord {
		return model.MonthlyTenantRecord{ID: id, MonthlyRent: rent, Due: d(due), Received: d(received)}
	}
	return model.Account{
		Name:             "Rent Roll",
		Subtitle:         "Monthly rental income from all units.",
		Kind:             model.KindRevenue,
		TotalMonthlyRent: &total,
		BaseTenants: []model.BaseTenant{
			{ID: 0, Floor: "1st Floor", Renter: "NA"},
			{ID: 1, Floor: "2nd Floor", Renter: "Gina"},
			{ID: 2, Floor: "2nd Floor", Renter: "ECC"},
			{ID: 3, Floor: "3rd Floor", Renter: "Timoth"},
			{ID: 4, Floor: "3rd Floor", Renter: "Angua"},
			{ID: 5, Floor: "Barn", Renter: "Steve"},
		},
		MonthlyRecords: []model.MonthlyRentRecord{{
			Month: "2025-08",
			Tenants: []model.MonthlyTenantRecord{
				tenant(0, model.RentUnknown(), 0, 0),
				tenant(1, model.RentAmount(d(1300)), 1300, 1300),
				tenant(2, model.RentAmount(d(1250)), 1250, 1250),
				tenant(3, model.RentAmount(d(1200)), 1200, 0),
				tenant(4, model.RentAmount(d(0)), 0, 0),
				tenant(5, model.RentAmount(d(1250)), 1250, 1250),
			},
		}},
	}
}
