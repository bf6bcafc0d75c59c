package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/elmledger/internal/model"
)

func TestDefaultStoreCoversEverySlot(t *testing.T) {
	store := DefaultStore()
	require.True(t, store.Complete())
	assert.Len(t, store, 9)

	// Verify all accounts have a name and kind.
	for slot, acct := range store {
		assert.NotEmpty(t, acct.Name, "slot %s missing name", slot)
		assert.NotEmpty(t, acct.Kind, "slot %s missing kind", slot)
	}
}

func TestDefaultStoreIsFreshCopy(t *testing.T) {
	a := DefaultStore()
	acct := a[model.SlotLLCBank]
	acct.Name = "mutated"
	acct.Transactions[0].Description = "mutated"
	a[model.SlotLLCBank] = acct

	b := DefaultStore()
	assert.Equal(t, "LLC Checking", b[model.SlotLLCBank].Name)
	assert.Equal(t, "Loan from Julie (HELOC)", b[model.SlotLLCBank].Transactions[0].Description)
}

func TestDefaultTermsAreConsistent(t *testing.T) {
	for _, e := range NewService(DefaultStore()).ByKind(model.KindLiability) {
		require.NotNil(t, e.Account.FinancingTerms, "liability %s without terms", e.Slot)
		assert.NoError(t, e.Account.FinancingTerms.Validate(), "terms for %s", e.Slot)
	}
}

func TestDemoAccountIDsMapEverySlot(t *testing.T) {
	covered := make(map[model.Slot]bool)
	for id, slot := range DemoAccountIDs() {
		assert.True(t, IsDemoAccount(id))
		covered[slot] = true
	}
	for _, slot := range model.AllSlots() {
		assert.True(t, covered[slot], "no demo id for %s", slot)
	}
	assert.False(t, IsDemoAccount("acc_llc_credit"))
	assert.True(t, IsDemoAccount(" ACC_Rent_Roll "))
}

func TestDemoAccountIDsIsACopy(t *testing.T) {
	ids := DemoAccountIDs()
	ids["acc_llc_checking"] = model.SlotRent
	delete(ids, "acc_llc_savings")
	ids["acc_llc_credit"] = model.SlotLLCBank

	fresh := DemoAccountIDs()
	assert.Equal(t, model.SlotLLCBank, fresh["acc_llc_checking"])
	assert.Equal(t, model.SlotLLCSavings, fresh["acc_llc_savings"])
	assert.False(t, IsDemoAccount("acc_llc_credit"))
}

func TestServiceOrderAndLookup(t *testing.T) {
	svc := NewService(DefaultStore())

	all := svc.All()
	require.Len(t, all, 9)
	assert.Equal(t, model.SlotJuliePersonal, all[0].Slot)
	assert.Equal(t, model.SlotRent, all[8].Slot)

	acct, ok := svc.Get(model.SlotMortgageLoan)
	assert.True(t, ok)
	assert.Equal(t, "672 Elm St. Mortgage", acct.Name)

	assert.True(t, svc.Exists(model.SlotRent))
	assert.False(t, svc.Exists(model.Slot("llcCredit")))
}

func TestServiceByKind(t *testing.T) {
	svc := NewService(DefaultStore())

	assets := svc.ByKind(model.KindAsset)
	assert.Len(t, assets, 3, "expected checking, savings and the property")

	assert.Len(t, svc.ByKind(model.KindLiability), 3)
	assert.Len(t, svc.ByKind(model.KindPersonal), 2)
	assert.Len(t, svc.ByKind(model.KindRevenue), 1)
}

func TestServiceSkipsMissingSlots(t *testing.T) {
	store := DefaultStore()
	delete(store, model.SlotRent)

	svc := NewService(store)
	assert.Len(t, svc.All(), 8)
	assert.False(t, svc.Exists(model.SlotRent))
}
