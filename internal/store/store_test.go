package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/elmledger/internal/accounts"
	"github.com/cleared-dev/elmledger/internal/config"
	"github.com/cleared-dev/elmledger/internal/model"
)

func openAll(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]Store{}
	for _, driver := range []string{DriverBolt, DriverSQLite, DriverFile, DriverMemory} {
		s, err := Open(config.StoreConfig{
			Driver: driver,
			Path:   filepath.Join(dir, driver, "elmledger.db"),
		})
		require.NoError(t, err, driver)
		t.Cleanup(func() { _ = s.Close() })
		stores[driver] = s
	}
	return stores
}

func TestEmptyStoreIsAbsent(t *testing.T) {
	for driver, s := range openAll(t) {
		got, ok, err := s.Get()
		require.NoError(t, err, driver)
		assert.False(t, ok, driver)
		assert.Nil(t, got, driver)
	}
}

func TestSetGet(t *testing.T) {
	for driver, s := range openAll(t) {
		want := accounts.DefaultStore()
		bank := want[model.SlotLLCBank]
		bank.Name = "Operating Account"
		want[model.SlotLLCBank] = bank

		require.NoError(t, s.Set(want), driver)

		got, ok, err := s.Get()
		require.NoError(t, err, driver)
		require.True(t, ok, driver)
		assert.True(t, got.Complete(), driver)
		assert.Equal(t, "Operating Account", got[model.SlotLLCBank].Name, driver)
		assert.True(t, got[model.SlotLLCBank].Balance.Decimal.Equal(decimal.NewFromInt(31500)), driver)
		assert.Len(t, got[model.SlotLLCBank].Transactions, 5, driver)
		assert.Len(t, got[model.SlotRent].BaseTenants, 6, driver)
	}
}

func TestSetReplaces(t *testing.T) {
	for driver, s := range openAll(t) {
		require.NoError(t, s.Set(accounts.DefaultStore()), driver)
		require.NoError(t, s.Set(model.Store{model.SlotRent: accounts.DefaultStore()[model.SlotRent]}), driver)

		got, ok, err := s.Get()
		require.NoError(t, err, driver)
		require.True(t, ok, driver)
		assert.Len(t, got, 1, driver)
	}
}

func TestDecodeDropsUnknownKeys(t *testing.T) {
	got, err := decode([]byte(`{"llcBank": {"name": "LLC Checking", "type": "asset", "balance": 1, "transactions": []}, "llcCredit": {"name": "x"}}`))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "LLC Checking", got[model.SlotLLCBank].Name)
}

func TestDecodeError(t *testing.T) {
	_, err := decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"llcBank": 5}`), 0o644))

	_, ok, err := NewFileStore(path).Get()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestFileStoreLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "store.json"))
	require.NoError(t, s.Set(accounts.DefaultStore()))
	require.NoError(t, s.Set(accounts.DefaultStore()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "store.json", entries[0].Name())
}

func TestBoltReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elmledger.db")
	s, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(accounts.DefaultStore()))
	require.NoError(t, s.Close())

	s, err = OpenBolt(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok, err := s.Get()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, got.Complete())
}

func TestMemoryStoreFailures(t *testing.T) {
	s := NewMemoryStore()
	s.FailSet = errors.New("disk full")
	assert.Error(t, s.Set(accounts.DefaultStore()))
	assert.Equal(t, 0, s.Writes())

	s.FailSet = nil
	require.NoError(t, s.Set(accounts.DefaultStore()))
	assert.Equal(t, 1, s.Writes())

	s.FailGet = errors.New("locked")
	_, ok, err := s.Get()
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.StoreConfig{Driver: "redis", Path: filepath.Join(t.TempDir(), "x")})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(config.StoreConfig{Driver: DriverBolt})
	assert.Error(t, err)
}
