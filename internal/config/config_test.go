package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/elmledger/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Provider.BaseURL = "https://bank.example.com/api/db"
	cfg.Resolver.Accounts = []AccountOverride{
		{Identity: "teller-account-checking", Slot: "llcBank"},
	}

	path := filepath.Join(t.TempDir(), "elmledger.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Provider.BaseURL, got.Provider.BaseURL)
	assert.Equal(t, cfg.Provider.Timeout, got.Provider.Timeout)
	assert.Equal(t, cfg.Provider.TransactionLimit, got.Provider.TransactionLimit)
	assert.Equal(t, cfg.Store, got.Store)
	assert.Equal(t, cfg.Log, got.Log)
	require.Len(t, got.Resolver.Accounts, 1)
	assert.Equal(t, "teller-account-checking", got.Resolver.Accounts[0].Identity)
	assert.Equal(t, "llcBank", got.Resolver.Accounts[0].Slot)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 100, cfg.Provider.TransactionLimit)
	assert.Equal(t, "bolt", cfg.Store.Driver)
	assert.Equal(t, "TD Bank", cfg.Resolver.Institution)
	assert.Empty(t, cfg.Resolver.Accounts)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elmledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  base_url: http://proxy/api/db\n  timeout: 5s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://proxy/api/db", cfg.Provider.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 100, cfg.Provider.TransactionLimit)
	assert.Equal(t, "bolt", cfg.Store.Driver)
}

func TestLoadRejectsNegativeTransactionLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elmledger.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  transaction_limit: -1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "transaction_limit")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elmledger.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "base_url: http://localhost:3000/api/db")
	assert.Contains(t, contents, "driver: bolt")
	assert.Contains(t, contents, "institution: TD Bank")
	assert.Contains(t, contents, "timeout: 30s")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvProviderURL, "http://env/api")
	t.Setenv(EnvProviderTimeout, "2s")
	t.Setenv(EnvTransactionLimit, "25")
	t.Setenv(EnvStoreDriver, "sqlite")
	t.Setenv(EnvLogFormat, "json")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())

	assert.Equal(t, "http://env/api", cfg.Provider.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 25, cfg.Provider.TransactionLimit)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv(EnvTransactionLimit, "-3")
	assert.Error(t, Default().ApplyEnv())
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ELMLEDGER_INSTITUTION=Chase\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv(EnvInstitution) })

	require.NoError(t, LoadEnvFile(path))

	cfg := Default()
	require.NoError(t, cfg.ApplyEnv())
	assert.Equal(t, "Chase", cfg.Resolver.Institution)

	assert.Error(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}

func TestOverrides(t *testing.T) {
	cfg := Default()
	cfg.Resolver.Accounts = []AccountOverride{
		{Identity: "file-id", Slot: "llcSavings"},
		{Identity: "bad-slot", Slot: "llcCredit"},
		{Identity: "shared-id", Slot: "llcBank"},
	}
	t.Setenv(EnvAccountOverrides, `{"shared-id": "rent", "env-id": "helocLoan", "env-bad": "nope"}`)

	got := cfg.Overrides(zerolog.Nop())

	assert.Equal(t, map[string]model.Slot{
		"file-id":   model.SlotLLCSavings,
		"shared-id": model.SlotRent,
		"env-id":    model.SlotHELOCLoan,
	}, got)
}

func TestOverridesMalformedEnvIgnored(t *testing.T) {
	cfg := Default()
	cfg.Resolver.Accounts = []AccountOverride{{Identity: "file-id", Slot: "llcBank"}}
	t.Setenv(EnvAccountOverrides, `{not json`)

	got := cfg.Overrides(zerolog.Nop())
	assert.Equal(t, map[string]model.Slot{"file-id": model.SlotLLCBank}, got)
}
