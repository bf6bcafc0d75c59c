package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/cleared-dev/elmledger/internal/model"
)

// Environment variables read by ApplyEnv.
const (
	EnvProviderURL      = "ELMLEDGER_PROVIDER_URL"
	EnvProviderToken    = "ELMLEDGER_PROVIDER_TOKEN"
	EnvProviderTimeout  = "ELMLEDGER_PROVIDER_TIMEOUT"
	EnvTransactionLimit = "ELMLEDGER_TRANSACTION_LIMIT"
	EnvStoreDriver      = "ELMLEDGER_STORE_DRIVER"
	EnvStorePath        = "ELMLEDGER_STORE_PATH"
	EnvInstitution      = "ELMLEDGER_INSTITUTION"
	EnvLogLevel         = "ELMLEDGER_LOG_LEVEL"
	EnvLogFormat        = "ELMLEDGER_LOG_FORMAT"
	EnvAccountOverrides = "ELMLEDGER_ACCOUNT_OVERRIDES"
)

// LoadEnvFile loads a .env file into the process environment. With an empty
// path it tries ./.env and ignores a missing file.
func LoadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
		return nil
	}
	_ = godotenv.Load()
	return nil
}

// ApplyEnv overlays environment variables onto cfg.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvProviderURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvProviderToken); v != "" {
		c.Provider.Token = v
	}
	if v := os.Getenv(EnvProviderTimeout); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvProviderTimeout, err)
		}
		c.Provider.Timeout = timeout
	}
	if v := os.Getenv(EnvTransactionLimit); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit <= 0 {
			return fmt.Errorf("invalid %s: %q", EnvTransactionLimit, v)
		}
		c.Provider.TransactionLimit = limit
	}
	if v := os.Getenv(EnvStoreDriver); v != "" {
		c.Store.Driver = v
	}
	if v := os.Getenv(EnvStorePath); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv(EnvInstitution); v != "" {
		c.Resolver.Institution = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Overrides builds the operator override map from the config file entries
// and ELMLEDGER_ACCOUNT_OVERRIDES (a JSON object of identity to slot). The
// environment wins over the file. Malformed input is logged and skipped so
// the built-in mappings keep working.
func (c *Config) Overrides(logger zerolog.Logger) map[string]model.Slot {
	out := make(map[string]model.Slot)

	for _, o := range c.Resolver.Accounts {
		slot, err := model.ParseSlot(o.Slot)
		if err != nil || o.Identity == "" {
			logger.Warn().Str("identity", o.Identity).Str("slot", o.Slot).Msg("ignoring invalid account override")
			continue
		}
		out[o.Identity] = slot
	}

	raw := os.Getenv(EnvAccountOverrides)
	if raw == "" {
		return out
	}
	var fromEnv map[string]string
	if err := json.Unmarshal([]byte(raw), &fromEnv); err != nil {
		logger.Warn().Err(err).Str("env", EnvAccountOverrides).Msg("ignoring malformed account overrides")
		return out
	}
	for identity, s := range fromEnv {
		slot, err := model.ParseSlot(s)
		if err != nil || identity == "" {
			logger.Warn().Str("identity", identity).Str("slot", s).Msg("ignoring invalid account override")
			continue
		}
		out[identity] = slot
	}
	return out
}
