package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level elmledger.yaml configuration.
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Store    StoreConfig    `yaml:"store"`
	Resolver ResolverConfig `yaml:"resolver"`
	Log      LogConfig      `yaml:"log"`
}

// ProviderConfig locates the bank-data provider API.
type ProviderConfig struct {
	BaseURL          string        `yaml:"base_url"`
	Token            string        `yaml:"token,omitempty"`
	Timeout          time.Duration `yaml:"timeout"`
	TransactionLimit int           `yaml:"transaction_limit"`
}

// StoreConfig selects the local persistence backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // bolt, sqlite, file or memory
	Path   string `yaml:"path"`
}

// ResolverConfig tunes account identity resolution.
type ResolverConfig struct {
	// Institution is the bank whose unmapped checking and savings accounts
	// fall back to the LLC slots.
	Institution string `yaml:"institution"`
	// Accounts pins provider identities to slots ahead of the built-in tables.
	Accounts []AccountOverride `yaml:"accounts,omitempty"`
}

// AccountOverride maps a provider identity string to a slot.
type AccountOverride struct {
	Identity string `yaml:"identity"`
	Slot     string `yaml:"slot"`
}

// LogConfig controls log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // human or json
}

// Load reads an elmledger.yaml file from disk. Fields missing from the file
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Provider.TransactionLimit < 0 {
		return nil, fmt.Errorf("parsing config: provider.transaction_limit must not be negative, got %d", cfg.Provider.TransactionLimit)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new install.
func Default() *Config {
	return &Config{
		Provider: ProviderConfig{
			BaseURL:          "http://localhost:3000/api/db",
			Timeout:          30 * time.Second,
			TransactionLimit: 100,
		},
		Store: StoreConfig{
			Driver: "bolt",
			Path:   "data/elmledger.db",
		},
		Resolver: ResolverConfig{
			Institution: "TD Bank",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "human",
		},
	}
}
