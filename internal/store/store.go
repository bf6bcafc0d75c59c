// Package store persists the complete account record set as a single
// document.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cleared-dev/elmledger/internal/config"
	"github.com/cleared-dev/elmledger/internal/model"
)

// Key is the name the record set is stored under.
const Key = "llcFinancialData"

// Drivers.
const (
	DriverBolt   = "bolt"
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Store reads and writes the persisted record set. Get reports false when
// nothing has been written yet.
type Store interface {
	Get() (model.Store, bool, error)
	Set(model.Store) error
	Close() error
}

// Open returns the backend named by cfg.Driver, creating parent directories
// for file-backed drivers.
func Open(cfg config.StoreConfig) (Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverBolt
	}

	if driver != DriverMemory {
		if cfg.Path == "" {
			return nil, fmt.Errorf("store driver %s needs a path", driver)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
	}

	switch driver {
	case DriverBolt:
		return OpenBolt(cfg.Path)
	case DriverSQLite:
		return OpenSQLite(cfg.Path)
	case DriverFile:
		return NewFileStore(cfg.Path), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

func encode(s model.Store) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding store: %w", err)
	}
	return data, nil
}

// decode parses a persisted document. Keys that are not slots are dropped.
func decode(data []byte) (model.Store, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding store: %w", err)
	}

	s := make(model.Store, len(raw))
	for key, value := range raw {
		slot := model.Slot(key)
		if !slot.Valid() {
			continue
		}
		var acct model.Account
		if err := json.Unmarshal(value, &acct); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", key, err)
		}
		s[slot] = acct
	}
	return s, nil
}
