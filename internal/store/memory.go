package store

import (
	"sync"

	"github.com/cleared-dev/elmledger/internal/model"
)

// MemoryStore keeps the encoded record set in memory. It round-trips through
// JSON like the other backends so callers never share maps with it.
type MemoryStore struct {
	mu     sync.Mutex
	data   []byte
	writes int

	// FailGet and FailSet, when set, are returned by Get and Set.
	FailGet error
	FailSet error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get() (model.Store, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGet != nil {
		return nil, false, s.FailGet
	}
	if s.data == nil {
		return nil, false, nil
	}
	st, err := decode(s.data)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

func (s *MemoryStore) Set(st model.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSet != nil {
		return s.FailSet
	}
	data, err := encode(st)
	if err != nil {
		return err
	}
	s.data = data
	s.writes++
	return nil
}

// Writes returns how many times Set succeeded.
func (s *MemoryStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemoryStore) Close() error { return nil }
