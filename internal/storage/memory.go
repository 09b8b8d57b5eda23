package storage

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// MemStore is a map-backed Store for tests. FailWrites makes every Save a
// no-op, simulating exhausted storage quota.
type MemStore struct {
	mu         sync.Mutex
	values     map[string]json.RawMessage
	log        *slog.Logger
	FailWrites bool
}

// NewMemStore creates an empty in-memory store.
func NewMemStore(log *slog.Logger) *MemStore {
	return &MemStore{values: make(map[string]json.RawMessage), log: log}
}

// Seed stores a raw JSON payload under key, bypassing serialization. Tests
// use it to plant corrupt or hand-built data.
func (s *MemStore) Seed(key string, raw string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = json.RawMessage(raw)
}

func (s *MemStore) Load(key string, dst any) bool {
	s.mu.Lock()
	raw, ok := s.values[key]
	s.mu.Unlock()
	if !ok {
		return false
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("stored value is malformed, using default", "key", key, "error", err)
		return false
	}
	return true
}

func (s *MemStore) Save(key string, v any) {
	if s.FailWrites {
		s.log.Error("failed to write stored value", "key", key, "error", errWriteRefused)
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("failed to serialize value", "key", key, "error", err)
		return
	}

	s.mu.Lock()
	s.values[key] = data
	s.mu.Unlock()
}

type refusedError struct{}

func (refusedError) Error() string { return "writes refused" }

var errWriteRefused = refusedError{}
