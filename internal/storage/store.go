package storage

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// Store is a string-keyed persistence adapter for JSON-serializable values.
// It mirrors browser localStorage semantics: reads that miss or fail to parse
// report absence rather than an error, and writes never fail the caller. Keys
// are independent; there is no cross-key transaction.
type Store interface {
	// Load decodes the value stored under key into dst and reports whether a
	// usable value was found. Malformed stored data is logged and treated as
	// absent, so the caller falls back to its default.
	Load(key string, dst any) bool

	// Save serializes v and writes it under key. Write failures are logged
	// and swallowed; the in-memory state stays ahead of the durable copy.
	Save(key string, v any)
}

// FileStore persists each key as a JSON file under a data directory.
type FileStore struct {
	dir string
	log *slog.Logger
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory if needed.
func NewFileStore(dir string, log *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir, log: log}, nil
}

// Load reads and decodes the JSON file for key.
func (s *FileStore) Load(key string, dst any) bool {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.log.Warn("failed to read stored value", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn("stored value is malformed, using default", "key", key, "error", err)
		return false
	}
	return true
}

// Save writes v as JSON to the file for key. The write goes through a temp
// file and rename so a crash mid-write cannot corrupt the previous value.
func (s *FileStore) Save(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("failed to serialize value", "key", key, "error", err)
		return
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		s.log.Error("failed to write stored value", "key", key, "error", err)
		return
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		s.log.Error("failed to commit stored value", "key", key, "error", err)
	}
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}
