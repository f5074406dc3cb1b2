// Package localstore is a small file-backed JSON store used by the client
// SDK for offline state: one file per key under a root directory. It is not
// a cache with expiry; callers layer their own retention rules on top.
package localstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Store persists JSON values by key. Safe for concurrent use within one
// process; cross-process locking is out of scope.
type Store struct {
	dir string
	mu  sync.RWMutex

	// mem holds values when the store has no directory. Same semantics,
	// no durability.
	mem map[string][]byte
}

// New opens a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// NewMemory builds a store that keeps values in memory only. Useful for
// tests and for hosts that disable persistence.
func NewMemory() *Store {
	return &Store{mem: make(map[string][]byte)}
}

// Get loads the value stored under key into dest and reports whether a
// usable value was present. A file that exists but no longer parses is
// deleted and reported absent: corrupt local state self-heals instead of
// wedging every later read.
func (s *Store) Get(key string, dest interface{}) bool {
	s.mu.RLock()
	var (
		data []byte
		err  error
	)
	if s.mem != nil {
		var ok bool
		data, ok = s.mem[key]
		if !ok {
			err = os.ErrNotExist
		}
	} else {
		data, err = os.ReadFile(s.path(key))
	}
	s.mu.RUnlock()
	if err != nil {
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		s.Delete(key)
		return false
	}
	return true
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mem != nil {
		s.mem[key] = data
		return nil
	}

	// Write-then-rename so a crash mid-write never leaves a torn file
	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path(key))
}

// Delete removes the value stored under key. Deleting an absent key is not
// an error.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mem != nil {
		delete(s.mem, key)
		return
	}
	os.Remove(s.path(key))
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+".json")
}

// sanitize keeps keys filesystem-safe without losing uniqueness for the
// conventional snake_case keys the SDK uses
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, key)
}
