// Package state provides a persistent JSON store for tracking contract
// content hashes across audit runs. This enables drift detection by
// comparing current source against previously audited versions.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileVersion = 1

// Entry represents the last audited version of a single file.
type Entry struct {
	Hash      string `json:"hash"`
	UpdatedAt string `json:"updated_at"`
}

type stateFile struct {
	Version int              `json:"version"`
	Entries map[string]Entry `json:"entries"`
}

// Store persists content hashes to a JSON file on disk. Keys are paths
// relative to the audited root, so a repository can move without losing
// its baseline.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
	path    string
}

// New creates a new Store backed by the given file path.
func New(path string) *Store {
	return &Store{
		entries: make(map[string]Entry),
		path:    path,
	}
}

// DefaultPath returns the default state file path (~/.ccaudit/state.json).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ccaudit/state.json"
	}
	return filepath.Join(home, ".ccaudit", "state.json")
}

// Load reads the state file from disk. A missing file leaves the store
// empty without error. Symlinked state files are rejected so a hostile
// checkout cannot redirect writes outside the state directory.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := rejectSymlink(s.path); err != nil {
		return err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var f stateFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("corrupt state file %s: %w", s.path, err)
	}
	if f.Version > fileVersion {
		return fmt.Errorf("state file %s has version %d, this build reads up to %d", s.path, f.Version, fileVersion)
	}
	if f.Entries != nil {
		s.entries = f.Entries
	}
	return nil
}

// Save writes the current state to disk atomically: the file is written to
// a temp sibling and renamed into place. Parent directories are created
// with 0o700, the file with 0o600.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := rejectSymlink(s.path); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(stateFile{Version: fileVersion, Entries: s.entries}, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func rejectSymlink(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return nil
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("state file is a symlink (rejected for security): %s", path)
	}
	return nil
}

// Get returns the entry for the given key and whether it exists.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

// Set stores a hash for the given key with the current timestamp.
func (s *Store) Set(key, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = Entry{
		Hash:      hash,
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Len returns the number of tracked files.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Path returns the file path of this store.
func (s *Store) Path() string {
	return s.path
}
