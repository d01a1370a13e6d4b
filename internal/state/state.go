// Package state persists the last viewed slide of each deck so a session
// can be resumed.
package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const stateFileName = "bookmarks.json"

// Bookmark stores the last position for a single deck as a route fragment.
type Bookmark struct {
	Fragment string    `json:"fragment"`
	Updated  time.Time `json:"updated"`
}

// Store manages persistent bookmarks.
type Store struct {
	path string
	data map[string]Bookmark
	mu   sync.RWMutex
}

// NewStore creates or loads bookmarks from dir. An empty dir means
// XDG_STATE_HOME/folio.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	store := &Store{
		path: filepath.Join(dir, stateFileName),
		data: make(map[string]Bookmark),
	}
	if err := store.load(); err != nil {
		// Non-fatal - start with empty state
		store.data = make(map[string]Bookmark)
	}
	return store, nil
}

// DefaultDir returns XDG_STATE_HOME/folio or ~/.local/state/folio
func DefaultDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "folio")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", "folio")
}

// Key identifies a deck by its absolute path, so edits to a watched deck
// keep its bookmark.
func Key(filename string) (string, error) {
	abs, err := filepath.Abs(filename)
	if err != nil {
		return "", err
	}
	hash := sha256.Sum256([]byte(abs))
	return hex.EncodeToString(hash[:16]), nil
}

// Get returns the saved fragment for key and whether one exists.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[key]
	if !ok || b.Fragment == "" {
		return "", false
	}
	return b.Fragment, true
}

// Set saves fragment for key.
func (s *Store) Set(key, fragment string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = Bookmark{Fragment: fragment, Updated: time.Now().UTC()}
	return s.save()
}

// Clear removes the bookmark for key.
func (s *Store) Clear(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.save()
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
