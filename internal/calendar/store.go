package calendar

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"EarningsSentinel/internal/model"
)

// Entry is one cached calendar lookup. CheckedAt is refreshed only by a real
// provider fetch, never by a cache hit.
type Entry struct {
	CheckedAt int64                 `json:"checked_at"` // unix seconds
	Data      []model.EarningsEvent `json:"data"`
}

// document is the on-disk cache shape: {meta:{version},entries:{key:entry}}.
type document struct {
	Meta struct {
		Version int `json:"version"`
	} `json:"meta"`
	Entries map[string]Entry `json:"entries"`
}

const storeVersion = 1

// Store persists the cache entry map as a whole. The cache is best-effort:
// Load must map absent or malformed content to an empty store, and callers
// tolerate Save failures.
type Store interface {
	Load() map[string]Entry
	Save(entries map[string]Entry) error
}

// FileStore keeps the cache in a single JSON document on disk.
type FileStore struct {
	Path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the cache file. An absent, unreadable, or structurally invalid
// file resets to an empty store rather than failing.
func (s *FileStore) Load() map[string]Entry {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return map[string]Entry{}
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil || doc.Entries == nil {
		return map[string]Entry{}
	}
	return doc.Entries
}

// Save writes the cache file, creating parent directories as needed.
func (s *FileStore) Save(entries map[string]Entry) error {
	if dir := filepath.Dir(s.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	doc := document{Entries: entries}
	doc.Meta.Version = storeVersion
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0644)
}

// MemoryStore is an in-memory Store for tests and cache-less runs.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]Entry{}}
}

func (s *MemoryStore) Load() map[string]Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]Entry, len(s.entries))
	for k, v := range s.entries {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) Save(entries map[string]Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry, len(entries))
	for k, v := range entries {
		s.entries[k] = v
	}
	return nil
}
