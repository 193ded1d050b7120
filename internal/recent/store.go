// Package recent keeps the most-recently-used list of searched city names.
package recent

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/storage"
)

const (
	// DefaultKey is the storage slot holding the serialized list.
	DefaultKey = "recentCities"
	// MaxEntries bounds the list length.
	MaxEntries = 5
)

// Store is a bounded, case-insensitively deduplicated MRU list persisted as a
// JSON array of strings in a single storage slot.
type Store struct {
	mu  sync.Mutex
	kv  storage.KeyValue
	key string
}

// NewStore returns a Store writing to key in kv. An empty key uses DefaultKey.
func NewStore(kv storage.KeyValue, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{kv: kv, key: key}
}

// List returns the persisted names, most recent first.
// A missing, unreadable or corrupt value yields an empty list.
func (s *Store) List(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Add moves name to the front of the list, dropping any entry equal to it
// ignoring case, truncates to MaxEntries and persists the result.
func (s *Store) Add(ctx context.Context, name string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cities := Push(s.load(ctx), name)

	b, err := json.Marshal(cities)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		return nil, err
	}
	return cities, nil
}

func (s *Store) load(ctx context.Context) []string {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		config.GetLogger().Warnw("Reading recent cities failed", "key", s.key, "error", err)
		return []string{}
	}
	if !ok {
		return []string{}
	}

	var cities []string
	if err := json.Unmarshal([]byte(raw), &cities); err != nil {
		config.GetLogger().Warnw("Discarding corrupt recent cities", "key", s.key, "error", err)
		return []string{}
	}
	if cities == nil {
		// "null" is valid JSON
		return []string{}
	}
	return cities
}

// Push returns a new list with name at the front, without case-insensitive
// duplicates of it, truncated to MaxEntries. cities is not modified.
func Push(cities []string, name string) []string {
	out := make([]string, 0, MaxEntries)
	out = append(out, name)
	for _, c := range cities {
		if len(out) == MaxEntries {
			break
		}
		if strings.EqualFold(c, name) {
			continue
		}
		out = append(out, c)
	}
	return out
}
