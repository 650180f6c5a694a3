package jsonfile

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"bankrates/internal/entities"
)

// Store keeps the subscriber map in memory and mirrors it to a single
// JSON file. Every mutation rewrites the whole file synchronously; a save
// failure is logged and the in-memory state stays authoritative.
type Store struct {
	mu    sync.RWMutex
	path  string
	subs  map[string]entities.Subscription
	order []string
}

// NewStore loads the file at path. A missing file is a valid initial
// state and a malformed one falls open to an empty map; neither fails.
func NewStore(path string) *Store {
	s := &Store{
		path: path,
		subs: make(map[string]entities.Subscription),
	}

	s.load()

	return s
}

func (s *Store) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("no subscriptions file found, starting empty", "path", s.path)
		} else {
			slog.Error("failed to read subscriptions file, starting empty", "path", s.path, "error", err)
		}
		return
	}

	var subs map[string]entities.Subscription
	if err := json.Unmarshal(data, &subs); err != nil {
		slog.Error("failed to parse subscriptions file, starting empty", "path", s.path, "error", err)
		return
	}

	s.subs = subs
	if s.subs == nil {
		s.subs = make(map[string]entities.Subscription)
	}

	// JSON objects carry no order, so loaded entries scan in sorted key
	// order; keys added later keep insertion order.
	s.order = make([]string, 0, len(s.subs))
	for userID := range s.subs {
		s.order = append(s.order, userID)
	}
	sort.Strings(s.order)

	slog.Info("loaded subscriptions", "count", len(s.subs), "path", s.path)
}

// Save writes the whole subscriber map to the file.
func (s *Store) Save() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.save()
}

// save expects the caller to hold the lock.
func (s *Store) save() error {
	const op = "jsonfile.save"

	data, err := json.MarshalIndent(s.subs, "", "  ")
	if err != nil {
		return errors.Wrap(err, op)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.Wrap(err, op)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return errors.Wrap(err, op)
	}

	return nil
}

func (s *Store) Get(userID string) (*entities.Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sub, ok := s.subs[userID]
	if !ok {
		return nil, false
	}

	return &sub, true
}

// AddOrUpdate stores a subscription and persists the map. An invalid
// subscription is rejected; a persistence failure is logged and accepted.
func (s *Store) AddOrUpdate(userID string, sub entities.Subscription) error {
	const op = "jsonfile.AddOrUpdate"

	if err := sub.Validate(); err != nil {
		return errors.Wrap(err, op)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[userID]; !ok {
		s.order = append(s.order, userID)
	}
	s.subs[userID] = sub

	if err := s.save(); err != nil {
		slog.Error("failed to persist subscriptions", "error", err)
	}

	return nil
}

// Remove deletes a subscription and persists the map. Removing an absent
// key is a no-op returning false.
func (s *Store) Remove(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subs[userID]; !ok {
		return false
	}

	delete(s.subs, userID)
	for i, id := range s.order {
		if id == userID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if err := s.save(); err != nil {
		slog.Error("failed to persist subscriptions", "error", err)
	}

	return true
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.subs)
}

// All returns the subscriptions in the store's iteration order.
func (s *Store) All() []entities.SubscriptionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]entities.SubscriptionEntry, 0, len(s.order))
	for _, userID := range s.order {
		sub, ok := s.subs[userID]
		if !ok {
			continue
		}
		entries = append(entries, entities.SubscriptionEntry{
			UserID:       userID,
			Subscription: sub,
		})
	}

	return entries
}
