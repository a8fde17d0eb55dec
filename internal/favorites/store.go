// Package favorites holds the user's saved movies: one in-memory sequence
// mirrored into a persistent key-value store, shared by every consumer.
package favorites

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mmcdole/reel/internal/domain"
)

type state int

const (
	stateUninitialized state = iota
	stateHydrated
)

// Listener receives the full favorites sequence after each change.
// Listeners are called one at a time in commit order and must not mutate
// the store.
type Listener func([]domain.Favorite)

// Store is the single source of truth for favorite status.
// Mutations write the next sequence to storage first and only then swap it
// into memory, so memory is never ahead of disk.
type Store struct {
	kv     domain.KVStore
	logger *slog.Logger

	mu      sync.Mutex
	state   state
	entries []domain.Favorite
	version uint64 // bumped on every commit

	// notifyMu serializes delivery; delivered is the newest version sent
	notifyMu  sync.Mutex
	delivered uint64

	listenerMu sync.Mutex
	listeners  map[int]Listener
	nextID     int
}

// New creates an uninitialized store; call Hydrate before use
func New(kv domain.KVStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:        kv,
		logger:    logger,
		entries:   []domain.Favorite{},
		listeners: make(map[int]Listener),
	}
}

// Hydrate loads the persisted sequence once. Missing or corrupt data yields
// an empty sequence. A storage read error is returned and the store stays
// uninitialized, so nothing overwrites the favorites on disk.
func (s *Store) Hydrate() error {
	s.mu.Lock()
	if s.state == stateHydrated {
		s.mu.Unlock()
		return nil
	}

	entries, err := s.load()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.entries = entries
	s.state = stateHydrated
	s.version++
	snapshot, version := s.snapshotLocked(), s.version
	s.mu.Unlock()

	s.logger.Debug("favorites hydrated", "count", len(snapshot))
	s.notify(snapshot, version)
	return nil
}

func (s *Store) load() ([]domain.Favorite, error) {
	blob, ok, err := s.kv.Get(domain.KeyFavorites)
	if err != nil {
		s.logger.Error("failed to read favorites", "error", err)
		return nil, fmt.Errorf("failed to read favorites: %w", err)
	}
	if !ok {
		return []domain.Favorite{}, nil
	}

	favs, err := domain.DecodeFavorites(blob)
	if err != nil {
		s.logger.Warn("discarding unreadable favorites", "error", err)
		return []domain.Favorite{}, nil
	}
	return dedupe(favs), nil
}

// Favorites returns a copy of the current sequence in insertion order
func (s *Store) Favorites() ([]domain.Favorite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateHydrated {
		return nil, domain.ErrNotInitialized
	}
	return s.snapshotLocked(), nil
}

// IsFavorite reports whether a movie with this ID is saved
func (s *Store) IsFavorite(id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateHydrated {
		return false, domain.ErrNotInitialized
	}
	return indexOf(s.entries, id) >= 0, nil
}

// Add saves a favorite. Adding an ID that is already saved is a no-op and
// reports added=false.
func (s *Store) Add(f domain.Favorite) (bool, error) {
	if !f.Valid() {
		return false, errors.New("favorite has no movie payload")
	}

	s.mu.Lock()
	if s.state != stateHydrated {
		s.mu.Unlock()
		return false, domain.ErrNotInitialized
	}
	added, version, err := s.addLocked(f)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	if err != nil || !added {
		return false, err
	}

	s.notify(snapshot, version)
	return true, nil
}

// addLocked appends f unless its ID is present. Caller holds s.mu.
func (s *Store) addLocked(f domain.Favorite) (bool, uint64, error) {
	if indexOf(s.entries, f.GetID()) >= 0 {
		return false, 0, nil
	}

	next := make([]domain.Favorite, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, f)

	version, err := s.commitLocked(next)
	if err != nil {
		return false, 0, err
	}
	s.logger.Info("favorite added", "id", f.GetID(), "title", f.GetTitle())
	return true, version, nil
}

// AddMovie saves a search result
func (s *Store) AddMovie(m domain.MovieSummary) (bool, error) {
	return s.Add(domain.FavoriteFromMovie(m))
}

// AddDetail saves a detail record
func (s *Store) AddDetail(d domain.MovieDetail) (bool, error) {
	return s.Add(domain.FavoriteFromDetail(d))
}

// Remove deletes every entry with this ID. Removing an unknown ID succeeds
// with removed=false.
func (s *Store) Remove(id int) (bool, error) {
	s.mu.Lock()
	if s.state != stateHydrated {
		s.mu.Unlock()
		return false, domain.ErrNotInitialized
	}

	removed, version, err := s.removeLocked(id)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	if err != nil || !removed {
		return false, err
	}

	s.notify(snapshot, version)
	return true, nil
}

// removeLocked drops every entry with id. Caller holds s.mu.
func (s *Store) removeLocked(id int) (bool, uint64, error) {
	next := make([]domain.Favorite, 0, len(s.entries))
	for _, f := range s.entries {
		if f.GetID() != id {
			next = append(next, f)
		}
	}
	if len(next) == len(s.entries) {
		return false, 0, nil
	}

	version, err := s.commitLocked(next)
	if err != nil {
		return false, 0, err
	}
	s.logger.Info("favorite removed", "id", id)
	return true, version, nil
}

// Toggle adds f when absent and removes it when present, returning the new
// favorite status. The check and the mutation happen under one lock.
func (s *Store) Toggle(f domain.Favorite) (bool, error) {
	if !f.Valid() {
		return false, errors.New("favorite has no movie payload")
	}

	s.mu.Lock()
	if s.state != stateHydrated {
		s.mu.Unlock()
		return false, domain.ErrNotInitialized
	}

	var (
		isFav   bool
		version uint64
		err     error
	)
	if indexOf(s.entries, f.GetID()) >= 0 {
		_, version, err = s.removeLocked(f.GetID())
	} else {
		isFav, version, err = s.addLocked(f)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	if err != nil {
		return false, err
	}

	s.notify(snapshot, version)
	return isFav, nil
}

// Subscribe registers fn for every completed change and returns a function
// that unregisters it.
func (s *Store) Subscribe(fn Listener) func() {
	s.listenerMu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.listenerMu.Unlock()

	return func() {
		s.listenerMu.Lock()
		delete(s.listeners, id)
		s.listenerMu.Unlock()
	}
}

// commitLocked persists next, swaps it in and returns the new version.
// Caller holds s.mu.
func (s *Store) commitLocked(next []domain.Favorite) (uint64, error) {
	blob, err := domain.EncodeFavorites(next)
	if err != nil {
		return 0, err
	}
	if err := s.kv.Set(domain.KeyFavorites, blob); err != nil {
		s.logger.Error("failed to persist favorites", "error", err)
		return 0, err
	}
	s.entries = next
	s.version++
	return s.version, nil
}

func (s *Store) snapshotLocked() []domain.Favorite {
	out := make([]domain.Favorite, len(s.entries))
	copy(out, s.entries)
	return out
}

// notify delivers snapshot unless a newer version was already delivered
func (s *Store) notify(snapshot []domain.Favorite, version uint64) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()
	if version <= s.delivered {
		return
	}
	s.delivered = version

	s.listenerMu.Lock()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenerMu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
}

func indexOf(entries []domain.Favorite, id int) int {
	for i, f := range entries {
		if f.GetID() == id {
			return i
		}
	}
	return -1
}

// dedupe keeps the first entry per ID; blobs written by older versions may
// hold duplicates.
func dedupe(favs []domain.Favorite) []domain.Favorite {
	seen := make(map[int]bool, len(favs))
	out := make([]domain.Favorite, 0, len(favs))
	for _, f := range favs {
		if seen[f.GetID()] {
			continue
		}
		seen[f.GetID()] = true
		out = append(out, f)
	}
	return out
}
