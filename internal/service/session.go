package service

import (
	"fmt"

	"github.com/mmcdole/reel/internal/domain"
)

// SessionService manages locally remembered state
type SessionService struct {
	kv domain.KVStore
}

// NewSessionService creates a new SessionService
func NewSessionService(kv domain.KVStore) *SessionService {
	return &SessionService{kv: kv}
}

// StoredKeys returns every key the app persists
func StoredKeys() []string {
	return []string{domain.KeyFavorites, domain.KeyTheme}
}

// Reset forgets favorites and the theme choice. Stores already hydrated
// from kv keep their in-memory copy.
func (s *SessionService) Reset() error {
	for _, key := range StoredKeys() {
		if err := s.kv.Delete(key); err != nil {
			return fmt.Errorf("failed to clear %s: %w", key, err)
		}
	}
	return nil
}
