package profilestore

import (
	"context"
	"sync"

	"github.com/jedalosa/energymatch/internal/domain/profile"
)

// MemoryStore keeps the single saved profile in process memory. Useful for
// tests and local dev; same fixed-key, last-write-wins semantics as Valkey.
type MemoryStore struct {
	mu    sync.RWMutex
	saved *profile.Profile
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save overwrites the stored profile.
func (s *MemoryStore) Save(_ context.Context, p profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = &p
	return nil
}

// Load returns the stored profile, if any.
func (s *MemoryStore) Load(_ context.Context) (profile.Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.saved == nil {
		return profile.Profile{}, false, nil
	}
	return *s.saved, true, nil
}

var _ profile.Store = (*MemoryStore)(nil)
