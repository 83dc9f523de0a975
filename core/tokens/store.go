package tokens

import (
	"context"
	"sync"

	"quiz-manager/core/domain"
)

// Store persists the bearer access token and the refresh token.
type Store interface {
	// Get returns the stored pair. An empty pair is not an error.
	Get(ctx context.Context) (domain.TokenPair, error)
	// Set replaces the stored pair.
	Set(ctx context.Context, pair domain.TokenPair) error
	// Clear removes both tokens.
	Clear(ctx context.Context) error
}

// MemoryStore keeps tokens in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	pair domain.TokenPair
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(_ context.Context) (domain.TokenPair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pair, nil
}

func (s *MemoryStore) Set(_ context.Context, pair domain.TokenPair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = pair
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = domain.TokenPair{}
	return nil
}
