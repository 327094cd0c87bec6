package captcha

import (
	"context"
	"sync"
	"time"

	"github.com/H1W0XXX/chiralcarbon/errors"
)

// Store keeps pending challenges. Take removes the challenge it returns, so
// each challenge can be answered once.
type Store interface {
	Put(ctx context.Context, c *Challenge) error
	Take(ctx context.Context, id string) (*Challenge, error)
	// Purge drops challenges that expired before t and reports how many.
	Purge(ctx context.Context, t time.Time) (int, error)
	Close() error
}

func notFound(id string) error {
	return errors.WrapNotFound(errors.Newf("challenge %s", id), "take challenge")
}

// MemoryStore is a Store backed by a map.
type MemoryStore struct {
	mu         sync.Mutex
	challenges map[string]*Challenge
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{challenges: make(map[string]*Challenge)}
}

func (s *MemoryStore) Put(_ context.Context, c *Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.challenges[c.ID] = c
	return nil
}

func (s *MemoryStore) Take(_ context.Context, id string) (*Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.challenges[id]
	if !ok {
		return nil, notFound(id)
	}
	delete(s.challenges, id)
	return c, nil
}

func (s *MemoryStore) Purge(_ context.Context, t time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, c := range s.challenges {
		if c.ExpiresAt.Before(t) {
			delete(s.challenges, id)
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Close() error { return nil }
