package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps contexts in process memory. Everything is lost on restart.
// Idle contexts are not kept, and expired ones are swept at most once per TTL.
type MemoryStore struct {
	mu        sync.RWMutex
	items     map[int64]*Context
	ttl       time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[int64]*Context),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, chatID int64) (*Context, error) {
	s.mu.RLock()
	c, ok := s.items[chatID]
	s.mu.RUnlock()
	if !ok {
		return NewContext(), nil
	}
	if s.expired(c, s.now()) {
		s.mu.Lock()
		delete(s.items, chatID)
		s.mu.Unlock()
		return NewContext(), nil
	}
	return c.clone(), nil
}

func (s *MemoryStore) Save(_ context.Context, chatID int64, c *Context) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.State == Idle {
		delete(s.items, chatID)
	} else {
		stored := c.clone()
		stored.UpdatedAt = now
		s.items[chatID] = stored
	}

	if s.ttl > 0 && now.Sub(s.lastSweep) >= s.ttl {
		for id, item := range s.items {
			if s.expired(item, now) {
				delete(s.items, id)
			}
		}
		s.lastSweep = now
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, chatID int64) error {
	s.mu.Lock()
	delete(s.items, chatID)
	s.mu.Unlock()
	return nil
}

// Len reports how many contexts are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *MemoryStore) expired(c *Context, now time.Time) bool {
	return s.ttl > 0 && now.Sub(c.UpdatedAt) > s.ttl
}
