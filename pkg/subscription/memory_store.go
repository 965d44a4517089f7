package subscription

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu   sync.RWMutex
	subs map[string]Subscription
	now  func() time.Time
}

// NewMemoryStore returns a Store backed by a map.
// Records are copied on the way in and out so callers cannot mutate stored state.
// Intended for tests and local development without a database.
func NewMemoryStore() Store {
	return &memoryStore{
		subs: make(map[string]Subscription),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *memoryStore) Create(ctx context.Context, sub *Subscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.subs[sub.Email]; exists {
		return ErrDuplicateKey
	}

	rec := *sub
	if rec.Status == "" {
		rec.Status = StatusIncomplete
	}
	now := s.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}
	s.subs[rec.Email] = rec
	return nil
}

func (s *memoryStore) UpdateByEmail(ctx context.Context, email string, u Update) (bool, error) {
	if u.IsEmpty() {
		return false, nil
	}
	if err := u.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.subs[email]
	if !ok {
		return false, nil
	}
	rec.Apply(u, s.now())
	s.subs[email] = rec
	return true, nil
}

func (s *memoryStore) GetByEmail(ctx context.Context, email string) (*Subscription, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.subs[email]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *memoryStore) GetByCustomerID(ctx context.Context, customerID string) (*Subscription, error) {
	if customerID == "" {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.subs {
		if rec.ProviderCustomerID == customerID {
			return &rec, nil
		}
	}
	return nil, ErrNotFound
}
