package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps windows in a map. Expired windows are dropped by a
// sweeper goroutine that stops on Close.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time

	sweepEvery time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often expired windows are removed. Zero disables sweeping.
func WithSweepInterval(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) { s.sweepEvery = d }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:    make(map[string]*window),
		now:        time.Now,
		sweepEvery: 5 * time.Minute,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sweepEvery > 0 {
		go s.sweep()
	}
	return s
}

func (s *MemoryStore) Incr(_ context.Context, key string, d time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = &window{resetAt: now.Add(d)}
		s.windows[key] = w
	}
	w.count++
	return w.count, w.resetAt, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.windows, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of tracked keys, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryStore) Close() {
	s.stopOnce.Do(func() { close(s.stop) })
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(s.sweepEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.removeExpired()
		case <-s.stop:
			return
		}
	}
}

func (s *MemoryStore) removeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for key, w := range s.windows {
		if !now.Before(w.resetAt) {
			delete(s.windows, key)
		}
	}
}
