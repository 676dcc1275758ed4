package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/supplychain/internal/domain/shared"
)

type storedEntry struct {
	resp      shared.StoredResponse
	expiresAt time.Time
}

// InMemoryIdempotencyStore keeps idempotent responses in process memory.
// It suits single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	responses map[string]storedEntry
	locks     map[string]time.Time
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates a store and starts its sweeper, which
// drops expired entries every interval
func NewInMemoryIdempotencyStore(interval time.Duration) *InMemoryIdempotencyStore {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	s := &InMemoryIdempotencyStore{
		responses: make(map[string]storedEntry),
		locks:     make(map[string]time.Time),
		now:       time.Now,
		stopChan:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.sweepLoop(interval)
	return s
}

// Get returns the stored response for key
func (s *InMemoryIdempotencyStore) Get(_ context.Context, key string) (*shared.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.responses[key]
	if !ok || !s.now().Before(e.expiresAt) {
		return nil, nil
	}
	resp := e.resp
	resp.Body = append([]byte(nil), e.resp.Body...)
	return &resp, nil
}

// Save stores resp for key until ttl elapses
func (s *InMemoryIdempotencyStore) Save(_ context.Context, key string, resp *shared.StoredResponse, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *resp
	stored.Body = append([]byte(nil), resp.Body...)
	s.responses[key] = storedEntry{resp: stored, expiresAt: s.now().Add(ttl)}
	return nil
}

// Lock claims key until the returned release runs or ttl elapses
func (s *InMemoryIdempotencyStore) Lock(_ context.Context, key string, ttl time.Duration) (func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if until, held := s.locks[key]; held && now.Before(until) {
		return nil, shared.ErrIdempotencyKeyInUse
	}
	until := now.Add(ttl)
	s.locks[key] = until

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			// a claim that expired and was taken over belongs to someone else
			if s.locks[key].Equal(until) {
				delete(s.locks, key)
			}
		})
	}, nil
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) sweepLoop(interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.responses {
		if !now.Before(e.expiresAt) {
			delete(s.responses, k)
		}
	}
	for k, until := range s.locks {
		if !now.Before(until) {
			delete(s.locks, k)
		}
	}
}

// Size returns the number of stored responses
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.responses)
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
