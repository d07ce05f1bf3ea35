package cache

import (
	"context"
	"sync"
	"time"

	"github.com/coffeehouse/backend/internal/domain/cart"
)

type cartEntry struct {
	data      *cart.Cart
	expiresAt time.Time
}

// InMemoryCartStore implements cart.Store using an in-memory map.
// This is suitable for single-instance deployments and testing.
// Carts are not shared across process instances.
type InMemoryCartStore struct {
	mu        sync.RWMutex
	carts     map[string]cartEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryCartStore creates an in-memory cart store and starts a
// background goroutine that evicts expired carts
func NewInMemoryCartStore(ttl time.Duration) *InMemoryCartStore {
	store := &InMemoryCartStore{
		carts:    make(map[string]cartEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Get loads the cart for an owner, returning a fresh empty cart when none
// is stored or the stored one has expired
func (s *InMemoryCartStore) Get(ctx context.Context, ownerID string) (*cart.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.carts[ownerID]
	if !exists || time.Now().After(e.expiresAt) {
		return cart.NewCart(ownerID), nil
	}

	// Copy so callers cannot mutate the stored cart in place
	c := *e.data
	c.Items = make([]cart.Item, len(e.data.Items))
	copy(c.Items, e.data.Items)
	return &c, nil
}

// Save stores the cart and refreshes its TTL
func (s *InMemoryCartStore) Save(ctx context.Context, c *cart.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *c
	stored.Items = make([]cart.Item, len(c.Items))
	copy(stored.Items, c.Items)

	s.carts[c.OwnerID] = cartEntry{
		data:      &stored,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Delete removes the cart for an owner
func (s *InMemoryCartStore) Delete(ctx context.Context, ownerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, ownerID)
	return nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryCartStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored carts (for testing/monitoring)
func (s *InMemoryCartStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.carts)
}

func (s *InMemoryCartStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *InMemoryCartStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for ownerID, e := range s.carts {
		if now.After(e.expiresAt) {
			delete(s.carts, ownerID)
		}
	}
}

var _ cart.Store = (*InMemoryCartStore)(nil)
