package cart

import "context"

// Store persists carts keyed by owner
// Implementations back this with Redis in production and memory in tests
type Store interface {
	// Get loads the owner's cart, returning an empty cart when none exists
	Get(ctx context.Context, ownerID string) (*Cart, error)

	// Save persists the cart, refreshing its TTL
	Save(ctx context.Context, cart *Cart) error

	// Delete removes the owner's cart
	Delete(ctx context.Context, ownerID string) error
}
