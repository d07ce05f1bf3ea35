package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/coffeehouse/backend/internal/domain/cart"
	"github.com/redis/go-redis/v9"
)

const defaultCartKeyPrefix = "cart:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisCartStore persists carts as JSON documents in Redis, one key per
// owner, refreshed with a sliding TTL on every save
type RedisCartStore struct {
	client     *redis.Client
	ownsClient bool
	keyPrefix  string
	ttl        time.Duration
}

// NewRedisCartStore creates a Redis-backed cart store with its own client
func NewRedisCartStore(cfg RedisConfig, ttl time.Duration) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCartStore{
		client:     client,
		ownsClient: true,
		keyPrefix:  defaultCartKeyPrefix,
		ttl:        ttl,
	}, nil
}

// NewRedisCartStoreWithClient creates a store with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisCartStoreWithClient(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client:    client,
		keyPrefix: defaultCartKeyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisCartStore) cartKey(ownerID string) string {
	return s.keyPrefix + ownerID
}

// Get loads the cart for an owner. A missing or undecodable value yields a
// fresh empty cart; a corrupt blob must never lock the owner out.
func (s *RedisCartStore) Get(ctx context.Context, ownerID string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, s.cartKey(ownerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.NewCart(ownerID), nil
		}
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return decodeCart(ownerID, data), nil
}

// decodeCart unmarshals a stored cart, falling back to an empty cart when
// the payload is corrupt. The next save overwrites the bad value.
func decodeCart(ownerID string, data []byte) *cart.Cart {
	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil || c.OwnerID == "" {
		return cart.NewCart(ownerID)
	}
	return &c
}

// Save stores the cart and refreshes its TTL
func (s *RedisCartStore) Save(ctx context.Context, c *cart.Cart) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.client.Set(ctx, s.cartKey(c.OwnerID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes the cart for an owner. Deleting a missing cart is not
// an error.
func (s *RedisCartStore) Delete(ctx context.Context, ownerID string) error {
	if err := s.client.Del(ctx, s.cartKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// Close closes the Redis client if this store created it
func (s *RedisCartStore) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}

var _ cart.Store = (*RedisCartStore)(nil)
