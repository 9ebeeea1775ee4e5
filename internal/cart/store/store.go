// Package store persists carts in Redis as JSON blobs.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cotizador_backend/internal/cart/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Config provides the cart storage settings.
type Config interface {
	GetCartTTL() time.Duration
}

// Store reads and writes carts keyed by user.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a cart store backed by the given Redis client.
func New(client *redis.Client, cfg Config) *Store {
	return &Store{client: client, ttl: cfg.GetCartTTL()}
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

// Get loads the user's cart. A missing key yields an empty cart.
func (s *Store) Get(ctx context.Context, userID uuid.UUID) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.NewCart(userID), nil
		}
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

// Save writes the cart back, refreshing its TTL.
func (s *Store) Save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

// Delete removes the user's cart. Deleting an absent cart is not an error.
func (s *Store) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}
