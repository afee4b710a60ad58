package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"threadcart/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// cartTTL bounds how long an untouched cart survives. A small jitter spreads
// expiry load across keys.
const (
	cartBaseTTL   = 30 * 24 * time.Hour
	cartTTLJitter = 6 * time.Hour
)

// cartService implements CartService on Redis. The cart is a serializable
// view-model owned by the session; nothing here is trusted at checkout time.
type cartService struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewCartService creates a Redis-backed cart service.
func NewCartService(client *redis.Client, logger zerolog.Logger) CartService {
	return &cartService{
		client: client,
		logger: logger.With().Str("service", "cart").Logger(),
	}
}

func cartKey(userID uuid.UUID) string {
	return "cart:" + userID.String()
}

// Get retrieves the user's cart. A missing cart is an empty cart.
func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &model.Cart{Items: []model.CartItem{}}, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}

	return &cart, nil
}

// AddItem adds a line or increments an existing line's quantity.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, item model.CartItem) (*model.Cart, error) {
	if item.ProductID == "" {
		return nil, model.ErrProductNotFound
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == item.ProductID {
			cart.Items[i].Quantity += item.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, item)
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity sets a line's quantity. Zero removes the line.
func (s *cartService) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.Cart, error) {
	if quantity < 0 {
		return nil, model.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, userID, productID)
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			if err := s.save(ctx, userID, cart); err != nil {
				return nil, err
			}
			return cart, nil
		}
	}

	return nil, model.ErrProductNotFound
}

// RemoveItem removes a line from the cart.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, it := range cart.Items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	cart.Items = kept

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.client.Del(ctx, cartKey(userID)).Err(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *cartService) save(ctx context.Context, userID uuid.UUID, cart *model.Cart) error {
	cart.UpdatedAt = time.Now()

	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart: %w", err)
	}

	ttl := cartBaseTTL + time.Duration(rand.Int63n(int64(cartTTLJitter)))
	if err := s.client.Set(ctx, cartKey(userID), data, ttl).Err(); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}

	return nil
}
