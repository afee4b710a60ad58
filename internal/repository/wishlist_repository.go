package repository

import (
	"context"
	"fmt"

	"threadcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// wishlistRepository implements the WishlistRepository interface using PostgreSQL.
type wishlistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) WishlistRepository {
	return &wishlistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wishlist").Logger(),
	}
}

// Add saves a product to the user's wishlist. Re-adding is a no-op.
func (r *wishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	query := `
		INSERT INTO wishlists (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	_, err := r.pool.Exec(ctx, query, uuid.New(), userID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to add wishlist entry")
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}

	return nil
}

// Remove deletes a product from the user's wishlist.
func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`

	_, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to remove wishlist entry")
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}

	return nil
}

// ListByUser retrieves the user's wishlist, newest first.
func (r *wishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	query := `
		SELECT id, user_id, product_id, created_at
		FROM wishlists
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query wishlist")
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	var items []model.WishlistItem
	for rows.Next() {
		var item model.WishlistItem
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan wishlist row")
			return nil, fmt.Errorf("failed to scan wishlist entry: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}

	return items, nil
}

// CountByUser counts the user's wishlist entries.
func (r *wishlistRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM wishlists WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to count wishlist")
		return 0, fmt.Errorf("failed to count wishlist: %w", err)
	}
	return count, nil
}
