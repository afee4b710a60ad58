package repository

import (
	"context"
	"fmt"

	"threadcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// addressRepository implements the AddressRepository interface using PostgreSQL.
type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

// FindMatch looks up an existing address equal to the normalized shipping
// input. Comparison is case-insensitive; line2, state and phone only
// constrain the match when the input supplies them.
func (r *addressRepository) FindMatch(ctx context.Context, userID uuid.UUID, shipping model.ShippingInput) (*model.Address, error) {
	query := `
		SELECT id, user_id, name, line1, line2, city, state, postal_code, country, phone, created_at
		FROM addresses
		WHERE user_id = $1
		  AND lower(name) = lower($2)
		  AND lower(line1) = lower($3)
		  AND ($4 = '' OR lower(COALESCE(line2, '')) = lower($4))
		  AND lower(city) = lower($5)
		  AND ($6 = '' OR lower(COALESCE(state, '')) = lower($6))
		  AND lower(postal_code) = lower($7)
		  AND lower(country) = lower($8)
		  AND ($9 = '' OR COALESCE(phone, '') = $9)
		ORDER BY created_at
		LIMIT 1
	`

	var a model.Address
	err := r.pool.QueryRow(ctx, query,
		userID, shipping.Name, shipping.Line1, shipping.Line2, shipping.City,
		shipping.State, shipping.PostalCode, shipping.Country, shipping.Phone,
	).Scan(&a.ID, &a.UserID, &a.Name, &a.Line1, &a.Line2, &a.City, &a.State,
		&a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to match address")
		return nil, fmt.Errorf("failed to match address: %w", err)
	}

	return &a, nil
}

// Create inserts a new address.
func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	query := `
		INSERT INTO addresses (id, user_id, name, line1, line2, city, state, postal_code, country, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		address.ID, address.UserID, address.Name, address.Line1, address.Line2,
		address.City, address.State, address.PostalCode, address.Country,
		address.Phone, address.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", address.UserID.String()).
			Msg("failed to create address")
		return fmt.Errorf("failed to create address: %w", err)
	}

	r.logger.Debug().Str("address_id", address.ID.String()).Msg("address created")
	return nil
}

// ListByUser retrieves the user's addresses, oldest first.
func (r *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := `
		SELECT id, user_id, name, line1, line2, city, state, postal_code, country, phone, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []model.Address
	for rows.Next() {
		var a model.Address
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Line1, &a.Line2, &a.City,
			&a.State, &a.PostalCode, &a.Country, &a.Phone, &a.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan address row")
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}

	return addresses, nil
}

// CountByUser counts the user's addresses.
func (r *addressRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to count addresses")
		return 0, fmt.Errorf("failed to count addresses: %w", err)
	}
	return count, nil
}

// DeleteByIDs removes the given addresses.
func (r *addressRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	_, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = ANY($1)`, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to delete addresses")
		return fmt.Errorf("failed to delete addresses: %w", err)
	}

	r.logger.Debug().Int("count", len(ids)).Msg("addresses deleted")
	return nil
}
