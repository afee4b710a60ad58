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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (id, user_id, address_id, status, total, promo_code, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query, order.ID, order.UserID, order.AddressID,
		order.Status, order.Total, order.PromoCode, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().Str("order_id", order.ID.String()).Msg("order created")
	return nil
}

// CreateOrderItems inserts order item snapshots within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().Int("count", len(items)).Msg("order items created")
	return nil
}

// CreatePayment inserts a payment row within the provided transaction.
func (r *orderRepository) CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error {
	query := `
		INSERT INTO payments (id, order_id, amount, currency, status, provider_ref, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := tx.Exec(ctx, query, payment.ID, payment.OrderID, payment.Amount,
		payment.Currency, payment.Status, payment.ProviderRef,
		payment.CreatedAt, payment.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("payment_id", payment.ID.String()).
			Str("order_id", payment.OrderID.String()).
			Msg("failed to create payment")
		return fmt.Errorf("failed to create payment: %w", err)
	}

	return nil
}

// UpdateOrderStatus sets an order's status within the provided transaction.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
	`

	_, err := tx.Exec(ctx, query, orderID, status)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", orderID.String()).
			Str("status", status.String()).
			Msg("failed to update order status")
		return fmt.Errorf("failed to update order status: %w", err)
	}

	return nil
}

// UpdatePaymentStatusByOrder sets the payment status for an order within the
// provided transaction.
func (r *orderRepository) UpdatePaymentStatusByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.PaymentStatus) error {
	query := `
		UPDATE payments
		SET status = $2, updated_at = now()
		WHERE order_id = $1
	`

	_, err := tx.Exec(ctx, query, orderID, status)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", orderID.String()).
			Str("status", status.String()).
			Msg("failed to update payment status")
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	return nil
}

// SetPaymentProviderRef stores the provider session reference on a payment.
func (r *orderRepository) SetPaymentProviderRef(ctx context.Context, paymentID uuid.UUID, providerRef string) error {
	query := `
		UPDATE payments
		SET provider_ref = $2, updated_at = now()
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, paymentID, providerRef)
	if err != nil {
		r.logger.Error().Err(err).
			Str("payment_id", paymentID.String()).
			Msg("failed to set provider reference")
		return fmt.Errorf("failed to set provider reference: %w", err)
	}

	return nil
}

// GetItems retrieves the item snapshots of an order within the provided transaction.
func (r *orderRepository) GetItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`

	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

// RecordWebhookEvent inserts a provider event id into the processed-event
// ledger. A conflict on the primary key means the event was already handled.
func (r *orderRepository) RecordWebhookEvent(ctx context.Context, tx pgx.Tx, eventID, eventType string) (bool, error) {
	query := `
		INSERT INTO webhook_events (id, event_type, received_at)
		VALUES ($1, $2, now())
		ON CONFLICT (id) DO NOTHING
	`

	tag, err := tx.Exec(ctx, query, eventID, eventType)
	if err != nil {
		r.logger.Error().Err(err).Str("event_id", eventID).Msg("failed to record webhook event")
		return false, fmt.Errorf("failed to record webhook event: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// ListByUser retrieves the user's orders with items, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.OrderSummary, error) {
	query := `
		SELECT id, user_id, address_id, status, total, promo_code, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.OrderSummary
	index := make(map[uuid.UUID]int)
	var ids []uuid.UUID
	for rows.Next() {
		var o model.OrderSummary
		err := rows.Scan(&o.ID, &o.UserID, &o.AddressID, &o.Status, &o.Total,
			&o.PromoCode, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if len(orders) == 0 {
		return orders, nil
	}

	itemsQuery := `
		SELECT id, order_id, product_id, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`

	itemRows, err := r.pool.Query(ctx, itemsQuery, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var item model.OrderItem
		if err := itemRows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err := itemRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return orders, nil
}

// CountByUser counts the user's orders.
func (r *orderRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to count orders")
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// DeletePending removes all Pending orders and their payments in a single
// transaction.
func (r *orderRepository) DeletePending(ctx context.Context) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		DELETE FROM payments
		WHERE order_id IN (SELECT id FROM orders WHERE status = $1)
	`, model.OrderStatusPending)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete pending payments")
		return 0, fmt.Errorf("failed to delete pending payments: %w", err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE status = $1`, model.OrderStatusPending)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete pending orders")
		return 0, fmt.Errorf("failed to delete pending orders: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to commit pending cleanup")
		return 0, fmt.Errorf("failed to commit pending cleanup: %w", err)
	}

	r.logger.Info().Int64("orders_removed", tag.RowsAffected()).Msg("pending orders purged")
	return tag.RowsAffected(), nil
}
