package repository

import (
	"context"

	"threadcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// List retrieves a page of active products matching the filter, along
	// with the total match count.
	List(ctx context.Context, filter model.ProductFilter) ([]model.ProductDetail, int, error)

	// GetBySlug retrieves a single product with images, category and stock.
	// Returns nil when the slug is unknown.
	GetBySlug(ctx context.Context, slug string) (*model.ProductDetail, error)

	// Resolve retrieves products matching any of the given ids, slugs or
	// case-insensitive titles.
	Resolve(ctx context.Context, ids []uuid.UUID, slugs []string, titles []string) ([]model.Product, error)

	// Categories retrieves all categories with their active product counts.
	Categories(ctx context.Context) ([]model.Category, error)

	// DecrementInventory reduces stock for a product within the provided
	// transaction.
	DecrementInventory(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error
}

// UserRepository defines the interface for account data access.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailInUse when the email
	// is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns nil when not found.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// UpsertByEmail finds or creates the user row keyed by email.
	UpsertByEmail(ctx context.Context, email string, name *string) (*model.User, error)

	// ListIDs retrieves all user ids.
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

// AddressRepository defines the interface for shipping address data access.
type AddressRepository interface {
	// FindMatch looks up an existing address for the user equal to the
	// normalized shipping input under case-insensitive comparison. Returns
	// nil when no match exists.
	FindMatch(ctx context.Context, userID uuid.UUID, shipping model.ShippingInput) (*model.Address, error)

	// Create inserts a new address.
	Create(ctx context.Context, address *model.Address) error

	// ListByUser retrieves the user's addresses, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// CountByUser counts the user's addresses.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// DeleteByIDs removes the given addresses.
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) error
}

// OrderRepository defines the interface for order and payment data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order item snapshots within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// CreatePayment inserts a payment row within the provided transaction.
	CreatePayment(ctx context.Context, tx pgx.Tx, payment *model.Payment) error

	// UpdateOrderStatus sets an order's status within the provided transaction.
	UpdateOrderStatus(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.OrderStatus) error

	// UpdatePaymentStatusByOrder sets the payment status for an order within
	// the provided transaction.
	UpdatePaymentStatusByOrder(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, status model.PaymentStatus) error

	// SetPaymentProviderRef stores the provider session reference on a payment.
	SetPaymentProviderRef(ctx context.Context, paymentID uuid.UUID, providerRef string) error

	// GetItems retrieves the item snapshots of an order within the provided
	// transaction.
	GetItems(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]model.OrderItem, error)

	// RecordWebhookEvent inserts a provider event id into the processed-event
	// ledger. Returns false when the event was already recorded.
	RecordWebhookEvent(ctx context.Context, tx pgx.Tx, eventID, eventType string) (bool, error)

	// ListByUser retrieves the user's orders with items, newest first.
	// A limit of 0 means no limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.OrderSummary, error)

	// CountByUser counts the user's orders.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)

	// DeletePending removes all Pending orders and their payments in a single
	// transaction. Returns the number of orders removed.
	DeletePending(ctx context.Context) (int64, error)
}

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	// Add saves a product to the user's wishlist. Adding an already saved
	// product is a no-op.
	Add(ctx context.Context, userID, productID uuid.UUID) error

	// Remove deletes a product from the user's wishlist.
	Remove(ctx context.Context, userID, productID uuid.UUID) error

	// ListByUser retrieves the user's wishlist, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)

	// CountByUser counts the user's wishlist entries.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
