package service

import (
	"context"

	"threadcart/internal/model"

	"github.com/google/uuid"
)

// CatalogService defines read operations over the product catalogue.
type CatalogService interface {
	// ListProducts retrieves a filtered, sorted catalogue page.
	ListProducts(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)

	// GetProduct retrieves a product detail by slug. Returns nil when unknown.
	GetProduct(ctx context.Context, slug string) (*model.ProductDetail, error)

	// ListCategories retrieves all categories with product counts.
	ListCategories(ctx context.Context) ([]model.Category, error)
}

// CartService defines operations on the session-owned cart view-model.
type CartService interface {
	// Get retrieves the user's cart. A missing cart is an empty cart.
	Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error)

	// AddItem adds a line or increments an existing line's quantity.
	AddItem(ctx context.Context, userID uuid.UUID, item model.CartItem) (*model.Cart, error)

	// SetQuantity sets a line's quantity. Zero removes the line.
	SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.Cart, error)

	// RemoveItem removes a line from the cart.
	RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.Cart, error)

	// Clear empties the cart.
	Clear(ctx context.Context, userID uuid.UUID) error
}

// CheckoutService orchestrates checkout session creation.
type CheckoutService interface {
	// CreateSession validates the cart against the database, records the
	// order, payment and address, and returns the redirect URL. Zero-total
	// orders are settled synchronously without a provider call.
	CreateSession(ctx context.Context, sess model.Session, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

// WebhookService reconciles asynchronous payment-provider events.
type WebhookService interface {
	// HandleEvent verifies the signed payload and applies the resulting
	// order/payment state transition. Unknown event types are ignored.
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}

// AccountService defines signup, login and the account read paths.
type AccountService interface {
	// Signup registers a new account with a hashed password.
	Signup(ctx context.Context, req *model.SignupRequest) error

	// Login verifies credentials and issues a session token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)

	// Dashboard aggregates the user's order, address and wishlist counts
	// plus their most recent orders.
	Dashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardStats, error)

	// Orders retrieves all of the user's orders, newest first.
	Orders(ctx context.Context, userID uuid.UUID) ([]model.OrderSummary, error)

	// Addresses retrieves the user's saved addresses.
	Addresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error)

	// Wishlist retrieves the user's wishlist.
	Wishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)

	// AddToWishlist saves a product to the user's wishlist.
	AddToWishlist(ctx context.Context, userID, productID uuid.UUID) error

	// RemoveFromWishlist deletes a product from the user's wishlist.
	RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error
}

// CleanupAction selects the admin maintenance task to run. An empty action
// runs every task.
type CleanupAction string

const (
	CleanupRemovePendingOrders CleanupAction = "removePendingOrders"
	CleanupDedupeAddresses     CleanupAction = "dedupeAddresses"
)

// CleanupResult reports what an admin cleanup run removed.
type CleanupResult struct {
	PendingOrdersRemoved      int64 `json:"pendingOrdersRemoved"`
	DuplicateAddressesRemoved int   `json:"duplicateAddressesRemoved"`
}

// AdminService defines maintenance operations.
type AdminService interface {
	// Cleanup purges Pending orders and/or deduplicates addresses.
	Cleanup(ctx context.Context, action CleanupAction) (*CleanupResult, error)
}
