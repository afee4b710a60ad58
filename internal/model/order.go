package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPaid      OrderStatus = "Paid"
	OrderStatusExpired   OrderStatus = "Expired"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// IsTerminal reports whether no further transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusPaid || s == OrderStatusExpired || s == OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order represents a customer order.
type Order struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"-" db:"user_id"`
	AddressID uuid.UUID       `json:"addressId" db:"address_id"`
	Status    OrderStatus     `json:"status" db:"status"`
	Total     decimal.Decimal `json:"total" db:"total"`
	PromoCode *string         `json:"promoCode,omitempty" db:"promo_code"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderItem is a line-item snapshot. Price is captured at order-creation time
// so later catalogue changes never alter what was charged.
type OrderItem struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Price     decimal.Decimal `json:"price" db:"price"`
}

// OrderSummary is an order with its item snapshots, as surfaced on the
// account pages.
type OrderSummary struct {
	Order
	Items []OrderItem `json:"items"`
}

// CheckoutItemRequest references a cart line by product id, slug or title.
// Identifiers are tried in that sequence; the price field is untrusted and
// ignored for charging.
type CheckoutItemRequest struct {
	ProductID string          `json:"productId,omitempty"`
	Slug      string          `json:"slug,omitempty"`
	Title     string          `json:"title,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
	Price     decimal.Decimal `json:"price,omitempty"`
}

// Identifier returns the first present reference for error reporting.
func (r CheckoutItemRequest) Identifier() string {
	switch {
	case r.ProductID != "":
		return r.ProductID
	case r.Slug != "":
		return r.Slug
	case r.Title != "":
		return r.Title
	default:
		return "unknown"
	}
}

// CheckoutRequest is the request payload for creating a checkout session.
type CheckoutRequest struct {
	Shipping   ShippingInput         `json:"shipping"`
	Items      []CheckoutItemRequest `json:"items"`
	PromoCode  string                `json:"promoCode,omitempty"`
	SuccessURL string                `json:"successUrl,omitempty"`
	CancelURL  string                `json:"cancelUrl,omitempty"`
}

// CheckoutResponse carries the redirect URL for the client, plus any cart
// references that could not be resolved and were dropped from the order.
type CheckoutResponse struct {
	URL     string   `json:"url"`
	OrderID string   `json:"orderId"`
	Missing []string `json:"missing,omitempty"`
}
