package model

import (
	"time"

	"github.com/google/uuid"
)

// WishlistItem links a user to a saved product.
type WishlistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// DashboardStats is the read-only aggregation behind the account dashboard.
type DashboardStats struct {
	OrderCount    int            `json:"orderCount"`
	AddressCount  int            `json:"addressCount"`
	WishlistCount int            `json:"wishlistCount"`
	RecentOrders  []OrderSummary `json:"recentOrders"`
}
