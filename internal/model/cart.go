package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the session-owned view-model of a shopper's selections. Prices held
// here are display values only; checkout re-resolves every line against the
// database.
type Cart struct {
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem is a single cart line.
type CartItem struct {
	ProductID string          `json:"productId"`
	Slug      string          `json:"slug,omitempty"`
	Title     string          `json:"title,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
}

// TotalItems returns the summed quantity across all lines.
func (c Cart) TotalItems() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// TotalPrice returns the display total based on the client-visible prices.
func (c Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
