package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a catalogue product.
type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Slug        string          `json:"slug" db:"slug"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	CategoryID  uuid.UUID       `json:"categoryId" db:"category_id"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// ProductImage represents an ordered product image.
type ProductImage struct {
	ID        uuid.UUID `json:"-" db:"id"`
	ProductID uuid.UUID `json:"-" db:"product_id"`
	URL       string    `json:"url" db:"url"`
	Alt       string    `json:"alt" db:"alt"`
	SortOrder int       `json:"-" db:"sort_order"`
}

// Category represents a product category.
type Category struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Slug         string    `json:"slug" db:"slug"`
	ProductCount int       `json:"productCount,omitempty" db:"product_count"`
}

// ProductDetail is the full product view with images and stock.
type ProductDetail struct {
	Product
	Images   []ProductImage `json:"images"`
	Category *Category      `json:"category,omitempty"`
	Quantity int            `json:"quantity"`
}

// Catalogue sort orders.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// CatalogPageSize is the fixed product listing page size.
const CatalogPageSize = 12

// ProductFilter holds catalogue listing parameters.
type ProductFilter struct {
	Query        string
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	InStockOnly  bool
	Sort         string
	Page         int
}

// ProductPage is a single page of catalogue listing results.
type ProductPage struct {
	Items      []ProductDetail `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
}
