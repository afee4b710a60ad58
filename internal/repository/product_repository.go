package repository

import (
	"context"
	"fmt"
	"strings"

	"threadcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// List retrieves a page of active products matching the filter.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.ProductDetail, int, error) {
	where, args := buildProductWhere(filter)

	countQuery := `
		SELECT COUNT(*)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN inventory i ON i.product_id = p.id
	` + where

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var orderBy string
	switch filter.Sort {
	case model.SortPriceAsc:
		orderBy = "p.price ASC, p.created_at DESC"
	case model.SortPriceDesc:
		orderBy = "p.price DESC, p.created_at DESC"
	default:
		orderBy = "p.created_at DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * model.CatalogPageSize

	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.description, p.price, p.is_active,
		       p.category_id, p.created_at, COALESCE(i.quantity, 0)
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN inventory i ON i.product_id = p.id
		%s
		ORDER BY %s
		LIMIT %d OFFSET %d
	`, where, orderBy, model.CatalogPageSize, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.ProductDetail
	for rows.Next() {
		var p model.ProductDetail
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price,
			&p.IsActive, &p.CategoryID, &p.CreatedAt, &p.Quantity)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.attachImages(ctx, products); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// buildProductWhere assembles the WHERE clause for catalogue filtering.
func buildProductWhere(filter model.ProductFilter) (string, []any) {
	conds := []string{"p.is_active"}
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		conds = append(conds, fmt.Sprintf("p.title ILIKE '%%' || %s || '%%'", arg(q)))
	}
	if filter.CategorySlug != "" {
		conds = append(conds, fmt.Sprintf("c.slug = %s", arg(filter.CategorySlug)))
	}
	if filter.MinPrice != nil {
		conds = append(conds, fmt.Sprintf("p.price >= %s", arg(*filter.MinPrice)))
	}
	if filter.MaxPrice != nil {
		conds = append(conds, fmt.Sprintf("p.price <= %s", arg(*filter.MaxPrice)))
	}
	if filter.InStockOnly {
		conds = append(conds, "COALESCE(i.quantity, 0) > 0")
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

// attachImages loads ordered images for the given products in one query.
func (r *productRepository) attachImages(ctx context.Context, products []model.ProductDetail) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(products))
	index := make(map[uuid.UUID]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
		index[p.ID] = i
	}

	query := `
		SELECT id, product_id, url, alt, sort_order
		FROM product_images
		WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query product images")
		return fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img model.ProductImage
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.Alt, &img.SortOrder); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product image row")
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		if i, ok := index[img.ProductID]; ok {
			products[i].Images = append(products[i].Images, img)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating product images: %w", err)
	}

	return nil
}

// GetBySlug retrieves a single product with images, category and stock.
func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.ProductDetail, error) {
	query := `
		SELECT p.id, p.title, p.slug, p.description, p.price, p.is_active,
		       p.category_id, p.created_at, COALESCE(i.quantity, 0),
		       c.id, c.name, c.slug
		FROM products p
		JOIN categories c ON c.id = p.category_id
		LEFT JOIN inventory i ON i.product_id = p.id
		WHERE p.slug = $1 AND p.is_active
	`

	var p model.ProductDetail
	var cat model.Category
	err := r.pool.QueryRow(ctx, query, slug).Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.IsActive,
		&p.CategoryID, &p.CreatedAt, &p.Quantity,
		&cat.ID, &cat.Name, &cat.Slug,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("slug", slug).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	p.Category = &cat

	items := []model.ProductDetail{p}
	if err := r.attachImages(ctx, items); err != nil {
		return nil, err
	}

	return &items[0], nil
}

// Resolve retrieves products matching any of the given ids, slugs or
// case-insensitive titles.
func (r *productRepository) Resolve(ctx context.Context, ids []uuid.UUID, slugs []string, titles []string) ([]model.Product, error) {
	if len(ids) == 0 && len(slugs) == 0 && len(titles) == 0 {
		return []model.Product{}, nil
	}

	lowered := make([]string, len(titles))
	for i, t := range titles {
		lowered[i] = strings.ToLower(strings.TrimSpace(t))
	}

	query := `
		SELECT id, title, slug, description, price, is_active, category_id, created_at
		FROM products
		WHERE id = ANY($1) OR slug = ANY($2) OR lower(title) = ANY($3)
	`

	rows, err := r.pool.Query(ctx, query, ids, slugs, lowered)
	if err != nil {
		r.logger.Error().Err(err).
			Int("ids", len(ids)).
			Int("slugs", len(slugs)).
			Int("titles", len(titles)).
			Msg("failed to resolve products")
		return nil, fmt.Errorf("failed to resolve products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price,
			&p.IsActive, &p.CategoryID, &p.CreatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Categories retrieves all categories with their active product counts.
func (r *productRepository) Categories(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT c.id, c.name, c.slug, COUNT(p.id) FILTER (WHERE p.is_active)
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id, c.name, c.slug
		ORDER BY c.name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.ProductCount); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// DecrementInventory reduces stock for a product within the provided transaction.
func (r *productRepository) DecrementInventory(ctx context.Context, tx pgx.Tx, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE inventory
		SET quantity = quantity - $2
		WHERE product_id = $1
	`

	_, err := tx.Exec(ctx, query, productID, quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", productID.String()).
			Int("quantity", quantity).
			Msg("failed to decrement inventory")
		return fmt.Errorf("failed to decrement inventory: %w", err)
	}

	return nil
}
