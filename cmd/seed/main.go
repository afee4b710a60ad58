package main

import (
	"context"
	"fmt"
	"os"

	"threadcart/internal/config"
	"threadcart/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// seedImage is a product image fixture.
type seedImage struct {
	url string
	alt string
}

// seedProduct is a catalogue fixture.
type seedProduct struct {
	title        string
	slug         string
	description  string
	price        string
	categorySlug string
	images       []seedImage
	quantity     int
}

var seedCategories = []struct {
	name string
	slug string
}{
	{"T-shirts", "t-shirts"},
	{"Jeans", "jeans"},
	{"Shoes", "shoes"},
	{"Fashion", "fashion"},
	{"Home", "home"},
}

var seedProducts = []seedProduct{
	{
		title:        "Classic White Tee",
		slug:         "classic-white-tee",
		description:  "Soft cotton crew neck t-shirt in white.",
		price:        "19.99",
		categorySlug: "t-shirts",
		images: []seedImage{
			{"/images/p11-1.jpg", "Classic White Tee front"},
			{"/images/p11-2.jpg", "Classic White Tee back"},
		},
		quantity: 100,
	},
	{
		title:        "Graphic Black Tee",
		slug:         "graphic-black-tee",
		description:  "Black tee with minimal graphic print.",
		price:        "24.99",
		categorySlug: "t-shirts",
		images: []seedImage{
			{"/images/p12-1.jpg", "Graphic Black Tee front"},
			{"/images/p12-2.jpg", "Graphic Black Tee detail"},
		},
		quantity: 80,
	},
	{
		title:        "Slim Fit Jeans",
		slug:         "slim-fit-jeans",
		description:  "Mid-rise slim fit denim in indigo.",
		price:        "49.99",
		categorySlug: "jeans",
		images: []seedImage{
			{"/images/p21-1.jpg", "Slim Fit Jeans front"},
			{"/images/p21-2.jpg", "Slim Fit Jeans back"},
		},
		quantity: 60,
	},
	{
		title:        "Relaxed Fit Jeans",
		slug:         "relaxed-fit-jeans",
		description:  "Comfortable relaxed fit denim.",
		price:        "44.99",
		categorySlug: "jeans",
		images: []seedImage{
			{"/images/p22-1.jpg", "Relaxed Fit Jeans front"},
			{"/images/p22-2.jpg", "Relaxed Fit Jeans back"},
		},
		quantity: 70,
	},
	{
		title:        "Everyday Sneakers",
		slug:         "everyday-sneakers",
		description:  "Lightweight sneakers for daily wear.",
		price:        "59.99",
		categorySlug: "shoes",
		images: []seedImage{
			{"/images/p31-1.jpg", "Everyday Sneakers side"},
			{"/images/p31-2.jpg", "Everyday Sneakers top"},
		},
		quantity: 90,
	},
	{
		title:        "Running Trainers",
		slug:         "running-trainers",
		description:  "Breathable trainers with cushioned sole.",
		price:        "79.99",
		categorySlug: "shoes",
		images: []seedImage{
			{"/images/p32-1.jpg", "Running Trainers side"},
			{"/images/p32-2.jpg", "Running Trainers sole"},
		},
		quantity: 50,
	},
	{
		title:        "Summer Dress",
		slug:         "summer-dress",
		description:  "Lightweight summer dress for everyday wear.",
		price:        "39.99",
		categorySlug: "fashion",
		images: []seedImage{
			{"/images/p21-1.jpg", "Summer Dress front"},
			{"/images/p21-2.jpg", "Summer Dress back"},
		},
		quantity: 75,
	},
	{
		title:        "Leather Belt",
		slug:         "leather-belt",
		description:  "Genuine leather belt with classic buckle.",
		price:        "24.99",
		categorySlug: "fashion",
		images: []seedImage{
			{"/images/p22-1.jpg", "Leather Belt front"},
			{"/images/p22-2.jpg", "Leather Belt detail"},
		},
		quantity: 120,
	},
	{
		title:        "Cotton Bedsheet",
		slug:         "cotton-bedsheet",
		description:  "Queen size soft cotton bedsheet.",
		price:        "34.99",
		categorySlug: "home",
		images: []seedImage{
			{"/images/p31-1.jpg", "Cotton Bedsheet folded"},
			{"/images/p31-2.jpg", "Cotton Bedsheet texture"},
		},
		quantity: 90,
	},
	{
		title:        "Ceramic Vase",
		slug:         "ceramic-vase",
		description:  "Minimal ceramic vase for decor.",
		price:        "19.99",
		categorySlug: "home",
		images: []seedImage{
			{"/images/p32-1.jpg", "Ceramic Vase front"},
			{"/images/p32-2.jpg", "Ceramic Vase detail"},
		},
		quantity: 110,
	},
}

var seedUsers = []struct {
	email string
	name  string
	role  string
}{
	{"admin@example.com", "Admin", "ADMIN"},
	{"alice@example.com", "Alice", "CUSTOMER"},
	{"bob@example.com", "Bob", "CUSTOMER"},
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := config.NewLogger(cfg.Logger)

	ctx := context.Background()

	if err := database.Migrate(cfg.Database.ConnectionString(), logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, u := range seedUsers {
		_, err := tx.Exec(ctx, `
			INSERT INTO users (id, email, name, role, created_at)
			VALUES (gen_random_uuid(), $1, $2, $3, now())
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role`,
			u.email, u.name, u.role)
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
	}

	categoryIDs := make(map[string]string, len(seedCategories))
	for _, c := range seedCategories {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO categories (id, name, slug)
			VALUES (gen_random_uuid(), $1, $2)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			c.name, c.slug).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to seed category %s: %w", c.slug, err)
		}
		categoryIDs[c.slug] = id
	}

	for _, p := range seedProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return fmt.Errorf("invalid price for %s: %w", p.slug, err)
		}

		var productID string
		err = tx.QueryRow(ctx, `
			INSERT INTO products (id, title, slug, description, price, is_active, category_id, created_at)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, true, $5, now())
			ON CONFLICT (slug) DO UPDATE SET
				title = EXCLUDED.title,
				description = EXCLUDED.description,
				price = EXCLUDED.price,
				category_id = EXCLUDED.category_id
			RETURNING id`,
			p.title, p.slug, p.description, price, categoryIDs[p.categorySlug]).Scan(&productID)
		if err != nil {
			return fmt.Errorf("failed to seed product %s: %w", p.slug, err)
		}

		// Replace images on re-seed so fixture edits take effect
		if _, err := tx.Exec(ctx, `DELETE FROM product_images WHERE product_id = $1`, productID); err != nil {
			return fmt.Errorf("failed to clear images for %s: %w", p.slug, err)
		}
		batch := &pgx.Batch{}
		for _, img := range p.images {
			batch.Queue(`
				INSERT INTO product_images (id, product_id, url, alt)
				VALUES (gen_random_uuid(), $1, $2, $3)`,
				productID, img.url, img.alt)
		}
		results := tx.SendBatch(ctx, batch)
		for range p.images {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to seed images for %s: %w", p.slug, err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to seed images for %s: %w", p.slug, err)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO inventory (product_id, quantity)
			VALUES ($1, $2)
			ON CONFLICT (product_id) DO UPDATE SET quantity = EXCLUDED.quantity`,
			productID, p.quantity); err != nil {
			return fmt.Errorf("failed to seed inventory for %s: %w", p.slug, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logger.Info().
		Int("categories", len(seedCategories)).
		Int("products", len(seedProducts)).
		Int("users", len(seedUsers)).
		Msg("catalogue seeded")
	return nil
}
