package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"threadcart/internal/database"
	"threadcart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, runs the embedded schema
// migrations against it and returns a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	if err := database.Migrate(connStr, zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email, role string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO users (id, email, role) VALUES ($1, $2, $3)",
		id, email, role,
	)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return id
}

// SeedCategory inserts a category and returns its id.
func SeedCategory(t *testing.T, pool *pgxpool.Pool, name, slug string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		"INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)",
		id, name, slug,
	)
	if err != nil {
		t.Fatalf("failed to seed category %s: %v", slug, err)
	}
	return id
}

// SeedProduct inserts an active product with stock and returns its id.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, categoryID uuid.UUID, title, slug string, price decimal.Decimal, stock int) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	id := uuid.New()
	_, err := pool.Exec(ctx,
		"INSERT INTO products (id, title, slug, price, category_id) VALUES ($1, $2, $3, $4, $5)",
		id, title, slug, price, categoryID,
	)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", slug, err)
	}
	_, err = pool.Exec(ctx,
		"INSERT INTO inventory (product_id, quantity) VALUES ($1, $2)",
		id, stock,
	)
	if err != nil {
		t.Fatalf("failed to seed inventory for %s: %v", slug, err)
	}
	return id
}

// SeedAddress inserts an address for the user and returns its id.
func SeedAddress(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID, shipping model.ShippingInput) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO addresses (id, user_id, name, line1, line2, city, state, postal_code, country, phone)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''))`,
		id, userID, shipping.Name, shipping.Line1, shipping.Line2, shipping.City,
		shipping.State, shipping.PostalCode, shipping.Country, shipping.Phone,
	)
	if err != nil {
		t.Fatalf("failed to seed address: %v", err)
	}
	return id
}

// CleanupDB removes all data, respecting foreign-key ordering.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{
		"webhook_events", "payments", "order_items", "orders",
		"wishlists", "addresses", "inventory", "product_images",
		"products", "categories", "users",
	}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
