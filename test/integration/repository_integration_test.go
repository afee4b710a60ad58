package integration

import (
	"context"
	"testing"

	"threadcart/internal/model"
	"threadcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := repository.NewProductRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("List returns seeded products with counts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		categoryID := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		SeedProduct(t, testDB.Pool, categoryID, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 10)
		SeedProduct(t, testDB.Pool, categoryID, "City Sneaker", "city-sneaker", decimal.NewFromFloat(59.99), 0)

		products, total, err := repo.List(ctx, model.ProductFilter{Sort: model.SortNewest, Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, products, 2)
	})

	t.Run("List honours stock and price filters", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		categoryID := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		SeedProduct(t, testDB.Pool, categoryID, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 10)
		SeedProduct(t, testDB.Pool, categoryID, "City Sneaker", "city-sneaker", decimal.NewFromFloat(59.99), 0)

		products, total, err := repo.List(ctx, model.ProductFilter{InStockOnly: true, Sort: model.SortNewest, Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, products, 1)
		assert.Equal(t, "trail-runner", products[0].Slug)

		maxPrice := decimal.NewFromInt(60)
		products, total, err = repo.List(ctx, model.ProductFilter{MaxPrice: &maxPrice, Sort: model.SortPriceAsc, Page: 1})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, products, 1)
		assert.Equal(t, "city-sneaker", products[0].Slug)
	})

	t.Run("GetBySlug returns detail with stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		categoryID := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		SeedProduct(t, testDB.Pool, categoryID, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 7)

		product, err := repo.GetBySlug(ctx, "trail-runner")
		require.NoError(t, err)
		require.NotNil(t, product)
		assert.Equal(t, "Trail Runner", product.Title)
		assert.Equal(t, 7, product.Quantity)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(89.99)))
	})

	t.Run("GetBySlug returns nil for unknown slug", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		product, err := repo.GetBySlug(ctx, "no-such-product")
		require.NoError(t, err)
		assert.Nil(t, product)
	})

	t.Run("Resolve matches id, slug and case-insensitive title", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		categoryID := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		byID := SeedProduct(t, testDB.Pool, categoryID, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 10)
		SeedProduct(t, testDB.Pool, categoryID, "City Sneaker", "city-sneaker", decimal.NewFromFloat(59.99), 5)
		SeedProduct(t, testDB.Pool, categoryID, "Desert Boot", "desert-boot", decimal.NewFromFloat(129.99), 3)

		products, err := repo.Resolve(ctx,
			[]uuid.UUID{byID},
			[]string{"city-sneaker"},
			[]string{"DESERT boot"},
		)
		require.NoError(t, err)
		assert.Len(t, products, 3)
	})

	t.Run("Categories include product counts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		shoes := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		SeedCategory(t, testDB.Pool, "Jeans", "jeans")
		SeedProduct(t, testDB.Pool, shoes, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 10)

		categories, err := repo.Categories(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 2)

		counts := map[string]int{}
		for _, c := range categories {
			counts[c.Slug] = c.ProductCount
		}
		assert.Equal(t, 1, counts["shoes"])
		assert.Equal(t, 0, counts["jeans"])
	})

	t.Run("DecrementInventory reduces stock", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		categoryID := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		productID := SeedProduct(t, testDB.Pool, categoryID, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 10)

		tx, err := testDB.Pool.Begin(ctx)
		require.NoError(t, err)
		require.NoError(t, repo.DecrementInventory(ctx, tx, productID, 4))
		require.NoError(t, tx.Commit(ctx))

		var quantity int
		require.NoError(t, testDB.Pool.QueryRow(ctx,
			"SELECT quantity FROM inventory WHERE product_id = $1", productID).Scan(&quantity))
		assert.Equal(t, 6, quantity)
	})
}

func TestUserRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewUserRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("Create rejects duplicate email", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		hash := "not-a-real-hash"
		user := &model.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: &hash, Role: model.RoleCustomer}
		require.NoError(t, repo.Create(ctx, user))

		dup := &model.User{ID: uuid.New(), Email: "alice@example.com", PasswordHash: &hash, Role: model.RoleCustomer}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, model.ErrEmailInUse)
	})

	t.Run("GetByEmail returns nil for unknown email", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		user, err := repo.GetByEmail(ctx, "nobody@example.com")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("UpsertByEmail reuses the existing account", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		first, err := repo.UpsertByEmail(ctx, "guest@example.com", nil)
		require.NoError(t, err)

		name := "Guest Shopper"
		second, err := repo.UpsertByEmail(ctx, "guest@example.com", &name)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestAddressRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewAddressRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("FindMatch is case-insensitive", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, "alice@example.com", model.RoleCustomer)
		existing := SeedAddress(t, testDB.Pool, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "123 Main St", City: "Springfield",
			PostalCode: "62704", Country: "US", Phone: "5551234567",
		})

		match, err := repo.FindMatch(ctx, userID, model.ShippingInput{
			Name: "ALICE SMITH", Line1: "123 MAIN ST", City: "springfield",
			PostalCode: "62704", Country: "us", Phone: "5551234567",
		}.Normalize())
		require.NoError(t, err)
		require.NotNil(t, match)
		assert.Equal(t, existing, match.ID)
	})

	t.Run("FindMatch returns nil for a different street", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, "alice@example.com", model.RoleCustomer)
		SeedAddress(t, testDB.Pool, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "123 Main St", City: "Springfield",
			PostalCode: "62704", Country: "US",
		})

		match, err := repo.FindMatch(ctx, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "456 Oak Ave", City: "Springfield",
			PostalCode: "62704", Country: "US",
		}.Normalize())
		require.NoError(t, err)
		assert.Nil(t, match)
	})

	t.Run("ListByUser returns oldest first", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, "alice@example.com", model.RoleCustomer)
		first := SeedAddress(t, testDB.Pool, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "123 Main St", City: "Springfield",
			PostalCode: "62704", Country: "US",
		})
		SeedAddress(t, testDB.Pool, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "456 Oak Ave", City: "Springfield",
			PostalCode: "62704", Country: "US",
		})

		addresses, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, addresses, 2)
		assert.Equal(t, first, addresses[0].ID)

		count, err := repo.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("DeleteByIDs removes the given rows only", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, "alice@example.com", model.RoleCustomer)
		keep := SeedAddress(t, testDB.Pool, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "123 Main St", City: "Springfield",
			PostalCode: "62704", Country: "US",
		})
		drop := SeedAddress(t, testDB.Pool, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "456 Oak Ave", City: "Springfield",
			PostalCode: "62704", Country: "US",
		})

		require.NoError(t, repo.DeleteByIDs(ctx, []uuid.UUID{drop}))

		addresses, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, addresses, 1)
		assert.Equal(t, keep, addresses[0].ID)
	})
}

func TestOrderRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	orders := repository.NewOrderRepository(testDB.Pool, logger)

	ctx := context.Background()

	createOrder := func(t *testing.T, userID, addressID, productID uuid.UUID, status model.OrderStatus) uuid.UUID {
		t.Helper()

		tx, err := orders.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		order := &model.Order{
			ID:        uuid.New(),
			UserID:    userID,
			AddressID: addressID,
			Status:    status,
			Total:     decimal.NewFromFloat(89.99),
		}
		require.NoError(t, orders.CreateOrder(ctx, tx, order))
		require.NoError(t, orders.CreateOrderItems(ctx, tx, []model.OrderItem{{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: productID,
			Quantity:  1,
			Price:     decimal.NewFromFloat(89.99),
		}}))
		require.NoError(t, orders.CreatePayment(ctx, tx, &model.Payment{
			ID:       uuid.New(),
			OrderID:  order.ID,
			Amount:   order.Total,
			Currency: "usd",
			Status:   model.PaymentStatusPending,
		}))
		require.NoError(t, tx.Commit(ctx))
		return order.ID
	}

	seedFixtures := func(t *testing.T) (userID, addressID, productID uuid.UUID) {
		t.Helper()

		CleanupDB(t, testDB.Pool)
		userID = SeedUser(t, testDB.Pool, "alice@example.com", model.RoleCustomer)
		addressID = SeedAddress(t, testDB.Pool, userID, model.ShippingInput{
			Name: "Alice Smith", Line1: "123 Main St", City: "Springfield",
			PostalCode: "62704", Country: "US",
		})
		categoryID := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		productID = SeedProduct(t, testDB.Pool, categoryID, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 10)
		return userID, addressID, productID
	}

	t.Run("order lifecycle with item snapshots", func(t *testing.T) {
		userID, addressID, productID := seedFixtures(t)
		orderID := createOrder(t, userID, addressID, productID, model.OrderStatusPending)

		tx, err := orders.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		items, err := orders.GetItems(ctx, tx, orderID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Price.Equal(decimal.NewFromFloat(89.99)))

		require.NoError(t, orders.UpdateOrderStatus(ctx, tx, orderID, model.OrderStatusPaid))
		require.NoError(t, orders.UpdatePaymentStatusByOrder(ctx, tx, orderID, model.PaymentStatusSucceeded))
		require.NoError(t, tx.Commit(ctx))

		summaries, err := orders.ListByUser(ctx, userID, 0)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, model.OrderStatusPaid, summaries[0].Status)
		assert.Len(t, summaries[0].Items, 1)
	})

	t.Run("RecordWebhookEvent is idempotent", func(t *testing.T) {
		seedFixtures(t)

		tx, err := orders.BeginTx(ctx)
		require.NoError(t, err)
		fresh, err := orders.RecordWebhookEvent(ctx, tx, "evt_100", "checkout.session.completed")
		require.NoError(t, err)
		assert.True(t, fresh)
		require.NoError(t, tx.Commit(ctx))

		tx, err = orders.BeginTx(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)
		fresh, err = orders.RecordWebhookEvent(ctx, tx, "evt_100", "checkout.session.completed")
		require.NoError(t, err)
		assert.False(t, fresh)
	})

	t.Run("DeletePending removes stale orders only", func(t *testing.T) {
		userID, addressID, productID := seedFixtures(t)
		createOrder(t, userID, addressID, productID, model.OrderStatusPending)
		createOrder(t, userID, addressID, productID, model.OrderStatusPending)
		paidID := createOrder(t, userID, addressID, productID, model.OrderStatusPaid)

		removed, err := orders.DeletePending(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		summaries, err := orders.ListByUser(ctx, userID, 0)
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, paidID, summaries[0].ID)

		count, err := orders.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestWishlistRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	repo := repository.NewWishlistRepository(testDB.Pool, zerolog.Nop())

	ctx := context.Background()

	t.Run("add is idempotent and remove deletes", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)
		userID := SeedUser(t, testDB.Pool, "alice@example.com", model.RoleCustomer)
		categoryID := SeedCategory(t, testDB.Pool, "Shoes", "shoes")
		productID := SeedProduct(t, testDB.Pool, categoryID, "Trail Runner", "trail-runner", decimal.NewFromFloat(89.99), 10)

		require.NoError(t, repo.Add(ctx, userID, productID))
		require.NoError(t, repo.Add(ctx, userID, productID))

		count, err := repo.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		items, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, productID, items[0].ProductID)

		require.NoError(t, repo.Remove(ctx, userID, productID))

		count, err = repo.CountByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}
