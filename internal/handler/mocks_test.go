package handler

import (
	"context"

	"threadcart/internal/model"
	"threadcart/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of service.CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductPage), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, slug string) (*model.ProductDetail, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductDetail), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) Get(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, userID uuid.UUID, item model.CartItem) (*model.Cart, error) {
	args := m.Called(ctx, userID, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) SetQuantity(ctx context.Context, userID uuid.UUID, productID string, quantity int) (*model.Cart, error) {
	args := m.Called(ctx, userID, productID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID string) (*model.Cart, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockCheckoutService is a mock implementation of service.CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateSession(ctx context.Context, sess model.Session, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	args := m.Called(ctx, sess, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.CheckoutResponse), args.Error(1)
}

// MockWebhookService is a mock implementation of service.WebhookService.
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

// MockAccountService is a mock implementation of service.AccountService.
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) Signup(ctx context.Context, req *model.SignupRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockAccountService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResponse), args.Error(1)
}

func (m *MockAccountService) Dashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardStats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardStats), args.Error(1)
}

func (m *MockAccountService) Orders(ctx context.Context, userID uuid.UUID) ([]model.OrderSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderSummary), args.Error(1)
}

func (m *MockAccountService) Addresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Address), args.Error(1)
}

func (m *MockAccountService) Wishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.WishlistItem), args.Error(1)
}

func (m *MockAccountService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func (m *MockAccountService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

// MockAdminService is a mock implementation of service.AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) Cleanup(ctx context.Context, action service.CleanupAction) (*service.CleanupResult, error) {
	args := m.Called(ctx, action)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CleanupResult), args.Error(1)
}
