package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"threadcart/internal/model"
	"threadcart/internal/repository"
	"threadcart/internal/session"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	recentOrderLimit  = 5
)

// accountService implements AccountService.
type accountService struct {
	userRepo     repository.UserRepository
	orderRepo    repository.OrderRepository
	addressRepo  repository.AddressRepository
	wishlistRepo repository.WishlistRepository
	sessions     session.Store
	logger       zerolog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(
	userRepo repository.UserRepository,
	orderRepo repository.OrderRepository,
	addressRepo repository.AddressRepository,
	wishlistRepo repository.WishlistRepository,
	sessions session.Store,
	logger zerolog.Logger,
) AccountService {
	return &accountService{
		userRepo:     userRepo,
		orderRepo:    orderRepo,
		addressRepo:  addressRepo,
		wishlistRepo: wishlistRepo,
		sessions:     sessions,
		logger:       logger.With().Str("service", "account").Logger(),
	}
}

// Signup registers a new customer account.
func (s *accountService) Signup(ctx context.Context, req *model.SignupRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return model.NewDomainError(model.ErrCodeInvalidInput, "Password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	hashStr := string(hash)

	user := &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         optional(strings.TrimSpace(req.Name)),
		PasswordHash: &hashStr,
		Role:         model.RoleCustomer,
		CreatedAt:    time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Msg("account created")
	return nil
}

// Login verifies credentials and issues a session token. Unknown emails and
// wrong passwords return the same error.
func (s *accountService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || user.PasswordHash == nil {
		return nil, model.ErrInvalidLogin
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidLogin
	}

	sess := model.Session{
		UserID: user.ID,
		Email:  user.Email,
		Name:   deref(user.Name),
		Role:   user.Role,
	}
	token, err := s.sessions.Issue(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Msg("login succeeded")
	return &model.LoginResponse{Token: token, User: sess}, nil
}

// Dashboard aggregates the counts and recent orders shown on the account page.
func (s *accountService) Dashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardStats, error) {
	orderCount, err := s.orderRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	addressCount, err := s.addressRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count addresses: %w", err)
	}
	wishlistCount, err := s.wishlistRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count wishlist entries: %w", err)
	}
	recent, err := s.orderRepo.ListByUser(ctx, userID, recentOrderLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	if recent == nil {
		recent = []model.OrderSummary{}
	}

	return &model.DashboardStats{
		OrderCount:    orderCount,
		AddressCount:  addressCount,
		WishlistCount: wishlistCount,
		RecentOrders:  recent,
	}, nil
}

func (s *accountService) Orders(ctx context.Context, userID uuid.UUID) ([]model.OrderSummary, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.OrderSummary{}
	}
	return orders, nil
}

func (s *accountService) Addresses(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	addresses, err := s.addressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	if addresses == nil {
		addresses = []model.Address{}
	}
	return addresses, nil
}

func (s *accountService) Wishlist(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	items, err := s.wishlistRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	if items == nil {
		items = []model.WishlistItem{}
	}
	return items, nil
}

func (s *accountService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.wishlistRepo.Add(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

func (s *accountService) RemoveFromWishlist(ctx context.Context, userID, productID uuid.UUID) error {
	if err := s.wishlistRepo.Remove(ctx, userID, productID); err != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", err)
	}
	return nil
}
