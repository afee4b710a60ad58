package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"threadcart/internal/model"
	"threadcart/internal/payment"
	"threadcart/internal/promo"
	"threadcart/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CheckoutConfig carries the checkout-specific settings.
type CheckoutConfig struct {
	// BaseURL builds the default success/cancel redirect URLs.
	BaseURL string

	// Currency is the ISO currency code passed to the provider.
	Currency string

	// PromoDiscountPercent is the whole-percent discount a valid promo code
	// applies to every line.
	PromoDiscountPercent int
}

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	addressRepo repository.AddressRepository
	provider    payment.Provider
	promos      promo.Validator
	cfg         CheckoutConfig
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout orchestrator. provider may be nil
// when the payment provider is unconfigured; promos may be nil when promo
// codes are disabled.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	addressRepo repository.AddressRepository,
	provider payment.Provider,
	promos promo.Validator,
	cfg CheckoutConfig,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		addressRepo: addressRepo,
		provider:    provider,
		promos:      promos,
		cfg:         cfg,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// resolvedLine pairs a requested cart line with the product row that backs it.
type resolvedLine struct {
	product  model.Product
	quantity int
}

// CreateSession validates the cart against the database, records the order,
// and returns the redirect URL.
func (s *checkoutService) CreateSession(ctx context.Context, sess model.Session, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	if sess.Email == "" {
		return nil, model.ErrUnauthorised
	}
	if s.provider == nil {
		return nil, model.ErrNotConfigured
	}
	if req == nil || len(req.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	items := normalizeItems(req.Items)

	// First pass: existence check across all supplied references.
	lookup, err := s.resolveRefs(ctx, items)
	if err != nil {
		return nil, err
	}

	var missing []string
	var resolvable []model.CheckoutItemRequest
	for _, it := range items {
		if lookup.find(it) == nil {
			missing = append(missing, it.Identifier())
			continue
		}
		resolvable = append(resolvable, it)
	}
	if len(resolvable) == 0 {
		s.logger.Warn().
			Strs("missing", missing).
			Msg("no cart items resolved against catalogue")
		return nil, &model.MissingItemsError{Missing: missing}
	}

	// Second pass: strict re-resolution restricted to the resolvable lines so
	// the pricing below never consults a stale lookup.
	lookup, err = s.resolveRefs(ctx, resolvable)
	if err != nil {
		return nil, err
	}

	discount, err := s.discountFor(ctx, req.PromoCode)
	if err != nil {
		return nil, err
	}

	lines := make([]resolvedLine, 0, len(resolvable))
	total := decimal.Zero
	for _, it := range resolvable {
		p := lookup.find(it)
		if p == nil {
			// Dropped between passes; report rather than charge a stale price.
			missing = append(missing, it.Identifier())
			continue
		}
		lines = append(lines, resolvedLine{product: *p, quantity: it.Quantity})
		unit := applyDiscount(p.Price, discount)
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if len(lines) == 0 {
		return nil, &model.MissingItemsError{Missing: missing}
	}

	user, err := s.userRepo.UpsertByEmail(ctx, sess.Email, optional(sess.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	address, err := s.findOrCreateAddress(ctx, user.ID, req.Shipping)
	if err != nil {
		return nil, err
	}

	order, pay, err := s.createOrder(ctx, user.ID, address.ID, req.PromoCode, lines, total, discount)
	if err != nil {
		return nil, err
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = fmt.Sprintf("%s/checkout/success?oid=%s", s.cfg.BaseURL, order.ID)
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = fmt.Sprintf("%s/checkout/cancel?oid=%s", s.cfg.BaseURL, order.ID)
	}

	// Zero-total orders were settled synchronously in createOrder; no
	// provider session exists to redirect through.
	if total.IsZero() {
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Msg("zero-total order settled without provider call")
		return &model.CheckoutResponse{
			URL:     successURL,
			OrderID: order.ID.String(),
			Missing: missing,
		}, nil
	}

	lineItems := make([]payment.LineItem, len(lines))
	for i, l := range lines {
		unit := applyDiscount(l.product.Price, discount)
		lineItems[i] = payment.LineItem{
			Name:       l.product.Title,
			UnitAmount: unit.Mul(decimal.NewFromInt(100)).Round(0).IntPart(),
			Quantity:   int64(l.quantity),
		}
	}

	session, err := s.provider.CreateSession(ctx, payment.SessionParams{
		LineItems:  lineItems,
		Currency:   s.cfg.Currency,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
		Metadata: map[string]string{
			"orderId":   order.ID.String(),
			"paymentId": pay.ID.String(),
			"userId":    user.ID.String(),
		},
	})
	if err != nil {
		// The Pending order stays behind for the admin cleanup purge.
		s.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Msg("provider session creation failed")
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := s.orderRepo.SetPaymentProviderRef(ctx, pay.ID, session.ID); err != nil {
		return nil, fmt.Errorf("failed to store provider reference: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("session_id", session.ID).
		Str("total", total.String()).
		Int("line_count", len(lines)).
		Msg("checkout session created")

	return &model.CheckoutResponse{
		URL:     session.URL,
		OrderID: order.ID.String(),
		Missing: missing,
	}, nil
}

// normalizeItems trims references and clamps quantities to at least one.
func normalizeItems(items []model.CheckoutItemRequest) []model.CheckoutItemRequest {
	out := make([]model.CheckoutItemRequest, 0, len(items))
	for _, it := range items {
		it.ProductID = strings.TrimSpace(it.ProductID)
		it.Slug = strings.TrimSpace(it.Slug)
		it.Title = strings.TrimSpace(it.Title)
		if it.ProductID == "" && it.Slug == "" && it.Title == "" {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		out = append(out, it)
	}
	return out
}

// productLookup indexes resolved products by the three reference kinds.
type productLookup struct {
	byID    map[string]*model.Product
	bySlug  map[string]*model.Product
	byTitle map[string]*model.Product
}

// find resolves a line by id, then slug, then case-insensitive title.
func (l *productLookup) find(it model.CheckoutItemRequest) *model.Product {
	if it.ProductID != "" {
		if p, ok := l.byID[it.ProductID]; ok {
			return p
		}
	}
	if it.Slug != "" {
		if p, ok := l.bySlug[it.Slug]; ok {
			return p
		}
	}
	if it.Title != "" {
		if p, ok := l.byTitle[strings.ToLower(it.Title)]; ok {
			return p
		}
	}
	return nil
}

// resolveRefs queries the catalogue for every reference the lines carry and
// indexes the results. Ids take precedence over slugs, slugs over titles.
func (s *checkoutService) resolveRefs(ctx context.Context, items []model.CheckoutItemRequest) (*productLookup, error) {
	var ids []uuid.UUID
	var slugs []string
	var titles []string
	for _, it := range items {
		if it.ProductID != "" {
			if id, err := uuid.Parse(it.ProductID); err == nil {
				ids = append(ids, id)
			}
		}
		if it.Slug != "" {
			slugs = append(slugs, it.Slug)
		}
		// Titles also serve as a fallback for lines whose primary reference
		// fails to resolve.
		if it.Title != "" {
			titles = append(titles, it.Title)
		}
	}

	products, err := s.productRepo.Resolve(ctx, ids, slugs, titles)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cart items: %w", err)
	}

	lookup := &productLookup{
		byID:    make(map[string]*model.Product, len(products)),
		bySlug:  make(map[string]*model.Product, len(products)),
		byTitle: make(map[string]*model.Product, len(products)),
	}
	for i := range products {
		p := &products[i]
		lookup.byID[p.ID.String()] = p
		lookup.bySlug[p.Slug] = p
		lookup.byTitle[strings.ToLower(p.Title)] = p
	}

	return lookup, nil
}

// discountFor validates the promo code and returns the percent discount it
// grants. An empty code grants nothing.
func (s *checkoutService) discountFor(ctx context.Context, code string) (int, error) {
	if code == "" {
		return 0, nil
	}
	if s.promos == nil {
		return 0, model.ErrInvalidPromoCode
	}
	if err := s.promos.Validate(ctx, code); err != nil {
		return 0, err
	}
	return s.cfg.PromoDiscountPercent, nil
}

// applyDiscount reduces a unit price by the whole-percent discount, rounded
// to cents.
func applyDiscount(price decimal.Decimal, percent int) decimal.Decimal {
	if percent <= 0 {
		return price
	}
	factor := decimal.NewFromInt(int64(100 - percent)).Div(decimal.NewFromInt(100))
	return price.Mul(factor).Round(2)
}

// findOrCreateAddress reuses an existing identical address for the user or
// creates a new one from the normalized shipping input.
func (s *checkoutService) findOrCreateAddress(ctx context.Context, userID uuid.UUID, shipping model.ShippingInput) (*model.Address, error) {
	normalized := shipping.Normalize()

	address, err := s.addressRepo.FindMatch(ctx, userID, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up address: %w", err)
	}
	if address != nil {
		return address, nil
	}

	address = &model.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       normalized.Name,
		Line1:      normalized.Line1,
		Line2:      optional(normalized.Line2),
		City:       normalized.City,
		State:      optional(normalized.State),
		PostalCode: normalized.PostalCode,
		Country:    normalized.Country,
		Phone:      optional(normalized.Phone),
		CreatedAt:  time.Now(),
	}
	if err := s.addressRepo.Create(ctx, address); err != nil {
		return nil, fmt.Errorf("failed to create address: %w", err)
	}

	return address, nil
}

// createOrder persists the order, its item snapshots and the payment row in
// one transaction. Zero-total orders are marked Paid/succeeded and their
// inventory decremented inline, since no webhook will ever arrive for them.
func (s *checkoutService) createOrder(
	ctx context.Context,
	userID, addressID uuid.UUID,
	promoCode string,
	lines []resolvedLine,
	total decimal.Decimal,
	discount int,
) (*model.Order, *model.Payment, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	now := time.Now()
	zero := total.IsZero()

	orderStatus := model.OrderStatusPending
	paymentStatus := model.PaymentStatusPending
	if zero {
		orderStatus = model.OrderStatusPaid
		paymentStatus = model.PaymentStatusSucceeded
	}

	order := &model.Order{
		ID:        uuid.New(),
		UserID:    userID,
		AddressID: addressID,
		Status:    orderStatus,
		Total:     total,
		PromoCode: optional(promoCode),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	items := make([]model.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: l.product.ID,
			Quantity:  l.quantity,
			Price:     applyDiscount(l.product.Price, discount),
		}
	}
	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, nil, fmt.Errorf("failed to create order items: %w", err)
	}

	pay := &model.Payment{
		ID:        uuid.New(),
		OrderID:   order.ID,
		Amount:    total,
		Currency:  s.cfg.Currency,
		Status:    paymentStatus,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.orderRepo.CreatePayment(ctx, tx, pay); err != nil {
		return nil, nil, fmt.Errorf("failed to create payment: %w", err)
	}

	if zero {
		for _, item := range items {
			if err = s.productRepo.DecrementInventory(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return nil, nil, fmt.Errorf("failed to decrement inventory: %w", err)
			}
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, pay, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
