package handler

import (
	"encoding/json"
	"net/http"

	"threadcart/internal/middleware"
	"threadcart/internal/model"
	"threadcart/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles checkout session creation.
type CheckoutHandler struct {
	service service.CheckoutService
	cart    service.CartService
	logger  zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkout service.CheckoutService, cart service.CartService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: checkout,
		cart:    cart,
		logger:  logger.With().Str("handler", "checkout").Logger(),
	}
}

// CreateSession handles POST /api/checkout/session requests. On success the
// persisted server-side cart is cleared; the client redirects to the returned
// URL.
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req model.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.CreateSession(r.Context(), *sess, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.cart.Clear(r.Context(), sess.UserID); err != nil {
		// The order exists; a stale cart is an inconvenience, not a failure.
		h.logger.Warn().Err(err).
			Str("order_id", resp.OrderID).
			Msg("failed to clear cart after checkout")
	}

	writeJSON(w, http.StatusOK, resp)
}
