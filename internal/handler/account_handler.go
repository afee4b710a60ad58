package handler

import (
	"encoding/json"
	"net/http"

	"threadcart/internal/middleware"
	"threadcart/internal/model"
	"threadcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AccountHandler handles signup, login and the account read endpoints.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("handler", "account").Logger(),
	}
}

// Signup handles POST /api/auth/signup requests.
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.Signup(r.Context(), &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"created": true})
}

// Login handles POST /api/auth/login requests.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Dashboard handles GET /api/dashboard requests.
func (h *AccountHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	stats, err := h.service.Dashboard(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// Orders handles GET /api/orders requests.
func (h *AccountHandler) Orders(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	orders, err := h.service.Orders(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// Addresses handles GET /api/addresses requests.
func (h *AccountHandler) Addresses(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	addresses, err := h.service.Addresses(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, addresses)
}

// Wishlist handles GET /api/wishlist requests.
func (h *AccountHandler) Wishlist(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	items, err := h.service.Wishlist(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// AddToWishlist handles POST /api/wishlist requests.
func (h *AccountHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var req struct {
		ProductID string `json:"productId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid product ID format", h.logger)
		return
	}

	if err := h.service.AddToWishlist(r.Context(), sess.UserID, productID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]bool{"added": true})
}

// RemoveFromWishlist handles DELETE /api/wishlist/{productId} requests.
func (h *AccountHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid product ID format", h.logger)
		return
	}

	if err := h.service.RemoveFromWishlist(r.Context(), sess.UserID, productID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
