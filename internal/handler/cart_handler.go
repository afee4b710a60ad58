package handler

import (
	"encoding/json"
	"net/http"

	"threadcart/internal/middleware"
	"threadcart/internal/model"
	"threadcart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// CartHandler handles cart requests for the authenticated user.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	cart, err := h.service.Get(r.Context(), sess.UserID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	var item model.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if item.ProductID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "productId is required", h.logger)
		return
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart, err := h.service.AddItem(r.Context(), sess.UserID, item)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// SetQuantity handles PUT /api/cart/items/{productId} requests.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Quantity < 0 {
		writeServiceError(w, model.ErrInvalidQuantity, h.logger)
		return
	}

	cart, err := h.service.SetQuantity(r.Context(), sess.UserID, productID, req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	productID := chi.URLParam(r, "productId")

	cart, err := h.service.RemoveItem(r.Context(), sess.UserID, productID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())

	if err := h.service.Clear(r.Context(), sess.UserID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
