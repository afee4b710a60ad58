package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"threadcart/internal/model"
	"threadcart/internal/service"

	"github.com/rs/zerolog"
)

// AdminHandler handles maintenance requests.
type AdminHandler struct {
	service service.AdminService
	logger  zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(service service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger.With().Str("handler", "admin").Logger(),
	}
}

// Cleanup handles POST /api/admin/cleanup requests.
func (h *AdminHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action,omitempty"`
	}
	// An empty body means run everything.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	action := service.CleanupAction(req.Action)
	switch action {
	case "", service.CleanupRemovePendingOrders, service.CleanupDedupeAddresses:
	default:
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "unknown cleanup action", h.logger)
		return
	}

	result, err := h.service.Cleanup(r.Context(), action)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
