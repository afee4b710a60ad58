package handler

import (
	"errors"
	"io"
	"net/http"

	"threadcart/internal/model"
	"threadcart/internal/payment"
	"threadcart/internal/service"

	"github.com/rs/zerolog"
)

// Stripe caps event payloads at 64KB; anything larger is not a webhook.
const maxWebhookBody = 65536

// WebhookHandler receives payment-provider callbacks.
type WebhookHandler struct {
	service service.WebhookService
	logger  zerolog.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(service service.WebhookService, logger zerolog.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		logger:  logger.With().Str("handler", "webhook").Logger(),
	}
}

// Handle handles POST /api/checkout/webhook requests. The raw body is needed
// for signature verification, so it is read before any decoding.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "failed to read request body", h.logger)
		return
	}

	signature := r.Header.Get("Stripe-Signature")
	if err := h.service.HandleEvent(r.Context(), body, signature); err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidInput, "invalid webhook signature", h.logger)
			return
		}
		// Any other failure asks the provider to retry delivery.
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
