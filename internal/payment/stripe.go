package payment

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

// stripeProvider implements Provider against the Stripe hosted checkout API.
type stripeProvider struct {
	webhookSecret string
	logger        zerolog.Logger
}

// NewStripeProvider creates a Stripe-backed payment provider.
func NewStripeProvider(secretKey, webhookSecret string, logger zerolog.Logger) Provider {
	stripe.Key = secretKey
	return &stripeProvider{
		webhookSecret: webhookSecret,
		logger:        logger.With().Str("component", "stripe").Logger(),
	}
}

// CreateSession creates a hosted checkout session.
func (p *stripeProvider) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, len(params.LineItems))
	for i, li := range params.LineItems {
		lineItems[i] = &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(params.Currency),
				UnitAmount: stripe.Int64(li.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(li.Name),
				},
			},
			Quantity: stripe.Int64(li.Quantity),
		}
	}

	sessionParams := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(params.SuccessURL),
		CancelURL:  stripe.String(params.CancelURL),
		Metadata:   params.Metadata,
	}
	sessionParams.Context = ctx

	s, err := session.New(sessionParams)
	if err != nil {
		p.logger.Error().Err(err).Msg("failed to create checkout session")
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	p.logger.Debug().Str("session_id", s.ID).Msg("checkout session created")

	return &Session{ID: s.ID, URL: s.URL}, nil
}

// VerifyWebhook verifies the payload signature and decodes the event.
func (p *stripeProvider) VerifyWebhook(payload []byte, signature string) (*Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		p.logger.Warn().Err(err).Msg("webhook signature verification failed")
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{
		ID:   event.ID,
		Type: string(event.Type),
	}

	switch out.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var cs stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session payload: %w", err)
		}
		out.OrderID = cs.Metadata["orderId"]
		out.PaymentID = cs.Metadata["paymentId"]
		out.PaymentStatus = string(cs.PaymentStatus)
	}

	return out, nil
}
