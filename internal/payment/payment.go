// Package payment abstracts the hosted-checkout payment provider. The
// application never handles card data; it creates provider-side sessions and
// reconciles their outcome from signed webhook events.
package payment

import (
	"context"
	"errors"
)

// Webhook event types the reconciler acts on. Any other type is acknowledged
// without side effects.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// PaymentStatusPaid is the provider's payment_status value that confirms funds.
const PaymentStatusPaid = "paid"

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// LineItem describes one priced line of a hosted checkout session.
// UnitAmount is in the smallest currency unit (cents).
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

// SessionParams are the inputs for creating a hosted checkout session.
type SessionParams struct {
	LineItems  []LineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

// Session is a created hosted checkout session. ID is the provider reference
// persisted on the payment row; URL is where the customer is redirected.
type Session struct {
	ID  string
	URL string
}

// Event is a verified webhook event. OrderID and PaymentID are recovered from
// the session metadata written at session creation.
type Event struct {
	ID            string
	Type          string
	OrderID       string
	PaymentID     string
	PaymentStatus string
}

// Provider is the payment-provider contract used by checkout and webhook
// processing.
type Provider interface {
	// CreateSession creates a hosted checkout session.
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)

	// VerifyWebhook verifies the payload signature and decodes the event.
	// Returns ErrInvalidSignature when verification fails.
	VerifyWebhook(payload []byte, signature string) (*Event, error)
}
