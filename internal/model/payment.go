package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors the provider-facing payment state.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusExpired   PaymentStatus = "expired"
)

func (s PaymentStatus) String() string {
	return string(s)
}

// Payment tracks the provider-side charge for an order. ProviderRef holds the
// opaque hosted-session identifier used to correlate webhook events.
type Payment struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"orderId" db:"order_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Currency    string          `json:"currency" db:"currency"`
	Status      PaymentStatus   `json:"status" db:"status"`
	ProviderRef *string         `json:"providerRef,omitempty" db:"provider_ref"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// WebhookEvent is a processed-event ledger entry. Recording the provider
// event id before applying side effects makes inventory decrements safe
// against duplicate delivery.
type WebhookEvent struct {
	ID         string    `db:"id"`
	EventType  string    `db:"event_type"`
	ReceivedAt time.Time `db:"received_at"`
}
