package model

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Address represents a saved shipping address.
type Address struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"-" db:"user_id"`
	Name       string    `json:"name" db:"name"`
	Line1      string    `json:"line1" db:"line1"`
	Line2      *string   `json:"line2,omitempty" db:"line2"`
	City       string    `json:"city" db:"city"`
	State      *string   `json:"state,omitempty" db:"state"`
	PostalCode string    `json:"postalCode" db:"postal_code"`
	Country    string    `json:"country" db:"country"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// ShippingInput is the untrusted shipping payload supplied at checkout.
type ShippingInput struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country,omitempty"`
	Phone      string `json:"phone,omitempty"`
}

// Normalize trims every field, defaults the country to US and strips
// non-digit characters from the phone number.
func (s ShippingInput) Normalize() ShippingInput {
	country := strings.TrimSpace(s.Country)
	if country == "" {
		country = "US"
	}
	return ShippingInput{
		Name:       strings.TrimSpace(s.Name),
		Line1:      strings.TrimSpace(s.Line1),
		Line2:      strings.TrimSpace(s.Line2),
		City:       strings.TrimSpace(s.City),
		State:      strings.TrimSpace(s.State),
		PostalCode: strings.TrimSpace(s.PostalCode),
		Country:    country,
		Phone:      digitsOnly(s.Phone),
	}
}

// DedupKey returns the case-insensitive composite key used to deduplicate a
// user's addresses.
func (a Address) DedupKey() string {
	parts := []string{
		a.Name,
		a.Line1,
		deref(a.Line2),
		a.City,
		deref(a.State),
		a.PostalCode,
		a.Country,
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(strings.TrimSpace(p))
	}
	parts = append(parts, digitsOnly(deref(a.Phone)))
	return strings.Join(parts, "|")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
