package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidInput     = "INVALID_INPUT"
	ErrCodeEmptyCart        = "EMPTY_CART"
	ErrCodeProductNotFound  = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuantity  = "INVALID_QUANTITY"
	ErrCodeInvalidPromoCode = "INVALID_PROMO_CODE"
	ErrCodeEmailInUse       = "EMAIL_IN_USE"
	ErrCodeInvalidLogin     = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotConfigured    = "PROVIDER_NOT_CONFIGURED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside a human-readable message
// so handlers can map business failures to HTTP statuses without string
// matching.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "One or more products not found")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidPromoCode = NewDomainError(ErrCodeInvalidPromoCode, "Promo code is not valid")
	ErrEmailInUse       = NewDomainError(ErrCodeEmailInUse, "Email already in use")
	ErrInvalidLogin     = NewDomainError(ErrCodeInvalidLogin, "Invalid email or password")
	ErrUnauthorised     = NewDomainError(ErrCodeUnauthorised, "Authentication required")
	ErrNotConfigured    = NewDomainError(ErrCodeNotConfigured, "Payment provider is not configured")
)

// MissingItemsError reports cart line references that could not be resolved
// against the catalogue. When nothing resolves the whole checkout is rejected
// and the unresolved identifiers are returned so the client can prune its
// cart.
type MissingItemsError struct {
	Missing []string
}

func (e *MissingItemsError) Error() string {
	return "Some products not found in database"
}
