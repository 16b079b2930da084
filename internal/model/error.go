package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeUserNotFound    = "USER_NOT_FOUND"
	ErrCodeProductNotFound = "PRODUCT_NOT_FOUND"
	ErrCodeCartNotFound    = "CART_NOT_FOUND"
	ErrCodeDuplicateCart   = "DUPLICATE_CART"
	ErrCodeItemNotFound    = "CART_ITEM_NOT_FOUND"
	ErrCodeNotOwner        = "NOT_CART_OWNER"
	ErrCodeEmptyCart       = "EMPTY_CART"
	ErrCodeOrderNotFound   = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity = "INVALID_QUANTITY"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeInternalError   = "INTERNAL_ERROR"
)

// DomainError carries a machine-readable code alongside the message so
// handlers can map business failures to status codes without string matching.
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
	ErrUserNotFound     = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrProductNotFound  = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCartNotFound     = NewDomainError(ErrCodeCartNotFound, "Cart not found for user")
	ErrDuplicateCart    = NewDomainError(ErrCodeDuplicateCart, "User already has a cart")
	ErrCartItemNotFound = NewDomainError(ErrCodeItemNotFound, "Cart item not found")
	ErrNotCartOwner     = NewDomainError(ErrCodeNotOwner, "Cart item does not belong to the requesting user")
	ErrEmptyCart        = NewDomainError(ErrCodeEmptyCart, "Cannot build an order from an empty cart")
	ErrOrderNotFound    = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity  = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
)
