package model

import "fmt"

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeEmptyOrder         = "EMPTY_ORDER"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeProductNotFound    = "PRODUCT_NOT_FOUND"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeTotalMismatch      = "TOTAL_MISMATCH"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidTransition  = "INVALID_TRANSITION"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeCategoryNotFound   = "CATEGORY_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeUsernameTaken      = "USERNAME_TAKEN"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidRole        = "INVALID_ROLE"
	ErrCodeInvalidImage       = "INVALID_IMAGE"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError is a caller-visible business error with a stable code.
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
	ErrEmptyOrder         = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidStatus      = NewDomainError(ErrCodeInvalidStatus, "Status must be one of pending, processing, completed, cancelled")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrProductNotFound    = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrCategoryNotFound   = NewDomainError(ErrCodeCategoryNotFound, "Category not found")
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrUsernameTaken      = NewDomainError(ErrCodeUsernameTaken, "Username is already in use")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "Email is already registered")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Invalid username or password")
	ErrInvalidRole        = NewDomainError(ErrCodeInvalidRole, "Role must be admin or staff")
	ErrForbidden          = NewDomainError(ErrCodeForbidden, "Access denied")
)

// NewMissingProductError reports an order item referencing an unknown product.
func NewMissingProductError(productID string) *DomainError {
	return NewDomainError(ErrCodeProductNotFound, fmt.Sprintf("Product %s not found", productID))
}

// NewInsufficientStockError reports an order item exceeding available stock.
func NewInsufficientStockError(productName string, requested, available int) *DomainError {
	return NewDomainError(
		ErrCodeInsufficientStock,
		fmt.Sprintf("Insufficient stock for product %s: requested %d, available %d", productName, requested, available),
	)
}

// NewTotalMismatchError reports a client total that disagrees with the
// total computed from authoritative catalog prices.
func NewTotalMismatchError(claimed, computed float64) *DomainError {
	return NewDomainError(
		ErrCodeTotalMismatch,
		fmt.Sprintf("Order total %.2f does not match computed total %.2f", claimed, computed),
	)
}

// NewInvalidTransitionError reports a disallowed status move.
func NewInvalidTransitionError(from, to OrderStatus) *DomainError {
	return NewDomainError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("Cannot change order status from %s to %s", from, to),
	)
}
