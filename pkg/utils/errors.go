package utils

import (
	"fmt"
)

// AppError application error structure
type AppError struct {
	Code    ResponseCode `json:"code"`
	Message string       `json:"message"`
	Err     error        `json:"-"`
}

// Error implement error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code: %d, message: %s, error: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code: %d, message: %s", e.Code, e.Message)
}

// Unwrap implement errors.Unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewError create new application error
func NewError(code ResponseCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError wrap error
func WrapError(err error, code ResponseCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Predefined errors
var (
	// Parameter errors
	ErrInvalidParam = NewError(CodeInvalidParam, "invalid parameter")
	ErrUnauthorized = NewError(CodeUnauthorized, "unauthorized")

	// Resource errors
	ErrStoreNotFound   = NewError(CodeResourceNotFound, "store not found")
	ErrProductNotFound = NewError(CodeResourceNotFound, "product not found")
	ErrOrderNotFound   = NewError(CodeResourceNotFound, "order not found")

	// Checkout errors
	ErrAddressNotSupported = NewError(CodeAddressNotSupported, "delivery address is outside the store service region")
	ErrInvalidTopology     = NewError(CodeInvalidTopology, "store service region is missing or malformed")
	ErrIncompatibleItems   = NewError(CodeIncompatibleItems, "cart items cannot be fulfilled together")
	ErrPaymentFailed       = NewError(CodePaymentFailed, "payment capture failed")
	ErrActionNotAllowed    = NewError(CodeActionNotAllowed, "action not allowed")
	ErrCancellationFailed  = NewError(CodeCancellationFailed, "order cancellation failed")

	// System errors
	ErrInternalError = NewError(CodeInternalError, "internal server error")
	ErrDatabaseError = NewError(CodeDatabaseError, "database error")
	ErrRedisError    = NewError(CodeRedisError, "redis error")
)

// NewInsufficientQuantity create an insufficient quantity error naming the offending product
func NewInsufficientQuantity(productName string) *AppError {
	return NewError(CodeInsufficientQuantity, fmt.Sprintf("insufficient quantity for product %q", productName))
}

// IsAppError check if it's an application error
func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

// GetErrorCode get error code
func GetErrorCode(err error) ResponseCode {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Code
	}
	return CodeInternalError
}

// GetErrorMessage get error message
func GetErrorMessage(err error) string {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Message
	}
	return err.Error()
}
