package utils

import "net/http"

// ResponseCode business error code
type ResponseCode int

// Response codes
const (
	CodeSuccess ResponseCode = 0

	// General errors
	CodeInvalidParam     ResponseCode = 1001
	CodeUnauthorized     ResponseCode = 1002
	CodeActionNotAllowed ResponseCode = 1003
	CodeInternalError    ResponseCode = 1004
	CodeRateLimit        ResponseCode = 1005

	// Resource errors
	CodeResourceNotFound ResponseCode = 2001

	// Checkout errors
	CodeAddressNotSupported  ResponseCode = 3001
	CodeInvalidTopology      ResponseCode = 3002
	CodeIncompatibleItems    ResponseCode = 3003
	CodeInsufficientQuantity ResponseCode = 3004
	CodePaymentFailed        ResponseCode = 3005
	CodeCancellationFailed   ResponseCode = 3006

	// Infrastructure errors
	CodeDatabaseError ResponseCode = 5001
	CodeRedisError    ResponseCode = 5002
)

// HTTPStatus maps a business code to an HTTP status code
func (c ResponseCode) HTTPStatus() int {
	switch c {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam, CodeAddressNotSupported, CodeInvalidTopology, CodeIncompatibleItems:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeActionNotAllowed:
		return http.StatusForbidden
	case CodeResourceNotFound:
		return http.StatusNotFound
	case CodeInsufficientQuantity, CodePaymentFailed, CodeCancellationFailed:
		return http.StatusConflict
	case CodeRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
