package models

// APIError represents a standardized error response for the API. Message is
// always a sanitized human-readable string; internals are logged server-side
// and never echoed back.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error code constants
const (
	// General errors
	ErrBadRequest       = "BAD_REQUEST"
	ErrUnauthorized     = "UNAUTHORIZED"
	ErrForbidden        = "FORBIDDEN"
	ErrNotFound         = "NOT_FOUND"
	ErrConflict         = "CONFLICT"
	ErrInternalServer   = "INTERNAL_SERVER_ERROR"
	ErrValidationFailed = "VALIDATION_FAILED"
	ErrPrecondition     = "PRECONDITION_FAILED"

	// Order lifecycle errors
	ErrCartEmpty               = "CART_EMPTY"
	ErrInsufficientStock       = "INSUFFICIENT_STOCK"
	ErrInvalidTotal            = "INVALID_TOTAL"
	ErrAgentUnavailable        = "AGENT_UNAVAILABLE"
	ErrInvalidStatusTransition = "INVALID_STATUS_TRANSITION"
	ErrOrderNotPending         = "ORDER_NOT_PENDING"
)

// NewAPIError creates a new API error with the given code and message
func NewAPIError(code, message string, details ...map[string]interface{}) APIError {
	err := APIError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}
