// Package apperrors defines the typed error taxonomy shared by the service
// layer. Controllers map kinds to HTTP statuses; Reason is a short
// machine-checkable string safe to return to clients, while Err carries the
// internal cause for server-side logging only.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a service error.
type Kind int

const (
	// KindValidation is malformed or missing input (HTTP 400).
	KindValidation Kind = iota
	// KindNotFound is a missing referenced entity (HTTP 404).
	KindNotFound
	// KindPrecondition is a violated business guard such as a stock or
	// status check (HTTP 400).
	KindPrecondition
	// KindStore is a transaction or commit failure (HTTP 500).
	KindStore
	// KindFormat is an identifier parsing failure; it indicates corrupt
	// data and surfaces as HTTP 500.
	KindFormat
)

// Well-known reason strings.
const (
	ReasonCartEmpty           = "cart_empty"
	ReasonInsufficientStock   = "insufficient_stock"
	ReasonInvalidTotal        = "invalid_total"
	ReasonAgentUnavailable    = "agent_unavailable"
	ReasonInvalidTransition   = "invalid_status_transition"
	ReasonOrderNotPending     = "order_not_pending"
	ReasonNoAgentAssigned     = "no_agent_assigned"
	ReasonDuplicateAccount    = "duplicate_account"
	ReasonInvalidCredentials  = "invalid_credentials"
	ReasonAccountNotApproved  = "account_not_approved"
	ReasonMalformedIdentifier = "malformed_identifier"
)

// Error is the one concrete error type flowing out of the service layer.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Reason, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidation returns a KindValidation error.
func NewValidation(reason, message string) *Error {
	return &Error{Kind: KindValidation, Reason: reason, Message: message}
}

// NewNotFound returns a KindNotFound error.
func NewNotFound(reason, message string) *Error {
	return &Error{Kind: KindNotFound, Reason: reason, Message: message}
}

// NewPrecondition returns a KindPrecondition error.
func NewPrecondition(reason, message string) *Error {
	return &Error{Kind: KindPrecondition, Reason: reason, Message: message}
}

// NewStore wraps a storage failure.
func NewStore(err error) *Error {
	return &Error{Kind: KindStore, Reason: "store_error", Message: "storage operation failed", Err: err}
}

// NewFormat returns a KindFormat error for a corrupt stored identifier.
func NewFormat(message string) *Error {
	return &Error{Kind: KindFormat, Reason: ReasonMalformedIdentifier, Message: message}
}

// As unwraps err into an *Error if possible.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.Kind == kind
	}
	return false
}
