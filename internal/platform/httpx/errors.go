package httpx

import (
	"errors"
	"log/slog"
	"net/http"
)

// Kind classifies an API error into the closed taxonomy the gates and
// handlers produce. Status codes are derived from the kind at the edge.
type Kind int

const (
	// KindUnauthenticated covers missing, malformed, forged or expired
	// credentials, and tokens referencing unknown users.
	KindUnauthenticated Kind = iota + 1
	// KindAccountDisabled covers a valid credential for an inactive account.
	KindAccountDisabled
	// KindForbidden covers an active principal lacking a required role.
	KindForbidden
	// KindValidationFailed covers malformed or missing request fields.
	KindValidationFailed
	// KindNotFound covers missing resources.
	KindNotFound
	// KindConflict covers duplicate or conflicting writes.
	KindConflict
	// KindInfrastructure covers failures of the authorization plumbing
	// itself, surfaced as a generic server error.
	KindInfrastructure
)

// FieldError is one entry of the envelope "errors" array.
type FieldError struct {
	Param string `json:"param"`
	Msg   string `json:"msg"`
}

// Error is a typed error carrying a status code and a client-safe message.
// The wrapped cause is logged server-side and never sent on the wire.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Fields  []FieldError
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// StatusCode resolves the HTTP status for the error. An explicit Status wins
// over the kind mapping.
func (e *Error) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAccountDisabled, KindForbidden:
		return http.StatusForbidden
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// E builds an error with an explicit status code, the convention resource
// handlers use for their own not-found/conflict cases.
func E(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Unauthenticated builds a 401 error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// AccountDisabled builds the 403 error for inactive accounts.
func AccountDisabled() *Error {
	return &Error{Kind: KindAccountDisabled, Message: "Account is disabled"}
}

// Forbidden builds a 403 error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// ValidationFailed builds a 400 error carrying per-field details.
func ValidationFailed(fields []FieldError) *Error {
	return &Error{Kind: KindValidationFailed, Message: "Validation failed", Fields: fields}
}

// NotFound builds a 404 error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict builds a 409 error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Infrastructure builds a 500 error wrapping the real cause for logs.
func Infrastructure(message string, cause error) *Error {
	return &Error{Kind: KindInfrastructure, Message: message, cause: cause}
}

// RespondError is the terminal error mapper. Typed errors keep their status
// and message; anything unrecognized becomes a generic 500 so internal
// details never leak to clients.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if logger != nil && apiErr.StatusCode() >= http.StatusInternalServerError {
			logger.Error("request failed", slog.Any("error", err))
		}
		JSON(w, apiErr.StatusCode(), Envelope{
			Success: false,
			Message: apiErr.Message,
			Errors:  apiErr.Fields,
		})
		return
	}
	if logger != nil {
		logger.Error("unhandled error", slog.Any("error", err))
	}
	JSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: "Internal server error",
	})
}
