package apperrors

import (
	"fmt"
	"net/http"
)

// Factories and predefined variables for the workflow domain.

// ErrNotFound converts a repository not-found error into a 404.
func ErrNotFound(err error, domain, message string) *AppError {
	return Wrap(err, CodeNotFound, domain, message, http.StatusNotFound)
}

// ErrInvalidTransition signals that the entity is not in a state from
// which the requested operation is legal. Callers are expected to
// re-fetch current state; the message is safe to display as-is.
func ErrInvalidTransition(domain, message string) *AppError {
	return New(CodeInvalidTransition, domain, message, http.StatusConflict)
}

// ErrUnauthorized signals that the acting user does not own the entity.
// Distinct from InvalidTransition so clients can show access-denied
// instead of a stale-state message.
func ErrUnauthorized(domain, message string) *AppError {
	return New(CodeUnauthorized, domain, message, http.StatusForbidden)
}

// ErrConflict is the generic 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrDeliveryFailure wraps an external notification provider error.
// Internal only: logged at the dispatcher boundary, never surfaced.
func ErrDeliveryFailure(err error, channel string) *AppError {
	return Wrap(err, CodeDeliveryFailure, "delivery", fmt.Sprintf("%s delivery failed", channel), http.StatusServiceUnavailable)
}

// ErrQuoteNotAwaitingResponse - a client responded to a quote that is
// not in the sent state.
var ErrQuoteNotAwaitingResponse = New(
	CodeInvalidTransition,
	"quote",
	"Quote is not awaiting response",
	http.StatusConflict,
)

// ErrRequestNotPending - decline attempted on a request that already
// left the pending state.
var ErrRequestNotPending = New(
	CodeInvalidTransition,
	"request",
	"Request is not pending",
	http.StatusConflict,
)

// ErrQuoteHasNoLineItems - a quote cannot leave draft without at least
// one line item.
var ErrQuoteHasNoLineItems = New(
	CodeInvalidTransition,
	"quote",
	"Quote has no line items",
	http.StatusConflict,
)

// ErrInsufficientPermissions - a non-staff user attempted a staff action.
var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

// ErrInvalidCredentials - wrong email or password.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - invalid or expired JWT.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)
