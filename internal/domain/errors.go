package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")

	// ErrEmailNotVerified is a gating condition, not a failure: login was
	// otherwise valid but the account's email is still unconfirmed. Handlers
	// surface it with a resend affordance instead of a plain 401.
	ErrEmailNotVerified = errors.New("email not verified")
)
