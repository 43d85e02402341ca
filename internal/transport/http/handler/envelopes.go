package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/credinews/credinews-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// AuthEnvelope wraps login and refresh responses.
type AuthEnvelope struct {
	Bearer       string               `json:"Bearer,omitempty"`
	RefreshToken string               `json:"refresh_token,omitempty"`
	Session      *domain.AuthSnapshot `json:"session,omitempty"`
	User         *domain.User         `json:"user,omitempty"`
	Message      string               `json:"message,omitempty"`
	Error        string               `json:"error,omitempty"`
}

// VerifyEnvelope wraps OTP confirmation outcomes. Success and failure share
// one shape so clients can always read message and remaining_attempts.
type VerifyEnvelope struct {
	Success           bool         `json:"success"`
	Message           string       `json:"message"`
	RemainingAttempts int          `json:"remaining_attempts,omitempty"`
	User              *domain.User `json:"user,omitempty"`
}

// UnverifiedEnvelope is the 403 body for logins gated on email
// verification. It names the way out so clients can offer the resend
// action instead of a dead end.
type UnverifiedEnvelope struct {
	Error         string `json:"error"`
	EmailVerified bool   `json:"email_verified"`
	Resend        string `json:"resend"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps the sentinel wrapped in err to an HTTP status.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrEmailNotVerified):
		writeJSON(w, http.StatusForbidden, UnverifiedEnvelope{
			Error:  err.Error(),
			Resend: "/v1/registration/resend",
		})
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
