package handler

import (
	"encoding/json"
	"net/http"

	"github.com/credinews/credinews-api/internal/application/session"
	"github.com/go-chi/chi/v5"
)

// PasswordRecoveryHandler handles the two-step password recovery flow.
type PasswordRecoveryHandler struct {
	svc session.Service
}

func NewPasswordRecoveryHandler(svc session.Service) *PasswordRecoveryHandler {
	return &PasswordRecoveryHandler{svc: svc}
}

func (h *PasswordRecoveryHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "request":
		var req struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
			writeError(w, http.StatusBadRequest, "email required")
			return
		}
		delivery, err := h.svc.RequestPasswordReset(r.Context(), req.Email)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, delivery)
	case "reset":
		var req struct {
			Email       string `json:"email"`
			Code        string `json:"code"`
			NewPassword string `json:"new_password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		result, err := h.svc.ResetPassword(r.Context(), req.Email, req.Code, req.NewPassword)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		env := VerifyEnvelope{Success: result.OK, Message: result.Message, RemainingAttempts: result.Remaining}
		if !result.OK {
			writeJSON(w, http.StatusUnprocessableEntity, env)
			return
		}
		writeJSON(w, http.StatusOK, env)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
