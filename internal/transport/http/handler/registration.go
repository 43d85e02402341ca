package handler

import (
	"encoding/json"
	"net/http"

	"github.com/credinews/credinews-api/internal/application/registration"
	"github.com/credinews/credinews-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

// RegistrationHandler handles the registration and email verification flow.
type RegistrationHandler struct {
	svc registration.Service
}

func NewRegistrationHandler(svc registration.Service) *RegistrationHandler {
	return &RegistrationHandler{svc: svc}
}

type confirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type emailRequest struct {
	Email string `json:"email"`
}

func (h *RegistrationHandler) Action(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "register":
		h.register(w, r)
	case "confirm":
		h.confirm(w, r)
	case "resend":
		h.resend(w, r)
	case "cancel":
		h.cancel(w, r)
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}

func (h *RegistrationHandler) register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *RegistrationHandler) confirm(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, u, err := h.svc.Confirm(r.Context(), req.Email, req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	env := VerifyEnvelope{
		Success:           result.OK,
		Message:           result.Message,
		RemainingAttempts: result.Remaining,
		User:              u,
	}
	if !result.OK {
		// Wrong or dead code is a flow outcome, not a transport error.
		writeJSON(w, http.StatusUnprocessableEntity, env)
		return
	}
	writeJSON(w, http.StatusOK, env)
}

func (h *RegistrationHandler) resend(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	delivery, err := h.svc.Resend(r.Context(), req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, delivery)
}

func (h *RegistrationHandler) cancel(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	if err := h.svc.Cancel(r.Context(), req.Email); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "registration cancelled"})
}
