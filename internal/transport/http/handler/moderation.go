package handler

import (
	"context"
	"net/http"

	"github.com/credinews/credinews-api/internal/domain"
	"github.com/go-chi/chi/v5"
)

type moderationUserStore interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Update(ctx context.Context, userID string, updates map[string]interface{}) error
	SoftDelete(ctx context.Context, userID string) error
}

type moderationSessionStore interface {
	SoftDeleteByUser(ctx context.Context, userID string) error
}

// ModerationHandler handles the admin user-moderation endpoints. Blocking or
// deleting an account always revokes its open sessions.
type ModerationHandler struct {
	users    moderationUserStore
	sessions moderationSessionStore
}

func NewModerationHandler(users moderationUserStore, sessions moderationSessionStore) *ModerationHandler {
	return &ModerationHandler{users: users, sessions: sessions}
}

func (h *ModerationHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *ModerationHandler) Block(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := h.users.Update(r.Context(), userID, map[string]interface{}{
		"status": domain.StatusBlocked,
		"enable": false,
	}); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.sessions.SoftDeleteByUser(r.Context(), userID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user blocked"})
}

func (h *ModerationHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := h.users.Update(r.Context(), userID, map[string]interface{}{
		"status": domain.StatusActive,
		"enable": true,
	}); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user unblocked"})
}

func (h *ModerationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := h.users.SoftDelete(r.Context(), userID); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.sessions.SoftDeleteByUser(r.Context(), userID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "user deleted"})
}
