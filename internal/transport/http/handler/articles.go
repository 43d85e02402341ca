package handler

import (
	"encoding/json"
	"net/http"

	"github.com/credinews/credinews-api/internal/application/article"
	"github.com/credinews/credinews-api/internal/domain"
	"github.com/credinews/credinews-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// ArticleHandler handles article submission and listing.
type ArticleHandler struct {
	svc article.Service
}

func NewArticleHandler(svc article.Service) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

func (h *ArticleHandler) Submit(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.SubmitArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	a, err := h.svc.Submit(r.Context(), claims.UserID, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	articles, err := h.svc.List(r.Context(), claims.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": articles})
}

func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	a, err := h.svc.Get(r.Context(), claims.UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// Verify scores ad-hoc text or a URL without storing a submission.
func (h *ArticleHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
		URL     string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var (
		result *domain.FactCheckResult
		err    error
	)
	switch chi.URLParam(r, "mode") {
	case "text":
		result, err = h.svc.VerifyText(r.Context(), req.Title, req.Content)
	case "url":
		result, err = h.svc.VerifyURL(r.Context(), req.URL)
	default:
		writeError(w, http.StatusBadRequest, "unknown verify mode")
		return
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
