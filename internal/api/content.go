// internal/api/content.go
//
// CMS content.  The write surface is tenantAdmin-only behind the full
// pipeline; the read-by-slug endpoint is public within a tenant (still
// behind tenant.Bind) and serves published rows only.

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/guard"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/model"
	"github.com/edusphere/edusphere/internal/store"
	"github.com/edusphere/edusphere/internal/tenant"
)

type contentRequest struct {
	Kind      string `json:"kind" validate:"required,oneof=page post announcement"`
	Slug      string `json:"slug" validate:"required,lowercase"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body"`
	Published bool   `json:"published"`
}

func (a *API) contentBySlug(w http.ResponseWriter, r *http.Request) {
	scope := tenant.FromContext(r.Context())
	kind := chi.URLParam(r, "kind")
	slug := chi.URLParam(r, "slug")

	c, err := store.ContentBySlug(r.Context(), scope.DB, kind, slug)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "content not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (a *API) listContent(w http.ResponseWriter, r *http.Request) {
	scope := tenant.FromContext(r.Context())
	kind := r.URL.Query().Get("kind")
	if kind == "" {
		kind = "page"
	}
	rows, err := store.ContentList(r.Context(), scope.DB, kind, false)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"content": rows})
}

func (a *API) createContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	scope := tenant.FromContext(r.Context())

	c := &model.Content{
		ID:        uuid.New().String(),
		TenantID:  scope.ID,
		Kind:      req.Kind,
		Slug:      req.Slug,
		Title:     req.Title,
		Body:      req.Body,
		Published: req.Published,
	}
	if err := store.InsertContent(r.Context(), scope.DB, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.WriteError(w, r, httpx.Conflict("slug already in use"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (a *API) updateContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	contentID := chi.URLParam(r, "contentID")

	if err := guard.EnsureContentAccess(r.Context(), scope.DB, id, contentID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := store.ContentByID(r.Context(), scope.DB, contentID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "content not found"))
		return
	}
	c.Kind = req.Kind
	c.Slug = req.Slug
	c.Title = req.Title
	c.Body = req.Body
	c.Published = req.Published
	if err := store.UpdateContent(r.Context(), scope.DB, c); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "content not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (a *API) deleteContent(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	contentID := chi.URLParam(r, "contentID")

	if err := guard.EnsureContentAccess(r.Context(), scope.DB, id, contentID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := store.DeleteContent(r.Context(), scope.DB, contentID); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "content not found"))
		return
	}
	httpx.JSON(w, http.StatusNoContent, nil)
}
