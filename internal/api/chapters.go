// internal/api/chapters.go
//
// Chapter CRUD, nested under course/module.  The guard walks chapter →
// module → course → tenant and also asserts the path-declared parents
// match the persisted relations.

package api

import (
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

type chapterRequest struct {
	Title       string `json:"title" validate:"required"`
	Body        string `json:"body"`
	VideoURL    string `json:"video_url" validate:"omitempty,url"`
	Position    int    `json:"position" validate:"gte=0"`
	FreePreview bool   `json:"free_preview"`
}

func (a *API) listChapters(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	moduleID := chi.URLParam(r, "moduleID")

	if err := guard.EnsureModuleAccess(r.Context(), scope.DB, id, courseID, moduleID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rows, err := store.ChaptersByModule(r.Context(), scope.DB, moduleID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"chapters": rows})
}

func (a *API) createChapter(w http.ResponseWriter, r *http.Request) {
	var req chapterRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	moduleID := chi.URLParam(r, "moduleID")

	if err := guard.EnsureModuleAccess(r.Context(), scope.DB, id, courseID, moduleID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	c := &model.Chapter{
		ID:          uuid.New().String(),
		ModuleID:    moduleID,
		Title:       req.Title,
		Body:        req.Body,
		VideoURL:    req.VideoURL,
		Position:    req.Position,
		FreePreview: req.FreePreview,
	}
	if err := store.InsertChapter(r.Context(), scope.DB, c); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (a *API) getChapter(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	moduleID := chi.URLParam(r, "moduleID")
	chapterID := chi.URLParam(r, "chapterID")

	if err := guard.EnsureChapterAccess(r.Context(), scope.DB, id, courseID, moduleID, chapterID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := store.ChapterByID(r.Context(), scope.DB, chapterID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "chapter not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (a *API) updateChapter(w http.ResponseWriter, r *http.Request) {
	var req chapterRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	moduleID := chi.URLParam(r, "moduleID")
	chapterID := chi.URLParam(r, "chapterID")

	if err := guard.EnsureChapterAccess(r.Context(), scope.DB, id, courseID, moduleID, chapterID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := store.ChapterByID(r.Context(), scope.DB, chapterID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "chapter not found"))
		return
	}
	c.Title = req.Title
	c.Body = req.Body
	c.VideoURL = req.VideoURL
	c.Position = req.Position
	c.FreePreview = req.FreePreview
	if err := store.UpdateChapter(r.Context(), scope.DB, c); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "chapter not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (a *API) deleteChapter(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	moduleID := chi.URLParam(r, "moduleID")
	chapterID := chi.URLParam(r, "chapterID")

	if err := guard.EnsureChapterAccess(r.Context(), scope.DB, id, courseID, moduleID, chapterID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := store.DeleteChapter(r.Context(), scope.DB, chapterID); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "chapter not found"))
		return
	}
	httpx.JSON(w, http.StatusNoContent, nil)
}
