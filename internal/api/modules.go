// internal/api/modules.go
//
// Module CRUD, nested under a course.  Modules inherit tenancy from the
// course, so every operation first proves the course belongs to the
// caller's tenant, and id-addressed operations additionally prove the
// module really sits under the course named in the path.

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

type moduleRequest struct {
	Title    string `json:"title" validate:"required"`
	Position int    `json:"position" validate:"gte=0"`
}

func (a *API) listModules(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	if err := guard.EnsureCourseAccess(r.Context(), scope.DB, id, courseID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rows, err := store.ModulesByCourse(r.Context(), scope.DB, courseID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"modules": rows})
}

func (a *API) createModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	if err := guard.EnsureCourseAccess(r.Context(), scope.DB, id, courseID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	c, err := store.CourseByID(r.Context(), scope.DB, courseID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "course not found"))
		return
	}
	if err := guard.EnsureInstructorEligibility(id, c.InstructorID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	m := &model.Module{
		ID:       uuid.New().String(),
		CourseID: courseID,
		Title:    req.Title,
		Position: req.Position,
	}
	if err := store.InsertModule(r.Context(), scope.DB, m); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, m)
}

func (a *API) getModule(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	moduleID := chi.URLParam(r, "moduleID")

	if err := guard.EnsureModuleAccess(r.Context(), scope.DB, id, courseID, moduleID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	m, err := store.ModuleByID(r.Context(), scope.DB, moduleID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "module not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (a *API) updateModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
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
	m, err := store.ModuleByID(r.Context(), scope.DB, moduleID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "module not found"))
		return
	}
	m.Title = req.Title
	m.Position = req.Position
	if err := store.UpdateModule(r.Context(), scope.DB, m); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "module not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, m)
}

func (a *API) deleteModule(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")
	moduleID := chi.URLParam(r, "moduleID")

	if err := guard.EnsureModuleAccess(r.Context(), scope.DB, id, courseID, moduleID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := store.DeleteModule(r.Context(), scope.DB, moduleID); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "module not found"))
		return
	}
	httpx.JSON(w, http.StatusNoContent, nil)
}
