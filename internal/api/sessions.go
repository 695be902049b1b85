// internal/api/sessions.go
//
// Live-session CRUD and status transitions.  Sessions carry their tenant id
// directly, so the guard checks the tag rather than walking a chain.  The
// scheduled → live → ended state machine lives on the model; this layer
// rejects illegal jumps with a 409.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/guard"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/model"
	"github.com/edusphere/edusphere/internal/store"
	"github.com/edusphere/edusphere/internal/tenant"
)

type sessionRequest struct {
	Title        string    `json:"title" validate:"required"`
	CourseID     *string   `json:"course_id"`
	StartsAt     time.Time `json:"starts_at" validate:"required"`
	DurationMins int       `json:"duration_mins" validate:"gt=0"`
	MeetingURL   string    `json:"meeting_url" validate:"omitempty,url"`
}

type transitionRequest struct {
	Status model.SessionStatus `json:"status" validate:"required,oneof=live ended cancelled"`
}

func (a *API) listSessions(w http.ResponseWriter, r *http.Request) {
	scope := tenant.FromContext(r.Context())
	rows, err := store.Sessions(r.Context(), scope.DB)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"sessions": rows})
}

func (a *API) createSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())

	// A linked course must itself pass the ownership guard.
	if req.CourseID != nil {
		if err := guard.EnsureCourseAccess(r.Context(), scope.DB, id, *req.CourseID); err != nil {
			httpx.WriteError(w, r, err)
			return
		}
	}

	s := &model.LiveSession{
		ID:           uuid.New().String(),
		TenantID:     scope.ID,
		CourseID:     req.CourseID,
		InstructorID: id.UserID,
		Title:        req.Title,
		StartsAt:     req.StartsAt,
		DurationMins: req.DurationMins,
		MeetingURL:   req.MeetingURL,
		Status:       model.SessionScheduled,
	}
	if err := store.InsertSession(r.Context(), scope.DB, s); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, s)
}

func (a *API) getSession(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	if err := guard.EnsureSessionAccess(r.Context(), scope.DB, id, sessionID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	s, err := store.SessionByID(r.Context(), scope.DB, sessionID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "session not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, s)
}

func (a *API) transitionSession(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	if err := guard.EnsureSessionAccess(r.Context(), scope.DB, id, sessionID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	s, err := store.SessionByID(r.Context(), scope.DB, sessionID)
	if err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "session not found"))
		return
	}
	if err := guard.EnsureInstructorEligibility(id, s.InstructorID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if !s.Status.CanTransition(req.Status) {
		httpx.WriteError(w, r, httpx.Conflict("illegal status transition"))
		return
	}
	if err := store.UpdateSessionStatus(r.Context(), scope.DB, sessionID, req.Status); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "session not found"))
		return
	}
	s.Status = req.Status
	httpx.JSON(w, http.StatusOK, s)
}

func (a *API) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	sessionID := chi.URLParam(r, "sessionID")

	if err := guard.EnsureSessionAccess(r.Context(), scope.DB, id, sessionID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := store.DeleteSession(r.Context(), scope.DB, sessionID); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "session not found"))
		return
	}
	httpx.JSON(w, http.StatusNoContent, nil)
}
