// internal/api/courses.go
//
// Course CRUD.  The role middleware has already gated the tenant and
// privilege level; every id-addressed operation still passes through the
// ownership guard before touching rows, so a valid-looking id from another
// tenant dies here with a 403 rather than leaking data.

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
	"github.com/edusphere/edusphere/internal/rbac"
	"github.com/edusphere/edusphere/internal/store"
	"github.com/edusphere/edusphere/internal/tenant"
)

type courseRequest struct {
	Title          string  `json:"title" validate:"required"`
	Slug           string  `json:"slug" validate:"required,lowercase"`
	Description    string  `json:"description"`
	PriceCents     int64   `json:"price_cents" validate:"gte=0"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0,lte=1"`
}

type courseView struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	Description     string  `json:"description"`
	PriceCents      int64   `json:"price_cents"`
	CommissionRate  float64 `json:"commission_rate"`
	InstructorShare int64   `json:"instructor_share_cents"`
	InstructorID    string  `json:"instructor_id"`
	Published       bool    `json:"published"`
}

func viewCourse(c *model.Course) courseView {
	return courseView{
		ID:              c.ID,
		Title:           c.Title,
		Slug:            c.Slug,
		Description:     c.Description,
		PriceCents:      c.PriceCents,
		CommissionRate:  c.CommissionRate,
		InstructorShare: c.InstructorShare(),
		InstructorID:    c.InstructorID,
		Published:       c.Published,
	}
}

func (a *API) listCourses(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())

	// Students see published courses only; staff see everything.
	publishedOnly := rbac.MaxRank(id.Roles) < rbac.Rank(rbac.RoleInstructor)
	rows, err := store.Courses(r.Context(), scope.DB, publishedOnly)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	views := make([]courseView, 0, len(rows))
	for i := range rows {
		views = append(views, viewCourse(&rows[i]))
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"courses": views})
}

func (a *API) createCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())

	c := &model.Course{
		ID:             uuid.New().String(),
		TenantID:       scope.ID,
		InstructorID:   id.UserID,
		Title:          req.Title,
		Slug:           req.Slug,
		Description:    req.Description,
		PriceCents:     req.PriceCents,
		CommissionRate: req.CommissionRate,
	}
	if err := store.InsertCourse(r.Context(), scope.DB, c); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.WriteError(w, r, httpx.Conflict("slug already in use"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewCourse(c))
}

func (a *API) getCourse(w http.ResponseWriter, r *http.Request) {
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
	httpx.JSON(w, http.StatusOK, viewCourse(c))
}

func (a *API) updateCourse(w http.ResponseWriter, r *http.Request) {
	var req courseRequest
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

	c.Title = req.Title
	c.Slug = req.Slug
	c.Description = req.Description
	c.PriceCents = req.PriceCents
	c.CommissionRate = req.CommissionRate
	if err := store.UpdateCourse(r.Context(), scope.DB, c); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "course not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, viewCourse(c))
}

func (a *API) deleteCourse(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	if err := guard.EnsureCourseAccess(r.Context(), scope.DB, id, courseID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := store.DeleteCourse(r.Context(), scope.DB, courseID); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "course not found"))
		return
	}
	httpx.JSON(w, http.StatusNoContent, nil)
}

func (a *API) publishCourse(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())
	courseID := chi.URLParam(r, "courseID")

	if err := guard.EnsureCourseAccess(r.Context(), scope.DB, id, courseID); err != nil {
		httpx.WriteError(w, r, err)
		return
	}

	var req struct {
		Published bool `json:"published"`
	}
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := store.SetCoursePublished(r.Context(), scope.DB, courseID, req.Published); err != nil {
		httpx.WriteError(w, r, mapStoreErr(err, "course not found"))
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"published": req.Published})
}

// mapStoreErr converts store sentinels into API errors, leaving everything
// else to the 500 fallback.
func mapStoreErr(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return httpx.NotFound(notFoundMsg)
	}
	return err
}
