// internal/api/router.go
//
// Route table and pipeline composition.
//
// Context
// -------
// The request pipeline is ordinary middleware composition, in this exact
// order for every tenant-scoped route:
//
//	security headers → request enrichment → tenant.Bind → auth.Authenticate
//	→ rbac.Require → handler (→ guards at the data layer)
//
// No stage is skipped or reordered; the tenant must be bound before
// authentication so the token cross-check has a resolved id to compare
// against.  /healthz and /metrics sit outside the tenant pipeline.
//
// Role requirements are declared per route with rbac.Require; an empty
// Require() means "any authenticated caller of this tenant".

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/middleware"
	"github.com/edusphere/edusphere/internal/password"
	"github.com/edusphere/edusphere/internal/rbac"
	"github.com/edusphere/edusphere/internal/requestinfo"
	"github.com/edusphere/edusphere/internal/tenant"
	"github.com/edusphere/edusphere/internal/token"
)

// API bundles the services the handlers need.
type API struct {
	Tokens   *token.Service
	Hasher   *password.Hasher
	Registry *tenant.Registry
}

// Router assembles the full handler tree.
func Router(a *API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)

	r.Get("/healthz", a.healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(tenant.Bind(a.Registry))

		// Credential endpoints: tenant-scoped, no bearer token yet.
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", a.register)
			r.Post("/login", a.login)
			r.Post("/refresh", a.refresh)
		})

		// Public CMS read path: published rows only, no token required.
		r.Get("/content/{kind}/{slug}", a.contentBySlug)

		// Everything below requires a verified access token.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(a.Tokens))

			r.With(rbac.Require()).Get("/me", a.me)
			r.With(rbac.Require()).Put("/me/settings", a.updateSettings)

			r.Route("/courses", func(r chi.Router) {
				r.With(rbac.Require()).Get("/", a.listCourses)
				r.With(rbac.Require(rbac.RoleInstructor)).Post("/", a.createCourse)

				r.Route("/{courseID}", func(r chi.Router) {
					r.With(rbac.Require()).Get("/", a.getCourse)
					r.With(rbac.Require(rbac.RoleInstructor)).Put("/", a.updateCourse)
					r.With(rbac.Require(rbac.RoleTenantAdmin)).Delete("/", a.deleteCourse)
					r.With(rbac.Require(rbac.RoleTenantAdmin)).Post("/publish", a.publishCourse)

					r.Route("/modules", func(r chi.Router) {
						r.With(rbac.Require()).Get("/", a.listModules)
						r.With(rbac.Require(rbac.RoleInstructor)).Post("/", a.createModule)

						r.Route("/{moduleID}", func(r chi.Router) {
							r.With(rbac.Require()).Get("/", a.getModule)
							r.With(rbac.Require(rbac.RoleInstructor)).Put("/", a.updateModule)
							r.With(rbac.Require(rbac.RoleInstructor)).Delete("/", a.deleteModule)

							r.Route("/chapters", func(r chi.Router) {
								r.With(rbac.Require()).Get("/", a.listChapters)
								r.With(rbac.Require(rbac.RoleInstructor)).Post("/", a.createChapter)
								r.With(rbac.Require()).Get("/{chapterID}", a.getChapter)
								r.With(rbac.Require(rbac.RoleInstructor)).Put("/{chapterID}", a.updateChapter)
								r.With(rbac.Require(rbac.RoleInstructor)).Delete("/{chapterID}", a.deleteChapter)
							})
						})
					})
				})
			})

			r.Route("/sessions", func(r chi.Router) {
				r.With(rbac.Require()).Get("/", a.listSessions)
				r.With(rbac.Require(rbac.RoleInstructor)).Post("/", a.createSession)
				r.With(rbac.Require()).Get("/{sessionID}", a.getSession)
				r.With(rbac.Require(rbac.RoleInstructor)).Post("/{sessionID}/status", a.transitionSession)
				r.With(rbac.Require(rbac.RoleTenantAdmin)).Delete("/{sessionID}", a.deleteSession)
			})

			r.Route("/content", func(r chi.Router) {
				r.With(rbac.Require(rbac.RoleTenantAdmin)).Get("/", a.listContent)
				r.With(rbac.Require(rbac.RoleTenantAdmin)).Post("/", a.createContent)
				r.With(rbac.Require(rbac.RoleTenantAdmin)).Put("/{contentID}", a.updateContent)
				r.With(rbac.Require(rbac.RoleTenantAdmin)).Delete("/{contentID}", a.deleteContent)
			})
		})
	})

	return r
}

// healthz reports process liveness and cached-tenant count.
func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"active_tenants": a.Registry.Len(),
	})
}
