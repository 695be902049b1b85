// internal/api/auth.go
//
// Credential endpoints: register, login, refresh, and the /me surface.
//
// Context
// -------
// These run after tenant.Bind but before bearer authentication; the caller
// proves identity with credentials (or a refresh token) instead.  Status
// codes are deliberate:
//
//   • unknown email or bad password          → 401,
//   • right credentials, wrong tenant header → 403 — the caller is known,
//     and telling them "log in again" would be a lie,
//   • duplicate registration                 → 409.
//
// Refresh re-reads the user row before minting, so a role change lands in
// the next access token even though issued tokens are never revoked.

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/edusphere/edusphere/internal/auth"
	"github.com/edusphere/edusphere/internal/httpx"
	"github.com/edusphere/edusphere/internal/model"
	"github.com/edusphere/edusphere/internal/store"
	"github.com/edusphere/edusphere/internal/tenant"
	"github.com/edusphere/edusphere/internal/token"
)

//
// Request / response shapes
//

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type userView struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles"`
}

func viewUser(u *model.User) userView {
	roles := u.Roles()
	if len(roles) == 0 {
		roles = []string{auth.DefaultRole}
	}
	return userView{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		TenantID: u.TenantID,
		Roles:    roles,
	}
}

//
// Handlers
//

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	scope := tenant.FromContext(r.Context())

	digest, err := a.Hasher.Hash(req.Password)
	if err != nil {
		httpx.WriteError(w, r, httpx.BadRequest("unusable password").Wrap(err))
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		TenantID:     scope.ID,
		Email:        req.Email,
		PasswordHash: digest,
		Name:         req.Name,
		RolesCSV:     auth.DefaultRole,
		SettingsJSON: "{}",
	}
	if err := store.InsertUser(r.Context(), scope.DB, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			httpx.WriteError(w, r, httpx.Conflict("email already registered"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, viewUser(u))
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	scope := tenant.FromContext(r.Context())

	u, err := store.UserByEmail(r.Context(), scope.DB, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same 401 as a bad password; existence must not be probeable.
			httpx.WriteError(w, r, httpx.Unauthorized("invalid credentials"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}

	if !a.Hasher.Verify(req.Password, u.PasswordHash) {
		httpx.WriteError(w, r, httpx.Unauthorized("invalid credentials"))
		return
	}

	// Credentials are proven; a tenant mismatch from here on is Forbidden,
	// not Unauthorized.
	if u.TenantID != "" && tenant.Sanitize(u.TenantID) != scope.ID {
		httpx.WriteError(w, r, httpx.Forbidden("account does not belong to this tenant"))
		return
	}

	pair, err := a.Tokens.IssuePair(subjectFor(u))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"user":   viewUser(u),
		"tokens": pair,
	})
}

func (a *API) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(r, &req); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	scope := tenant.FromContext(r.Context())

	claims, err := a.Tokens.Verify(req.RefreshToken, token.TypeRefresh)
	if err != nil {
		httpx.WriteError(w, r, httpx.Unauthorized("invalid or expired token"))
		return
	}
	if claims.TenantID != "" && tenant.Sanitize(claims.TenantID) != scope.ID {
		httpx.WriteError(w, r, httpx.Forbidden("token not valid for this tenant"))
		return
	}

	u, err := store.UserByID(r.Context(), scope.DB, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, r, httpx.Unauthorized("invalid or expired token"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}

	pair, err := a.Tokens.IssuePair(subjectFor(u))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"tokens": pair})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	httpx.JSON(w, http.StatusOK, userView{
		ID:       id.UserID,
		Email:    id.Email,
		Name:     id.Name,
		TenantID: id.TenantID,
		Roles:    id.Roles,
	})
}

func (a *API) updateSettings(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.FromContext(r.Context())
	scope := tenant.FromContext(r.Context())

	var settings map[string]any
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		httpx.WriteError(w, r, httpx.BadRequest("malformed settings body").Wrap(err))
		return
	}
	blob, err := json.Marshal(settings)
	if err != nil {
		httpx.WriteError(w, r, httpx.BadRequest("unserialisable settings").Wrap(err))
		return
	}

	if err := store.UpdateUserSettings(r.Context(), scope.DB, id.UserID, string(blob)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteError(w, r, httpx.NotFound("user not found"))
			return
		}
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"settings": settings})
}

// subjectFor maps a user row onto the token subject.
func subjectFor(u *model.User) token.Subject {
	roles := u.Roles()
	if len(roles) == 0 {
		roles = []string{auth.DefaultRole}
	}
	return token.Subject{
		UserID:   u.ID,
		Email:    u.Email,
		TenantID: u.TenantID,
		Roles:    roles,
		Name:     u.Name,
	}
}
