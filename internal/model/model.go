// internal/model/model.go
//
// Row structs for the tenant databases.
//
// Context
// -------
// Ownership chain: Course owns Module owns Chapter.  Course, LiveSession,
// and Content carry `tenant_id` directly; Module and Chapter inherit it
// through their parents, which is why the guards always walk up to the
// course row.  Tenant ids stored here are the sanitized form.
//
// Roles are persisted as a comma-separated list on the user row; the set is
// small and read-only after login, so a join table would buy nothing.

package model

import (
	"strings"
	"time"
)

//
// Users
//

type User struct {
	ID           string     `db:"id"`
	TenantID     string     `db:"tenant_id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	RolesCSV     string     `db:"roles"`
	SettingsJSON string     `db:"settings"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

// Roles splits the stored CSV, dropping empties.
func (u *User) Roles() []string {
	if u.RolesCSV == "" {
		return nil
	}
	parts := strings.Split(u.RolesCSV, ",")
	roles := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			roles = append(roles, p)
		}
	}
	return roles
}

// JoinRoles renders a role list back to the stored form.
func JoinRoles(roles []string) string { return strings.Join(roles, ",") }

//
// Courses
//

type Course struct {
	ID             string     `db:"id"`
	TenantID       string     `db:"tenant_id"`
	InstructorID   string     `db:"instructor_id"`
	Title          string     `db:"title"`
	Slug           string     `db:"slug"`
	Description    string     `db:"description"`
	PriceCents     int64      `db:"price_cents"`
	CommissionRate float64    `db:"commission_rate"` // platform share, 0..1
	Published      bool       `db:"published"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
	DeletedAt      *time.Time `db:"deleted_at"`
}

// InstructorShare returns the instructor's cut of one sale in cents.
// Commission arithmetic is plain business logic; the platform keeps
// PriceCents*CommissionRate, the instructor the remainder.
func (c *Course) InstructorShare() int64 {
	if c.CommissionRate < 0 || c.CommissionRate > 1 {
		return c.PriceCents
	}
	return c.PriceCents - int64(float64(c.PriceCents)*c.CommissionRate)
}

//
// Modules and chapters
//

type Module struct {
	ID        string    `db:"id"         json:"id"`
	CourseID  string    `db:"course_id"  json:"course_id"`
	Title     string    `db:"title"      json:"title"`
	Position  int       `db:"position"   json:"position"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Chapter struct {
	ID          string    `db:"id"           json:"id"`
	ModuleID    string    `db:"module_id"    json:"module_id"`
	Title       string    `db:"title"        json:"title"`
	Body        string    `db:"body"         json:"body"`
	VideoURL    string    `db:"video_url"    json:"video_url"`
	Position    int       `db:"position"     json:"position"`
	FreePreview bool      `db:"free_preview" json:"free_preview"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updated_at"`
}

//
// Live sessions
//

// SessionStatus transitions scheduled → live → ended; cancelled is terminal
// from scheduled.
type SessionStatus string

const (
	SessionScheduled SessionStatus = "scheduled"
	SessionLive      SessionStatus = "live"
	SessionEnded     SessionStatus = "ended"
	SessionCancelled SessionStatus = "cancelled"
)

// CanTransition reports whether s may move to next.
func (s SessionStatus) CanTransition(next SessionStatus) bool {
	switch s {
	case SessionScheduled:
		return next == SessionLive || next == SessionCancelled
	case SessionLive:
		return next == SessionEnded
	default:
		return false
	}
}

type LiveSession struct {
	ID           string        `db:"id"            json:"id"`
	TenantID     string        `db:"tenant_id"     json:"tenant_id"`
	CourseID     *string       `db:"course_id"     json:"course_id,omitempty"` // optional link to a course
	InstructorID string        `db:"instructor_id" json:"instructor_id"`
	Title        string        `db:"title"         json:"title"`
	StartsAt     time.Time     `db:"starts_at"     json:"starts_at"`
	DurationMins int           `db:"duration_mins" json:"duration_mins"`
	MeetingURL   string        `db:"meeting_url"   json:"meeting_url"`
	Status       SessionStatus `db:"status"        json:"status"`
	CreatedAt    time.Time     `db:"created_at"    json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"    json:"updated_at"`
}

//
// CMS content
//

type Content struct {
	ID        string    `db:"id"         json:"id"`
	TenantID  string    `db:"tenant_id"  json:"tenant_id"`
	Kind      string    `db:"kind"       json:"kind"` // page, post, announcement
	Slug      string    `db:"slug"       json:"slug"`
	Title     string    `db:"title"      json:"title"`
	Body      string    `db:"body"       json:"body"`
	Published bool      `db:"published"  json:"published"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
