// internal/token/token.go
//
// Dual-purpose (access + refresh) JWT service.
//
// Context
// -------
// Login and refresh mint a pair of HS256 tokens sharing one claim set but
// differing in `token_type`, signing secret, and expiry.  Verification picks
// the secret by the *expected* type, so a refresh token can never validate
// where an access token is required, and vice versa.  Construction refuses
// equal secrets outright.
//
// Every verification failure—bad signature, expiry, malformed payload, or
// type mismatch—collapses into the single opaque ErrInvalidToken.  The
// specific reason goes to the debug log only; handing it to the caller would
// turn the verifier into a forgery oracle.
//
// Tokens are immutable and never revoked server-side; invalidation is purely
// through expiry.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package token

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NowFunc returns the current time.  Overridable in tests.
var NowFunc = time.Now

// Type discriminates the two halves of a pair.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// ErrInvalidToken is the one error Verify ever returns.
var ErrInvalidToken = errors.New("token: invalid or expired token")

// Claims is the signed payload shared by both token types.
type Claims struct {
	Email       string   `json:"email"`
	TenantID    string   `json:"tenant_id"`
	Roles       []string `json:"roles"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	TokenType   Type     `json:"token_type"`
	jwt.RegisteredClaims
}

// Subject is the identity a pair is minted for.
type Subject struct {
	UserID      string
	Email       string
	TenantID    string
	Roles       []string
	Name        string
	Permissions []string
}

// Pair is the login/refresh response payload.
type Pair struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	ExpiresIn        int64  `json:"expires_in"`         // seconds
	RefreshExpiresIn int64  `json:"refresh_expires_in"` // seconds
}

// Service signs and verifies token pairs.
type Service struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewService validates the secret policy and returns a Service.  Equal
// secrets are rejected: they would make the access/refresh distinction
// purely advisory.
func NewService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) (*Service, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token: both signing secrets are required")
	}
	if subtle.ConstantTimeCompare([]byte(accessSecret), []byte(refreshSecret)) == 1 {
		return nil, errors.New("token: access and refresh secrets must differ")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("token: expiries must be positive")
	}
	return &Service{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}, nil
}

// IssuePair mints an access and a refresh token for sub.
func (s *Service) IssuePair(sub Subject) (*Pair, error) {
	access, err := s.sign(sub, TypeAccess, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(sub, TypeRefresh, s.refreshSecret, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        int64(s.accessTTL.Seconds()),
		RefreshExpiresIn: int64(s.refreshTTL.Seconds()),
	}, nil
}

func (s *Service) sign(sub Subject, typ Type, secret []byte, ttl time.Duration) (string, error) {
	now := NowFunc()
	claims := Claims{
		Email:       sub.Email,
		TenantID:    sub.TenantID,
		Roles:       sub.Roles,
		Name:        sub.Name,
		Permissions: sub.Permissions,
		TokenType:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.UserID,
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// Verify decodes raw against the secret for want and returns its claims.
// Any failure is ErrInvalidToken; the reason is logged at debug only.
func (s *Service) Verify(raw string, want Type) (*Claims, error) {
	secret := s.accessSecret
	if want == TypeRefresh {
		secret = s.refreshSecret
	}

	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(NowFunc),
	)
	if err != nil || !tok.Valid {
		zap.S().Debugw("token verify failed", "want", want, "err", err)
		return nil, ErrInvalidToken
	}
	if claims.TokenType != want {
		zap.S().Debugw("token verify failed",
			"want", want, "err", "token_type mismatch")
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
