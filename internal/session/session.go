// Package session implements the cookie-based authentication used by both
// principal tracks.  A session cookie carries an HS256 JWT whose jti claim is
// a random one-time token; the token's hash must also be live in the Redis
// session store for the session to count.  Signature, expiry, and server-side
// liveness are therefore all required, and logout works by deleting the
// server-side entry even though the cookie itself cannot be recalled.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sarmin881340/taka-portal/internal/repository"
	"github.com/sarmin881340/taka-portal/internal/utils"
)

// Cookie names per track.  Keeping them distinct means a member login can
// never be mistaken for an admin login and vice versa.
const (
	UserCookie  = "session"
	AdminCookie = "admin_session"
)

// ErrNoSession is returned when a request carries no usable session: the
// cookie is absent, malformed, expired, tampered with, or revoked.
var ErrNoSession = errors.New("no valid session")

// Manager issues and verifies session cookies for one track.
type Manager struct {
	Secret string
	TTL    time.Duration
	Track  string
	Cookie string
	Repo   *repository.SessionRepo
}

// NewUserManager builds the manager for the member track.
func NewUserManager(secret string, ttl time.Duration, repo *repository.SessionRepo) *Manager {
	return &Manager{Secret: secret, TTL: ttl, Track: repository.TrackUser, Cookie: UserCookie, Repo: repo}
}

// NewAdminManager builds the manager for the admin track.
func NewAdminManager(secret string, ttl time.Duration, repo *repository.SessionRepo) *Manager {
	return &Manager{Secret: secret, TTL: ttl, Track: repository.TrackAdmin, Cookie: AdminCookie, Repo: repo}
}

// Issue establishes a session for the principal and returns the cookie to
// set on the response.
func (m *Manager) Issue(ctx context.Context, principalID uint64) (*http.Cookie, error) {
	tok, err := utils.NewSessionToken(m.TTL)
	if err != nil {
		return nil, err
	}
	if err := m.Repo.Store(ctx, m.Track, utils.HashSessionRaw(tok.Raw), principalID); err != nil {
		return nil, err
	}

	claims := jwt.MapClaims{
		"sub":   principalID,
		"track": m.Track,
		"jti":   tok.Raw,
		"exp":   tok.Exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.Secret))
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     m.Cookie,
		Value:    signed,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Verify checks a cookie value and returns the principal id it authenticates.
// When the Redis store is enabled the entry's TTL slides as a side effect,
// matching the original's rolling sessions.
func (m *Manager) Verify(ctx context.Context, cookieValue string) (uint64, error) {
	id, raw, err := m.parse(cookieValue)
	if err != nil {
		return 0, err
	}
	if !m.Repo.Enabled() {
		// Degraded mode: the signed expiry is the only control.
		return id, nil
	}
	stored, err := m.Repo.Touch(ctx, m.Track, utils.HashSessionRaw(raw))
	if err != nil || stored != id {
		return 0, ErrNoSession
	}
	return id, nil
}

// Clear revokes the server-side session and returns an expired cookie that
// overwrites the browser's copy.
func (m *Manager) Clear(ctx context.Context, cookieValue string) *http.Cookie {
	if _, raw, err := m.parse(cookieValue); err == nil {
		_ = m.Repo.Delete(ctx, m.Track, utils.HashSessionRaw(raw))
	}
	return &http.Cookie{
		Name:     m.Cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// parse validates the JWT and extracts the principal id and the raw session
// token.  Tokens signed with a different method or for the other track are
// rejected outright.
func (m *Manager) parse(cookieValue string) (uint64, string, error) {
	if cookieValue == "" {
		return 0, "", ErrNoSession
	}
	tok, err := jwt.Parse(cookieValue, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrNoSession
		}
		return []byte(m.Secret), nil
	})
	if err != nil || !tok.Valid {
		return 0, "", ErrNoSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrNoSession
	}
	if track, _ := claims["track"].(string); track != m.Track {
		return 0, "", ErrNoSession
	}
	sub, ok := claims["sub"].(float64)
	if !ok || sub <= 0 {
		return 0, "", ErrNoSession
	}
	raw, ok := claims["jti"].(string)
	if !ok || raw == "" {
		return 0, "", ErrNoSession
	}
	return uint64(sub), raw, nil
}
