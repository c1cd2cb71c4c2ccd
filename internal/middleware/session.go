package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/model"
	"github.com/sarmin881340/taka-portal/internal/session"
)

// Context keys under which the authenticated principal is stored.
const (
	ctxUser  = "user"
	ctxAdmin = "admin"
)

// UserLoader resolves a member id to the full record.  Loading the principal
// fresh on every request means a deleted account is locked out immediately,
// without any session bookkeeping.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AdminLoader resolves an admin id to the full record.
type AdminLoader interface {
	GetByID(ctx context.Context, id uint64) (model.Admin, error)
}

// RequireUser returns middleware that gates member pages.  Requests without
// a valid member session are redirected to /login; the authenticated user is
// stored in the context for handlers via CurrentUser.
func RequireUser(mgr *session.Manager, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := verifyCookie(c, mgr)
			if !ok {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			u, err := users.GetByID(c.Request().Context(), id)
			if err != nil {
				// Session outlived the account; clear and bounce.
				c.SetCookie(mgr.Clear(c.Request().Context(), cookieValue(c, mgr.Cookie)))
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			c.Set(ctxUser, u)
			return next(c)
		}
	}
}

// RequireAdmin returns middleware that gates the moderation surface.
// Unauthenticated callers are redirected to /admin_login.
func RequireAdmin(mgr *session.Manager, admins AdminLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := verifyCookie(c, mgr)
			if !ok {
				return c.Redirect(http.StatusSeeOther, "/admin_login")
			}
			a, err := admins.GetByID(c.Request().Context(), id)
			if err != nil {
				c.SetCookie(mgr.Clear(c.Request().Context(), cookieValue(c, mgr.Cookie)))
				return c.Redirect(http.StatusSeeOther, "/admin_login")
			}
			c.Set(ctxAdmin, a)
			return next(c)
		}
	}
}

// CurrentUser returns the member stored by RequireUser.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get(ctxUser).(model.User)
	return u, ok
}

// CurrentAdmin returns the admin stored by RequireAdmin.
func CurrentAdmin(c echo.Context) (model.Admin, bool) {
	a, ok := c.Get(ctxAdmin).(model.Admin)
	return a, ok
}

func verifyCookie(c echo.Context, mgr *session.Manager) (uint64, bool) {
	v := cookieValue(c, mgr.Cookie)
	if v == "" {
		return 0, false
	}
	id, err := mgr.Verify(c.Request().Context(), v)
	if err != nil {
		return 0, false
	}
	return id, true
}

func cookieValue(c echo.Context, name string) string {
	ck, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
