package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/repository"
	"github.com/sarmin881340/taka-portal/internal/session"
	"github.com/sarmin881340/taka-portal/internal/utils"
)

// Credential failures surface one generic message so the response never
// reveals whether the email is registered.
const badCredentials = "Invalid email or password."

// AuthHandler bundles dependencies for member registration and login.
type AuthHandler struct {
	Users      UserStore
	Sessions   *session.Manager
	BcryptCost int
}

func NewAuthHandler(users UserStore, sessions *session.Manager, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Sessions: sessions, BcryptCost: bcryptCost}
}

// LoginPage renders the member login form (GET / and GET /login).
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", echo.Map{})
}

// RegisterPage renders the registration form.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", echo.Map{})
}

// Register creates a member account and redirects to the login form.
// Duplicate emails re-render the form with an error instead of creating a
// second record.
func (h *AuthHandler) Register(c echo.Context) error {
	name := strings.TrimSpace(c.FormValue("name"))
	phone := strings.TrimSpace(c.FormValue("phone"))
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	if name == "" || phone == "" || email == "" || password == "" {
		return c.Render(http.StatusBadRequest, "register.html",
			echo.Map{"Message": "All fields are required."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Users.Create(ctx, name, phone, email, password, h.BcryptCost); err != nil {
		if err == repository.ErrEmailExists {
			return c.Render(http.StatusConflict, "register.html",
				echo.Map{"Message": "An account with this email already exists."})
		}
		return c.Render(http.StatusInternalServerError, "register.html",
			echo.Map{"Message": "Could not create the account. Please try again."})
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// Login verifies credentials and establishes a member session.
func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return c.Render(http.StatusBadRequest, "login.html",
			echo.Map{"Message": badCredentials})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Render(http.StatusUnauthorized, "login.html",
				echo.Map{"Message": badCredentials})
		}
		return c.Render(http.StatusInternalServerError, "login.html",
			echo.Map{"Message": "Something went wrong. Please try again."})
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return c.Render(http.StatusUnauthorized, "login.html",
			echo.Map{"Message": badCredentials})
	}

	ck, err := h.Sessions.Issue(ctx, u.ID)
	if err != nil {
		return c.Render(http.StatusInternalServerError, "login.html",
			echo.Map{"Message": "Could not start a session. Please try again."})
	}
	c.SetCookie(ck)
	return c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout tears the member session down and returns to the login form.
func (h *AuthHandler) Logout(c echo.Context) error {
	var value string
	if ck, err := c.Cookie(h.Sessions.Cookie); err == nil {
		value = ck.Value
	}
	c.SetCookie(h.Sessions.Clear(c.Request().Context(), value))
	return c.Redirect(http.StatusSeeOther, "/login")
}
