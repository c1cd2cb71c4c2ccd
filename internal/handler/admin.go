package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/middleware"
	"github.com/sarmin881340/taka-portal/internal/model"
	"github.com/sarmin881340/taka-portal/internal/queue"
	"github.com/sarmin881340/taka-portal/internal/repository"
	queue_publisher "github.com/sarmin881340/taka-portal/internal/service"
	"github.com/sarmin881340/taka-portal/internal/session"
	"github.com/sarmin881340/taka-portal/internal/utils"
)

// AdminHandler serves the moderation surface: admin login, the dashboard,
// payment transitions, and cascade user deletion.
type AdminHandler struct {
	Admins   AdminStore
	Users    UserStore
	Payments PaymentStore
	Reviews  ReviewStore
	Messages MessageStore
	Sessions *session.Manager

	// Publish sends a moderation event after a terminal payment transition.
	// Best-effort: failures are logged, never surfaced to the admin.  Tests
	// substitute the RabbitMQ publisher; nil disables publication.
	Publish func(ctx context.Context, ev queue.PaymentReviewedEvent) error
}

func NewAdminHandler(admins AdminStore, users UserStore, payments PaymentStore,
	reviews ReviewStore, messages MessageStore, sessions *session.Manager) *AdminHandler {
	return &AdminHandler{
		Admins:   admins,
		Users:    users,
		Payments: payments,
		Reviews:  reviews,
		Messages: messages,
		Sessions: sessions,
		Publish:  queue_publisher.PublishPaymentReviewed,
	}
}

// LoginPage renders the admin login form.
func (h *AdminHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "admin_login.html", echo.Map{})
}

// Login checks credentials against the seeded admin list and establishes an
// admin session.  The error copy is as generic as the member track's.
func (h *AdminHandler) Login(c echo.Context) error {
	email := strings.ToLower(strings.TrimSpace(c.FormValue("email")))
	password := c.FormValue("password")

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Admins.GetByEmail(ctx, email)
	if err != nil {
		if err == repository.ErrNotFound {
			return c.Render(http.StatusUnauthorized, "admin_login.html",
				echo.Map{"Message": badCredentials})
		}
		return c.Render(http.StatusInternalServerError, "admin_login.html",
			echo.Map{"Message": "Something went wrong. Please try again."})
	}
	if !utils.VerifyPassword(a.PasswordHash, password) {
		return c.Render(http.StatusUnauthorized, "admin_login.html",
			echo.Map{"Message": badCredentials})
	}

	ck, err := h.Sessions.Issue(ctx, a.ID)
	if err != nil {
		return c.Render(http.StatusInternalServerError, "admin_login.html",
			echo.Map{"Message": "Could not start a session. Please try again."})
	}
	c.SetCookie(ck)
	return c.Redirect(http.StatusSeeOther, "/admin_panel")
}

// Logout clears the admin session.
func (h *AdminHandler) Logout(c echo.Context) error {
	var value string
	if ck, err := c.Cookie(h.Sessions.Cookie); err == nil {
		value = ck.Value
	}
	c.SetCookie(h.Sessions.Clear(c.Request().Context(), value))
	return c.Redirect(http.StatusSeeOther, "/admin_login")
}

// Panel renders the full dashboard: every user, payment, review and message.
func (h *AdminHandler) Panel(c echo.Context) error {
	a, ok := middleware.CurrentAdmin(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/admin_login")
	}
	ctx := c.Request().Context()

	users, err := h.Users.ListAll(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to load users")
	}
	payments, err := h.Payments.ListAll(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to load payments")
	}
	reviews, err := h.Reviews.ListAll(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to load reviews")
	}
	messages, err := h.Messages.ListAll(ctx)
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to load messages")
	}

	return c.Render(http.StatusOK, "admin_panel.html", echo.Map{
		"Admin":    a,
		"Users":    users,
		"Payments": payments,
		"Reviews":  reviews,
		"Messages": messages,
	})
}

// UserInformation renders the account management view.
func (h *AdminHandler) UserInformation(c echo.Context) error {
	a, ok := middleware.CurrentAdmin(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/admin_login")
	}
	users, err := h.Users.ListAll(c.Request().Context())
	if err != nil {
		return c.String(http.StatusInternalServerError, "failed to load users")
	}
	return c.Render(http.StatusOK, "user_information.html", echo.Map{
		"Admin": a,
		"Users": users,
	})
}

// DeleteUser removes a member and every payment, review and message that
// references them, then returns to the user list.  An unknown id is a no-op,
// matching the original surface.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	if _, ok := middleware.CurrentAdmin(c); !ok {
		return c.Redirect(http.StatusSeeOther, "/admin_login")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err == nil {
		if derr := h.Users.DeleteCascade(c.Request().Context(), id); derr != nil && derr != repository.ErrNotFound {
			return c.String(http.StatusInternalServerError, "failed to delete user")
		}
	}
	return c.Redirect(http.StatusSeeOther, "/admin/user_information")
}

// ApprovePayment transitions a pending payment to approved, crediting the
// member's balance exactly once.  A repeated approval finds the payment no
// longer pending and changes nothing.
func (h *AdminHandler) ApprovePayment(c echo.Context) error {
	return h.reviewPayment(c, model.PaymentApproved)
}

// RejectPayment transitions a pending payment to rejected.
func (h *AdminHandler) RejectPayment(c echo.Context) error {
	return h.reviewPayment(c, model.PaymentRejected)
}

func (h *AdminHandler) reviewPayment(c echo.Context, status string) error {
	a, ok := middleware.CurrentAdmin(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/admin_login")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/admin_panel")
	}
	ctx := c.Request().Context()

	if status == model.PaymentApproved {
		err = h.Payments.Approve(ctx, id, a.ID)
	} else {
		err = h.Payments.Reject(ctx, id, a.ID)
	}
	switch err {
	case nil:
		h.publishReviewed(id, status, a.ID)
	case repository.ErrNotFound, model.ErrNotPending:
		// Already moderated or gone; the panel simply shows current state.
	default:
		return c.String(http.StatusInternalServerError, "failed to update payment")
	}
	return c.Redirect(http.StatusSeeOther, "/admin_panel")
}

// publishReviewed emits the moderation event in the background so broker
// hiccups never delay the admin's redirect.
func (h *AdminHandler) publishReviewed(paymentID uint64, status string, adminID uint64) {
	if h.Publish == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		p, err := h.Payments.GetByID(ctx, paymentID)
		if err != nil {
			log.Printf("moderation event: load payment %d: %v", paymentID, err)
			return
		}
		memberID := ""
		if u, err := h.Users.GetByID(ctx, p.UserID); err == nil {
			memberID = u.MemberID
		}
		ev := queue.PaymentReviewedEvent{
			PaymentID:    p.ID,
			UserID:       p.UserID,
			MemberID:     memberID,
			Amount:       p.Amount,
			Status:       status,
			ReviewedBy:   adminID,
			SenderNumber: p.SenderNumber,
			ReviewedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publish(ctx, ev); err != nil {
			log.Printf("moderation event: publish payment %d: %v", paymentID, err)
		}
	}()
}
