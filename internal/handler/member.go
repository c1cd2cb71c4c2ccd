package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/middleware"
	"github.com/sarmin881340/taka-portal/internal/model"
)

// Confirmation copy shown after a submission, carried over from the original
// portal.
const (
	paymentSubmittedMsg = "Your account will be credited within 5 minutes. If the money does not arrive, an admin will check your claim."
	reviewSubmittedMsg  = "You will receive your refund within 30 minutes."
)

// MemberHandler serves the authenticated member pages: dashboard, payment
// claims and refund reviews.
type MemberHandler struct {
	Payments PaymentStore
	Reviews  ReviewStore
	Shots    ScreenshotStore
}

func NewMemberHandler(payments PaymentStore, reviews ReviewStore, shots ScreenshotStore) *MemberHandler {
	return &MemberHandler{Payments: payments, Reviews: reviews, Shots: shots}
}

// Dashboard renders the member landing page.
func (h *MemberHandler) Dashboard(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Render(http.StatusOK, "dashboard.html", echo.Map{"User": u})
}

// PaymentPage renders the claim form together with the member's history.
func (h *MemberHandler) PaymentPage(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	payments, err := h.Payments.ListByUser(c.Request().Context(), u.ID)
	if err != nil {
		payments = nil // history is cosmetic; the form must still render
	}
	return c.Render(http.StatusOK, "payment.html", echo.Map{
		"User":          u,
		"ReceiveNumber": model.ReceiveNumber,
		"Payments":      payments,
	})
}

// SubmitPayment records a pending claim.  The amount must parse as a whole
// number; anything else re-renders the form with an error rather than
// storing garbage.
func (h *MemberHandler) SubmitPayment(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	senderNumber := strings.TrimSpace(c.FormValue("senderNumber"))
	amount, err := strconv.ParseInt(strings.TrimSpace(c.FormValue("amount")), 10, 64)
	if senderNumber == "" || err != nil || amount <= 0 {
		return c.Render(http.StatusBadRequest, "payment.html", echo.Map{
			"User":          u,
			"ReceiveNumber": model.ReceiveNumber,
			"Message":       "Enter the sender number and a whole-number amount.",
		})
	}

	if _, err := h.Payments.Create(c.Request().Context(), u.ID, senderNumber, amount); err != nil {
		return c.Render(http.StatusInternalServerError, "payment.html", echo.Map{
			"User":          u,
			"ReceiveNumber": model.ReceiveNumber,
			"Message":       "Could not record the claim. Please try again.",
		})
	}
	return c.Render(http.StatusOK, "dashboard.html", echo.Map{
		"User":           u,
		"PaymentMessage": paymentSubmittedMsg,
	})
}

// ReviewPage renders the refund-request form.
func (h *MemberHandler) ReviewPage(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Render(http.StatusOK, "write_review.html", echo.Map{"User": u})
}

// SubmitReview stores a refund request with an optional screenshot.  Reviews
// are always created pending; there is no moderation step.
func (h *MemberHandler) SubmitReview(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}

	returnNumber := strings.TrimSpace(c.FormValue("returnNumber"))
	message := strings.TrimSpace(c.FormValue("message"))
	if returnNumber == "" || message == "" {
		return c.Render(http.StatusBadRequest, "write_review.html", echo.Map{
			"User":  u,
			"Error": "Return number and details are required.",
		})
	}

	var screenshot *string
	if fh, err := c.FormFile("screenshot"); err == nil && fh != nil {
		name, err := h.Shots.SaveScreenshot(fh)
		if err != nil {
			return c.Render(http.StatusBadRequest, "write_review.html", echo.Map{
				"User":  u,
				"Error": err.Error(),
			})
		}
		screenshot = &name
	}

	if _, err := h.Reviews.Create(c.Request().Context(), u.ID, returnNumber, message, screenshot); err != nil {
		return c.Render(http.StatusInternalServerError, "write_review.html", echo.Map{
			"User":  u,
			"Error": "Could not record the request. Please try again.",
		})
	}
	return c.Render(http.StatusOK, "write_review.html", echo.Map{
		"User":    u,
		"Message": reviewSubmittedMsg,
	})
}
