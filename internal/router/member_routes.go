package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/handler"
	"github.com/sarmin881340/taka-portal/internal/middleware"
	"github.com/sarmin881340/taka-portal/internal/session"
)

// RegisterMember registers the member-scoped pages.  Every route runs the
// session middleware first, which redirects unauthenticated callers to
// /login.
func RegisterMember(e *echo.Echo, m *handler.MemberHandler, msg *handler.MessageHandler,
	a *handler.AuthHandler, mgr *session.Manager, users middleware.UserLoader) {

	g := e.Group("", middleware.RequireUser(mgr, users))

	g.GET("/dashboard", m.Dashboard)
	g.GET("/payment", m.PaymentPage)
	g.POST("/payment", m.SubmitPayment)
	g.GET("/write_review", m.ReviewPage)
	g.POST("/write_review", m.SubmitReview)
	g.GET("/logout", a.Logout)

	g.GET("/messages", msg.MessagesPage)
	g.POST("/search_user", msg.SearchUser)
	g.POST("/send_message", msg.SendMessage)
	g.GET("/search_user_redirect/:memberId", msg.Conversation)
}
