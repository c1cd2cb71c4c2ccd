package router

import (
	"github.com/labstack/echo/v4"

	"github.com/sarmin881340/taka-portal/internal/handler"
	"github.com/sarmin881340/taka-portal/internal/middleware"
	"github.com/sarmin881340/taka-portal/internal/session"
)

// RegisterAdmin registers the moderation surface.  Every route runs the admin
// session middleware, which redirects unauthenticated callers to
// /admin_login.  The admin track never accepts a member session.
func RegisterAdmin(e *echo.Echo, adm *handler.AdminHandler,
	mgr *session.Manager, admins middleware.AdminLoader) {

	g := e.Group("", middleware.RequireAdmin(mgr, admins))

	g.GET("/admin_panel", adm.Panel)
	g.GET("/admin/user_information", adm.UserInformation)
	g.GET("/admin_logout", adm.Logout)
	g.POST("/admin/delete_user/:id", adm.DeleteUser)
	g.POST("/admin/approve_payment/:id", adm.ApprovePayment)
	g.POST("/admin/reject_payment/:id", adm.RejectPayment)
}
