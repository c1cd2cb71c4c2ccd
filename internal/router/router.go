package router // package router defines how HTTP routes are registered

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/sarmin881340/taka-portal/internal/config"
	"github.com/sarmin881340/taka-portal/internal/handler"
	"github.com/sarmin881340/taka-portal/internal/middleware"
)

// RegisterPublic registers the routes that require no session: the login and
// registration forms, the health check, and the uploaded-screenshot files.
// The credential-accepting POSTs sit behind the Redis token bucket.
func RegisterPublic(e *echo.Echo, a *handler.AuthHandler, adm *handler.AdminHandler,
	rlCfg config.RateLimitConfig, rdb *redis.Client, uploadDir string) {

	limit := middleware.LoginRateLimit(rlCfg, rdb)

	e.GET("/healthz", handler.Health)
	e.Static("/uploads", uploadDir)

	e.GET("/", a.LoginPage)
	e.GET("/login", a.LoginPage)
	e.POST("/login", a.Login, limit)
	e.GET("/register", a.RegisterPage)
	e.POST("/register", a.Register)

	e.GET("/admin_login", adm.LoginPage)
	e.POST("/admin_login", adm.Login, limit)
}
