package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/seller-admin-service/internal/api/http/handlers"
	"github.com/spec-kit/seller-admin-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Sellers        *handlers.SellersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/signup", cfg.Accounts.Signup)
	authGroup.Post("/login", cfg.Accounts.Login)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	authProtected.Post("/password/change", cfg.Accounts.ChangePassword)

	sellers := app.Group("/sellers", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	sellers.Get("", auth.RequireMaster(), cfg.Sellers.List)
	sellers.Get("/:accountNo", cfg.Sellers.GetCurrent)
	sellers.Put("/:accountNo", cfg.Sellers.Revise)
	sellers.Patch("/:sellerAccountID/status", auth.RequireMaster(), cfg.Sellers.ChangeStatus)
}
