package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/S1mon009/auth-service/internal/auth/domain"
	"github.com/S1mon009/auth-service/internal/auth/service"
	"github.com/S1mon009/auth-service/internal/metrics"
)

func RegisterRoutes(app *fiber.App, authHandler *AuthHandler, userHandler *UserHandler,
	tokens service.TokenGenerator, reg *prometheus.Registry) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	if reg != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(reg)))
	}

	api := app.Group("/api/v1")

	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh-token", authHandler.Refresh)
	api.Get("/verify-email", authHandler.VerifyEmail)
	api.Post("/forgot-password", authHandler.ForgotPassword)
	api.Get("/verify-reset-password", authHandler.VerifyResetToken)
	api.Post("/reset-password", authHandler.ResetPassword)
	api.Get("/profile", RequireAuth(tokens), authHandler.Profile)

	// Static route table: literal paths before parameterized ones.
	users := api.Group("/users", RequireAuth(tokens))
	users.Post("/add", RequireRoles(domain.RoleAdmin), userHandler.Add)
	users.Get("/all", RequireRoles(domain.RoleAdmin), userHandler.List)
	users.Get("/me", userHandler.Me)
	users.Get("/profile/:id", userHandler.GetProfile)
	users.Get("/:id", RequireRoles(domain.RoleAdmin), userHandler.GetByID)
	users.Patch("/:id/role", RequireRoles(domain.RoleAdmin), userHandler.UpdateRole)
	users.Patch("/:id", userHandler.UpdateProfile)

	api.Get("/logs", RequireAuth(tokens), RequireRoles(domain.RoleAdmin), userHandler.Logs)
}
