package users

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes. Every one of them is for
// librarians only.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) *Service {
	userService := NewService(db)

	h := &handler{
		userService: userService,
	}

	users := e.Group("/users")
	users.Use(authMiddleware.Authenticate)
	users.Use(authMiddleware.RequireCapability(models.CapabilityManageUsers))

	users.GET("", h.list)
	users.GET("/:id", h.retrieve)
	users.POST("", h.create)
	users.PATCH("/:id", h.update)
	users.DELETE("/:id", h.deactivate)
	users.POST("/:id/reset-password", h.resetPassword)

	return userService
}
