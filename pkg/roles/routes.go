package roles

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the read-only role routes for user managers.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{roleService: NewService(db)}

	g := e.Group("/roles")
	g.Use(authMiddleware.Authenticate)
	g.Use(authMiddleware.RequireCapability(models.CapabilityManageUsers))

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
