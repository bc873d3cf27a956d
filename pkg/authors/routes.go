package authors

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers author routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		authorService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.RequireCapability(models.CapabilityAddAuthor))
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update, authMiddleware.RequireCapability(models.CapabilityChangeAuthor))
	g.DELETE("/:id", h.deleteAuthor, authMiddleware.RequireCapability(models.CapabilityDeleteAuthor))
}
