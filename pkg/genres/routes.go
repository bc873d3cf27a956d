package genres

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers genre routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		genreService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.RequireCapability(models.CapabilityAddGenre))
	g.GET("/:id", h.retrieve)
	g.GET("/:id/books", h.books)
	g.PATCH("/:id", h.update, authMiddleware.RequireCapability(models.CapabilityChangeGenre))
	g.DELETE("/:id", h.deleteGenre, authMiddleware.RequireCapability(models.CapabilityDeleteGenre))
}
