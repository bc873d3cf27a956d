package books

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		bookService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.RequireCapability(models.CapabilityAddBook))
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update, authMiddleware.RequireCapability(models.CapabilityChangeBook))
	g.DELETE("/:id", h.deleteBook, authMiddleware.RequireCapability(models.CapabilityDeleteBook))
}
