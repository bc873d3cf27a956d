package languages

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers language routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		languageService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create, authMiddleware.RequireCapability(models.CapabilityAddLanguage))
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update, authMiddleware.RequireCapability(models.CapabilityChangeLanguage))
	g.DELETE("/:id", h.deleteLanguage, authMiddleware.RequireCapability(models.CapabilityDeleteLanguage))
}
