package bookinstances

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers book instance routes on a group that's
// already authenticated. Capabilities are checked by the service so that a
// missing instance is reported before a missing permission.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		instanceService: NewService(db),
	}

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.retrieve)
	g.PATCH("/:id", h.update)
	g.GET("/:id/renew", h.renewalDefaults)
	g.POST("/:id/renew", h.renew)
	g.POST("/:id/checkout", h.checkout)
	g.POST("/:id/return", h.markReturned)
}
