package reports

import (
	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers the home page and the loan reports. The home page
// is public; the loan lists need a session.
func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware, secret string, secureCookie bool) {
	h := &handler{
		reportService: NewService(db),
		visits:        &visitCounter{secret: []byte(secret), secureCookie: secureCookie},
	}

	e.GET("/", h.home, authMiddleware.AuthenticateOptional)

	loans := e.Group("/loans")
	loans.Use(authMiddleware.Authenticate)
	loans.GET("/mine", h.myLoans)
	loans.GET("/borrowed", h.allBorrowed)
	loans.GET("/overdue", h.overdue)
}
