package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locallibrary/locallibrary/pkg/auth"
	"github.com/locallibrary/locallibrary/pkg/authors"
	"github.com/locallibrary/locallibrary/pkg/binder"
	"github.com/locallibrary/locallibrary/pkg/bookinstances"
	"github.com/locallibrary/locallibrary/pkg/books"
	"github.com/locallibrary/locallibrary/pkg/config"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/genres"
	"github.com/locallibrary/locallibrary/pkg/languages"
	"github.com/locallibrary/locallibrary/pkg/reports"
	"github.com/locallibrary/locallibrary/pkg/roles"
	"github.com/locallibrary/locallibrary/pkg/users"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/health"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/echo/v4/middleware/recovery"
	"github.com/uptrace/bun"
)

func New(cfg *config.Config, db *bun.DB) (*http.Server, error) {
	e, err := newEcho(cfg, db)
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
		Handler:           e,
		ReadHeaderTimeout: 3 * time.Second,
	}

	return srv, nil
}

func newEcho(cfg *config.Config, db *bun.DB) (*echo.Echo, error) {
	e := echo.New()

	b, err := binder.New()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	e.Binder = b

	e.Use(logger.Middleware())
	e.Use(recovery.Middleware())
	e.Use(middleware.CORS())
	e.Use(newRateLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst).Middleware)

	health.RegisterRoutes(e)

	authMiddleware := auth.RegisterRoutes(e, db, cfg.JWTSecret, cfg.SessionCookieSecure)

	users.RegisterRoutes(e, db, authMiddleware)
	roles.RegisterRoutes(e, db, authMiddleware)
	reports.RegisterRoutes(e, db, authMiddleware, cfg.JWTSecret, cfg.SessionCookieSecure)

	registerCatalogRoutes(e, db, authMiddleware)

	echo.NotFoundHandler = notFoundHandler
	e.HTTPErrorHandler = errcodes.NewHandler().Handle

	return e, nil
}

// registerCatalogRoutes registers the catalog routes. Browsing books, authors,
// genres and languages is public; changes need the matching capability.
func registerCatalogRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	booksGroup := e.Group("/books")
	booksGroup.Use(authMiddleware.AuthenticateOptional)
	books.RegisterRoutesWithGroup(booksGroup, db, authMiddleware)

	authorsGroup := e.Group("/authors")
	authorsGroup.Use(authMiddleware.AuthenticateOptional)
	authors.RegisterRoutesWithGroup(authorsGroup, db, authMiddleware)

	genresGroup := e.Group("/genres")
	genresGroup.Use(authMiddleware.AuthenticateOptional)
	genres.RegisterRoutesWithGroup(genresGroup, db, authMiddleware)

	languagesGroup := e.Group("/languages")
	languagesGroup.Use(authMiddleware.AuthenticateOptional)
	languages.RegisterRoutesWithGroup(languagesGroup, db, authMiddleware)

	// Capability checks for copies happen in the service, after the copy
	// is known to exist.
	instancesGroup := e.Group("/bookinstances")
	instancesGroup.Use(authMiddleware.Authenticate)
	bookinstances.RegisterRoutesWithGroup(instancesGroup, db)
}

func notFoundHandler(c echo.Context) error {
	c.SetPath("/:path")
	return errcodes.NotFound("Page")
}
