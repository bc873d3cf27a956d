package auth

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/errcodes"
	"github.com/locallibrary/locallibrary/pkg/models"
)

// Middleware provides authentication middleware.
type Middleware struct {
	authService *Service
}

// NewMiddleware creates a new auth middleware.
func NewMiddleware(authService *Service) *Middleware {
	return &Middleware{
		authService: authService,
	}
}

// Authenticate resolves the session token (cookie, or a Bearer header for API
// clients) to an active user and stores it on the context. It returns 401
// when there's no valid session.
func (m *Middleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := m.resolveUser(c)
		if err != nil {
			return err
		}

		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set("user", user)

		return next(c)
	}
}

// AuthenticateOptional stores the user on the context when the request has a
// valid session, and otherwise lets it through anonymously.
func (m *Middleware) AuthenticateOptional(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, err := m.resolveUser(c); err == nil {
			c.Set("user_id", user.ID)
			c.Set("username", user.Username)
			c.Set("user", user)
		}
		return next(c)
	}
}

// RequireCapability returns middleware that checks the authenticated user
// holds the capability. Must be used after Authenticate or
// AuthenticateOptional; anonymous requests get a 401.
func (m *Middleware) RequireCapability(capability models.Capability) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := c.Get("user").(*models.User)
			if !ok {
				return errcodes.Unauthorized("Authentication required")
			}

			if err := Require(user.Caller(), capability); err != nil {
				return err
			}

			return next(c)
		}
	}
}

func (m *Middleware) resolveUser(c echo.Context) (*models.User, error) {
	token := sessionToken(c)
	if token == "" {
		return nil, errcodes.Unauthorized("Authentication required")
	}

	claims, err := m.authService.ValidateToken(token)
	if err != nil {
		return nil, errcodes.Unauthorized("Invalid or expired token")
	}

	// Verify user still exists and is active
	user, err := m.authService.GetUserByID(c.Request().Context(), claims.UserID)
	if err != nil {
		return nil, errcodes.Unauthorized("User not found or inactive")
	}

	return user, nil
}

func sessionToken(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(header[len("Bearer "):])
	}
	return ""
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(c echo.Context) (*models.User, bool) {
	user, ok := c.Get("user").(*models.User)
	return user, ok
}

// CallerFromContext returns the identity to pass into services. Anonymous
// requests get a caller with no capabilities.
func CallerFromContext(c echo.Context) models.Caller {
	if user, ok := UserFromContext(c); ok {
		return user.Caller()
	}
	return models.Caller{Capabilities: models.CapabilitySet{}}
}
