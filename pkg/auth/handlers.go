package auth

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/locallibrary/locallibrary/pkg/models"
	"github.com/pkg/errors"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "locallibrary_session"
	// CookieMaxAge is how long the cookie is valid.
	CookieMaxAge = TokenExpiry
)

type handler struct {
	authService  *Service
	secureCookie bool
}

func buildMeResponse(user *models.User) MeResponse {
	roleName := ""
	if user.Role != nil {
		roleName = user.Role.Name
	}
	return MeResponse{
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RoleID:       user.RoleID,
		RoleName:     roleName,
		Capabilities: user.Capabilities().Sorted(),
	}
}

func (h *handler) setSessionCookie(c echo.Context, token string, maxAge int) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie || c.Request().TLS != nil || c.Request().Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *handler) login(c echo.Context) error {
	ctx := c.Request().Context()

	params := LoginPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.Authenticate(ctx, params.Username, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	h.setSessionCookie(c, token, int(CookieMaxAge/time.Second))

	resp := buildMeResponse(user)
	resp.Token = token
	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

func (h *handler) logout(c echo.Context) error {
	// Clear cookie by setting MaxAge to -1
	h.setSessionCookie(c, "", -1)

	return errors.WithStack(c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"}))
}

func (h *handler) me(c echo.Context) error {
	user, ok := UserFromContext(c)
	if !ok {
		return errors.New("me called without an authenticated user")
	}
	return errors.WithStack(c.JSON(http.StatusOK, buildMeResponse(user)))
}

// status returns whether the app needs initial setup.
func (h *handler) status(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.authService.CountUsers(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, StatusResponse{
		NeedsSetup: count == 0,
	}))
}

// setup creates the first librarian and logs them in.
func (h *handler) setup(c echo.Context) error {
	ctx := c.Request().Context()

	params := SetupPayload{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	user, err := h.authService.CreateFirstLibrarian(ctx, params.Username, params.Email, params.Password)
	if err != nil {
		return err
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		return errors.WithStack(err)
	}
	h.setSessionCookie(c, token, int(CookieMaxAge/time.Second))

	resp := buildMeResponse(user)
	resp.Token = token
	return errors.WithStack(c.JSON(http.StatusCreated, resp))
}
