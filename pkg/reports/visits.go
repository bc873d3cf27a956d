package reports

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// VisitsCookieName holds the signed per-browser visit count.
const VisitsCookieName = "locallibrary_visits"

const visitsCookieMaxAge = 365 * 24 * time.Hour

type visitClaims struct {
	NumVisits int `json:"num_visits"`
	jwt.RegisteredClaims
}

// visitCounter keeps the home page visit count in an HMAC-signed cookie so a
// client can't edit it. A missing or tampered cookie counts as zero visits.
type visitCounter struct {
	secret       []byte
	secureCookie bool
}

func (vc *visitCounter) read(c echo.Context) int {
	cookie, err := c.Cookie(VisitsCookieName)
	if err != nil || cookie.Value == "" {
		return 0
	}

	token, err := jwt.ParseWithClaims(cookie.Value, &visitClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return vc.secret, nil
	})
	if err != nil {
		return 0
	}
	claims, ok := token.Claims.(*visitClaims)
	if !ok || !token.Valid || claims.NumVisits < 0 {
		return 0
	}
	return claims.NumVisits
}

func (vc *visitCounter) write(c echo.Context, visits int) error {
	claims := visitClaims{
		NumVisits: visits,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(vc.secret)
	if err != nil {
		return errors.WithStack(err)
	}

	c.SetCookie(&http.Cookie{
		Name:     VisitsCookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(visitsCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   vc.secureCookie || c.Request().TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
