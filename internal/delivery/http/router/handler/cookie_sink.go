package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	refreshCookieName = "refreshToken"
	refreshCookiePath = "/auth/refresh-token"
)

// refreshCookieSink implements usecase.RefreshTokenSink over the HTTP
// response cookie. The cookie is scoped to the rotation endpoint only, so
// the refresh token never rides along on other requests.
type refreshCookieSink struct {
	c      echo.Context
	ttl    time.Duration
	secure bool
}

func (s *refreshCookieSink) SetRefreshToken(token string) {
	s.c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *refreshCookieSink) ClearRefreshToken() {
	s.c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *refreshCookieSink) RefreshToken() string {
	cookie, err := s.c.Cookie(refreshCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
