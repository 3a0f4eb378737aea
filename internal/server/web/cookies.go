package web

import (
	"net/http"
	"time"

	"github.com/dsmirnov/authkeeper/internal/server/services"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
)

// setTokenCookies attaches both token carriers to the response. The cookies
// are HttpOnly and SameSite=Strict, with max-age matching each token's
// lifetime.
func (s *Server) setTokenCookies(w http.ResponseWriter, tokens services.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    tokens.AccessToken,
		Domain:   s.cookieDomain,
		Path:     "/",
		MaxAge:   int(s.accessTTL / time.Second),
		SameSite: http.SameSiteStrictMode,
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    tokens.RefreshToken,
		Domain:   s.cookieDomain,
		Path:     "/",
		MaxAge:   int(s.refreshTTL / time.Second),
		SameSite: http.SameSiteStrictMode,
		HttpOnly: true,
	})
}

// clearTokenCookies removes both token carriers client-side.
func (s *Server) clearTokenCookies(w http.ResponseWriter) {
	for _, name := range []string{accessTokenCookie, refreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Domain:   s.cookieDomain,
			Path:     "/",
			MaxAge:   -1,
			SameSite: http.SameSiteStrictMode,
			HttpOnly: true,
		})
	}
}
