package server

import (
	"net/http"
)

// The refresh token travels only in a browser-managed cookie: HttpOnly so
// scripts can never read it, SameSite=Lax, Secure everywhere except local
// development, Max-Age matching the refresh TTL.

func (s *Server) setRefreshCookie(w http.ResponseWriter, r *http.Request, refreshToken string) {
	isSecure := !s.config.IsDev() || getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Auth.RefreshCookieName,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.issuer.RefreshTTL().Seconds()),
	})
}

// clearRefreshCookie instructs the client to discard the cookie. It cannot
// invalidate a refresh token some holder already cached; the token simply
// runs out its expiry.
func (s *Server) clearRefreshCookie(w http.ResponseWriter, r *http.Request) {
	isSecure := !s.config.IsDev() || getScheme(r) == "https"

	http.SetCookie(w, &http.Cookie{
		Name:     s.config.Auth.RefreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// refreshTokenFromCookie is a pure read of the refresh cookie.
func (s *Server) refreshTokenFromCookie(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(s.config.Auth.RefreshCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
