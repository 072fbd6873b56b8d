package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperrors "github.com/akulov/reservd/internal/errors"
	"github.com/akulov/reservd/token"
)

// HeaderNewAccessToken carries the freshly minted access token back to the
// client after a silent renewal. The client must adopt it for subsequent
// requests.
const HeaderNewAccessToken = "X-Access-Token"

type claimsContextKey struct{}

// ClaimsFromContext returns the authenticated identity attached by the
// session guard.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims, ok
}

// RequireAuth is the session guard. Per request:
//
//  1. no bearer token            -> 401
//  2. token verifies             -> attach claims, proceed
//  3. token invalid              -> 403, no renewal attempt
//  4. token expired              -> renewal via the refresh cookie:
//     a. no cookie               -> 401, re-login needed
//     b. refresh invalid         -> 403
//     c. refresh expired         -> 403, distinct message
//     d. refresh valid           -> rotate cookie, surface new access token,
//        attach claims, proceed
//
// Renewal only ever happens off a well-formed but time-expired access token;
// an invalid signature is terminal.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawToken, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			s.respondMessage(w, http.StatusUnauthorized, "access token is required")
			return
		}

		claims, err := s.issuer.VerifyAccess(rawToken)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrTokenExpired):
			claims = s.renewSession(w, r)
			if claims == nil {
				return // renewSession has written the failure response
			}
		default:
			s.respondMessage(w, http.StatusForbidden, "invalid access token")
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next(w, r.WithContext(ctx))
	}
}

// renewSession attempts the silent renewal branch of the guard. On success it
// rotates the refresh cookie, sets the new-access-token header and returns
// the identity claims; on failure it writes the terminal response and returns
// nil. Cookie rotation and the header are written together, before the
// downstream handler runs, so a renewal is all-or-nothing.
func (s *Server) renewSession(w http.ResponseWriter, r *http.Request) *token.Claims {
	rawRefresh, ok := s.refreshTokenFromCookie(r)
	if !ok {
		s.respondMessage(w, http.StatusUnauthorized, "session expired, please log in")
		return nil
	}

	claims, err := s.issuer.VerifyRefresh(rawRefresh)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrTokenExpired):
		s.respondMessage(w, http.StatusForbidden, "refresh token expired, please log in again")
		return nil
	default:
		s.respondMessage(w, http.StatusForbidden, "invalid refresh token")
		return nil
	}

	pair, err := s.issuer.Renew(claims)
	if err != nil {
		s.log.Err(err).Msg("failed to renew token pair")
		s.respondMessage(w, http.StatusInternalServerError, "failed to renew session")
		return nil
	}

	s.setRefreshCookie(w, r, pair.RefreshToken)
	w.Header().Set(HeaderNewAccessToken, pair.AccessToken)

	s.log.Debug().Str("login", claims.Login).Msg("access token silently renewed")
	return claims
}

func bearerToken(headerValue string) (string, bool) {
	parts := strings.SplitN(headerValue, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	rawToken := strings.TrimSpace(parts[1])
	if rawToken == "" {
		return "", false
	}
	return rawToken, true
}
