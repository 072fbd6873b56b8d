package server

import (
	"errors"
	"net/http"
	"time"

	apperrors "github.com/akulov/reservd/internal/errors"
	"github.com/akulov/reservd/reservations"
	"github.com/akulov/reservd/users"
)

type registerRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type userResponse struct {
	User *users.User `json:"user"`
}

type loginResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type createReservationRequest struct {
	Title    string    `json:"title"`
	StartsAt time.Time `json:"starts_at"`
}

// RegisterHandler creates a new principal.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := users.ValidateNewUser(req.Login, req.Password, req.Role); err != nil {
			s.respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		passwordHash, err := users.HashPassword(req.Password)
		if err != nil {
			s.log.Err(err).Msg("failed to hash password")
			s.respondMessage(w, http.StatusInternalServerError, "error registering user")
			return
		}

		user := &users.User{
			Login:        req.Login,
			Role:         req.Role,
			PasswordHash: passwordHash,
		}
		if err := s.repos.Users.Insert(r.Context(), user); err != nil {
			if errors.Is(err, apperrors.ErrDuplicateLogin) {
				s.respondMessage(w, http.StatusBadRequest, "user already exists")
				return
			}
			s.log.Err(err).Msg("failed to insert user")
			s.respondMessage(w, http.StatusInternalServerError, "error registering user")
			return
		}

		s.respondJSON(w, http.StatusCreated, userResponse{User: user})
	}
}

// LoginHandler checks the credentials and, on success, hands out an access
// token in the body and a refresh token in the cookie.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Login == "" || req.Password == "" {
			s.respondMessage(w, http.StatusBadRequest, "login and password are required")
			return
		}

		user, err := s.repos.Users.GetByLogin(r.Context(), req.Login)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				s.respondMessage(w, http.StatusUnauthorized, "invalid login or password")
				return
			}
			s.log.Err(err).Msg("failed to look up user")
			s.respondMessage(w, http.StatusInternalServerError, "error logging in")
			return
		}
		if !users.CheckPasswordHash(req.Password, user.PasswordHash) {
			s.respondMessage(w, http.StatusUnauthorized, "invalid login or password")
			return
		}

		pair, err := s.issuer.Issue(user)
		if err != nil {
			s.log.Err(err).Msg("failed to issue token pair")
			s.respondMessage(w, http.StatusInternalServerError, "error logging in")
			return
		}

		s.setRefreshCookie(w, r, pair.RefreshToken)
		s.respondJSON(w, http.StatusOK, loginResponse{User: user, Token: pair.AccessToken})
	}
}

// RefreshTokenHandler mints a new token pair from a refresh token supplied in
// the cookie or, as a fallback, in the request body. The cookie is rotated
// only on success.
func (s *Server) RefreshTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawRefresh, ok := s.refreshTokenFromCookie(r)
		if !ok {
			var req refreshRequest
			if err := decodeJSON(r, &req); err == nil && req.RefreshToken != "" {
				rawRefresh = req.RefreshToken
				ok = true
			}
		}
		if !ok {
			s.respondMessage(w, http.StatusBadRequest, "refresh token is required")
			return
		}

		claims, err := s.issuer.VerifyRefresh(rawRefresh)
		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrTokenExpired):
			s.respondMessage(w, http.StatusForbidden, "refresh token expired, please log in again")
			return
		default:
			s.respondMessage(w, http.StatusForbidden, "invalid refresh token")
			return
		}

		pair, err := s.issuer.Renew(claims)
		if err != nil {
			s.log.Err(err).Msg("failed to renew token pair")
			s.respondMessage(w, http.StatusInternalServerError, "error refreshing token")
			return
		}

		s.setRefreshCookie(w, r, pair.RefreshToken)
		s.respondJSON(w, http.StatusOK, tokenResponse{Token: pair.AccessToken})
	}
}

// LogoutHandler clears the refresh cookie. There is no server-side session
// to tear down; an already-issued token pair simply ages out.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearRefreshCookie(w, r)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListUsersHandler returns all registered principals.
func (s *Server) ListUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Users.List(r.Context())
		if err != nil {
			s.log.Err(err).Msg("failed to list users")
			s.respondMessage(w, http.StatusInternalServerError, "error fetching users")
			return
		}
		s.respondJSON(w, http.StatusOK, list)
	}
}

// CreateReservationHandler records a reservation for the authenticated user.
func (s *Server) CreateReservationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			s.respondMessage(w, http.StatusUnauthorized, "access token is required")
			return
		}

		var req createReservationRequest
		if err := decodeJSON(r, &req); err != nil {
			s.respondMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		reservation := &reservations.Reservation{
			UserID:   claims.UserID,
			Title:    req.Title,
			StartsAt: req.StartsAt,
		}
		if err := reservation.Validate(); err != nil {
			s.respondMessage(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.repos.Reservations.Insert(r.Context(), reservation); err != nil {
			s.log.Err(err).Msg("failed to insert reservation")
			s.respondMessage(w, http.StatusInternalServerError, "error creating reservation")
			return
		}

		s.respondJSON(w, http.StatusCreated, reservation)
	}
}

// ListReservationsHandler returns all reservations.
func (s *Server) ListReservationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.repos.Reservations.List(r.Context())
		if err != nil {
			s.log.Err(err).Msg("failed to list reservations")
			s.respondMessage(w, http.StatusInternalServerError, "error fetching reservations")
			return
		}
		s.respondJSON(w, http.StatusOK, list)
	}
}

// HealthzHandler reports liveness.
func (s *Server) HealthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondJSON(w, http.StatusOK, messageResponse{Message: "ok"})
	}
}
