package server

import (
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/akulov/reservd/internal/config"
	"github.com/akulov/reservd/reservations"
	"github.com/akulov/reservd/token"
	"github.com/akulov/reservd/users"
)

// Repos holds the store collaborators the server talks to.
type Repos struct {
	Users        users.Repo
	Reservations reservations.Repo
}

// Server is the HTTP surface: routing, the session guard, the refresh cookie
// transport, and the JSON handlers.
type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	repos  Repos
	issuer *token.Issuer
	log    zerolog.Logger
}

func New(cfg config.Config, repos Repos, issuer *token.Issuer, logger zerolog.Logger) (*Server, error) {
	if repos.Users == nil {
		return nil, errors.New("[Server New] Users repo is required")
	}
	if repos.Reservations == nil {
		return nil, errors.New("[Server New] Reservations repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[Server New] token issuer is required")
	}

	s := &Server{
		env:    cfg.Env,
		mux:    http.NewServeMux(),
		config: cfg,
		repos:  repos,
		issuer: issuer,
		log:    logger,
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			s.log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}

// getScheme determines the request scheme (http/https), honouring proxies.
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
