package server

func (s *Server) initRoutes() {
	// Public routes
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteRefreshToken, ChainMiddleware(s.RefreshTokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteHealthz, ChainMiddleware(s.HealthzHandler(), s.APIMiddleware()...))

	// Protected routes (session guard)
	s.RegisterRouteHandler("GET "+RouteUsers, ChainMiddleware(s.ListUsersHandler(), s.GuardedAPIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteReservations, ChainMiddleware(s.ListReservationsHandler(), s.GuardedAPIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteReservations, ChainMiddleware(s.CreateReservationHandler(), s.GuardedAPIMiddleware()...))
}
