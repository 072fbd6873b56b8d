package server

const (
	RouteRegister     = "/register"
	RouteLogin        = "/login"
	RouteRefreshToken = "/refresh-token"
	RouteLogout       = "/logout"
	RouteUsers        = "/users"
	RouteReservations = "/reservations"
	RouteHealthz      = "/healthz"
)
