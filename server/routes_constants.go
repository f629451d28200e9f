package server

// Route path constants. All application routes are defined here to keep the
// redirect URI and handler wiring consistent.
const (
	RouteIndex     = "/"
	RouteDashboard = "/dashboard"
	RouteFavicon   = "/favicon.ico"

	RouteLogin    = "/auth/github/login"
	RouteCallback = "/auth/github/callback"
	RouteLogout   = "/auth/logout"
)
