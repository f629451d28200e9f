package server

import "net/http"

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET /{$}", ChainMiddleware(s.IndexHandler(), s.baseMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteFavicon, s.FaviconHandler())

	// LOGIN FLOW
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.baseMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.baseMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.authMiddleware()...))

	// Protected pages
	s.RegisterRouteFunc("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.authMiddleware()...))
}

func (s *Server) baseMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.LoggingMiddleware,
		s.RecoverMiddleware,
		s.FrameSecurityMiddleware,
	}
}

func (s *Server) authMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return append(s.baseMiddleware(), s.RequireSessionAuth)
}
