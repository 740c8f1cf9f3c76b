package server

import "github.com/brandlink/partner-auth/lifecycle"

// Route constants for the auth surface
const (
	RouteLogin    = "/auth/login"
	RouteCallback = "/auth/callback"
	RouteSession  = "/auth/session"
	RouteLogout   = "/auth/logout"
	RouteHealth   = "/healthz"

	// Post-sign-in destinations owned by the surrounding dashboard
	RoutePartnershipReview = "/partnerships/review"
	RouteStoreSelection    = "/stores/select"
	RouteDashboard         = "/dashboard"
)

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("GET "+RouteLogin, ChainMiddleware(s.LoginHandler(), s.LoggingMiddleware))
	s.RegisterRouteFunc("GET "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.LoggingMiddleware))
	// form_post response mode delivers the callback as a POST
	s.RegisterRouteFunc("POST "+RouteCallback, ChainMiddleware(s.CallbackHandler(), s.LoggingMiddleware))
	s.RegisterRouteFunc("GET "+RouteSession, ChainMiddleware(s.SessionHandler(), s.LoggingMiddleware, s.WithSession))
	s.RegisterRouteFunc("POST "+RouteLogout, ChainMiddleware(s.LogoutHandler(), s.LoggingMiddleware))
	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())
}

// destinationPath maps a redirect decision to a concrete dashboard path.
func destinationPath(dest lifecycle.Destination) string {
	switch dest {
	case lifecycle.DestinationPartnershipReview:
		return RoutePartnershipReview
	case lifecycle.DestinationStoreSelection:
		return RouteStoreSelection
	default:
		return RouteDashboard
	}
}
