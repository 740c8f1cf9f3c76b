package server

import (
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/brandlink/partner-auth/channel"
	"github.com/brandlink/partner-auth/internal/config"
	"github.com/brandlink/partner-auth/lifecycle"
	"github.com/brandlink/partner-auth/session"
)

// OidcConfig bundles the discovered provider with the confidential-client
// oauth2 configuration and the ID token verifier.
type OidcConfig struct {
	Provider     *oidc.Provider
	OAuth2Config *oauth2.Config
	Verifier     *oidc.IDTokenVerifier
}

type Server struct {
	env       string // Environment (e.g., "DEV", "PROD")
	mux       *http.ServeMux
	routes    []string
	config    config.Config
	oidc      OidcConfig
	lifecycle *lifecycle.Controller
	sessions  *session.Codec
	resolver  *channel.Resolver
}

func New(cfg config.Config, oidcConfig OidcConfig, controller *lifecycle.Controller, sessions *session.Codec, resolver *channel.Resolver) (*Server, error) {
	if controller == nil {
		return nil, errors.New("[Server New] lifecycle controller is required")
	}
	if sessions == nil {
		return nil, errors.New("[Server New] session codec is required")
	}
	if resolver == nil {
		return nil, errors.New("[Server New] channel resolver is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		config:    cfg,
		oidc:      oidcConfig,
		lifecycle: controller,
		sessions:  sessions,
		resolver:  resolver,
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
