package server

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/brandlink/partner-auth/lifecycle"
	"github.com/brandlink/partner-auth/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeySession stores the materialised session token
const ContextKeySession ContextKey = "session"

// SessionFromContext returns the materialised session for the request, or
// nil when no valid session cookie was presented.
func SessionFromContext(ctx context.Context) *session.Token {
	tok, _ := ctx.Value(ContextKeySession).(*session.Token)
	return tok
}

func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

// WithSession opens the session cookie, materialises the session (which
// refreshes a stale creator token implicitly), re-seals the cookie when the
// session changed, and injects the token into the request context.
func (s *Server) WithSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next(w, r)
			return
		}

		tok, err := s.sessions.Open(cookie.Value)
		if err != nil {
			log.Warn().Err(err).Msg("discarding unverifiable session cookie")
			s.clearCookie(w, r, sessionCookieName)
			next(w, r)
			return
		}

		fallbackID, _ := s.resolver.ResolveFromFallback(r)
		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetProviderTimeout())
		defer cancel()

		materialised := s.lifecycle.Materialize(ctx, tok, lifecycle.RequestInput{FallbackChannelID: fallbackID})
		if *materialised != *tok {
			if sealed, err := s.sessions.Seal(materialised); err != nil {
				log.Error().Err(err).Msg("failed to re-seal session after materialisation")
			} else {
				s.SetSessionCookie(w, r, sealed)
			}
		}

		r = r.WithContext(context.WithValue(r.Context(), ContextKeySession, materialised))
		next(w, r)
	}
}

// RequireCreator gates creator-specific routes. A degraded session is never
// presented as authenticated: the client is told to re-authenticate rather
// than silently retrying.
func (s *Server) RequireCreator(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := SessionFromContext(r.Context())
		if sess == nil || !sess.IsCreator() {
			http.Error(w, `{"error":"unauthorized","error_description":"Creator sign-in required"}`, http.StatusUnauthorized)
			return
		}
		if sess.Degraded() {
			http.Error(w, `{"error":"reauthentication_required","error_description":"Please reconnect your account"}`, http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// LoggingMiddleware logs requests in development environments.
func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.env == "DEV" {
			log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Msg("request")
		}
		next(w, r)
	}
}
