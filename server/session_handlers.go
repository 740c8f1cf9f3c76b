package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// sessionView is the downstream-facing shape of a materialised session.
// The refresh token never leaves the server.
type sessionView struct {
	Authenticated bool   `json:"authenticated"`
	PrincipalType string `json:"principalType,omitempty"`
	AccessToken   string `json:"accessToken,omitempty"`
	ExpiresAt     string `json:"expiresAt,omitempty"`
	ChannelID     string `json:"channelId,omitempty"`
	Email         string `json:"email,omitempty"`
	ShopName      string `json:"shopName,omitempty"`
	PartnershipID string `json:"partnershipId,omitempty"`
	ErrorState    string `json:"errorState,omitempty"`
}

// SessionHandler exposes the materialised session to the rest of the
// application. Degraded sessions keep their identity fields so the caller
// can render a reconnect prompt, but carry no usable access token.
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		sess := SessionFromContext(r.Context())
		if sess == nil {
			writeJSON(w, sessionView{Authenticated: false})
			return
		}

		view := sessionView{
			Authenticated: !sess.Degraded(),
			PrincipalType: string(sess.PrincipalType),
			ChannelID:     sess.ChannelID,
			Email:         sess.Email,
			ShopName:      sess.ShopName,
			PartnershipID: sess.PartnershipID,
			ErrorState:    string(sess.ErrorState),
		}
		if !sess.Degraded() {
			view.AccessToken = sess.AccessToken
			if !sess.ExpiresAt.IsZero() {
				view.ExpiresAt = sess.ExpiresAt.Format(time.RFC3339)
			}
		}
		writeJSON(w, view)
	}
}

// LogoutHandler clears the session cookie. The provider grant stays in the
// token store; sign-out is local.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.clearCookie(w, r, sessionCookieName)
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, map[string]string{"status": "ok"})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to encode response")
	}
}
