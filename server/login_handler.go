package server

import (
	"net/http"

	"golang.org/x/oauth2"

	"github.com/brandlink/partner-auth/statecodec"
)

// LoginHandler starts the OAuth flow by redirecting to the provider's
// authorization endpoint, requesting offline access. Any routing context on
// the request (creator channel, campaign identifiers, company shop) is
// multiplexed into the state parameter after a random anti-replay prefix.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		payload := statecodec.Payload{
			ChannelID: q.Get("channel_id"),
			CompanyID: q.Get("company_id"),
			ShortID:   q.Get("short_id"),
			ShopName:  q.Get("shop"),
		}

		state := generateRandomString(16)
		if !payload.IsZero() {
			// base64url never contains '.', so the callback can split the
			// anti-replay prefix from the routing payload unambiguously
			state = state + "." + statecodec.Encode(payload)
		}
		verifier := generateRandomString(32)
		nonce := generateRandomString(16)

		s.setFlowCookie(w, r, stateCookieName, state)
		s.setFlowCookie(w, r, pkceCookieName, verifier)
		s.setFlowCookie(w, r, nonceCookieName, nonce)
		s.setFlowCookie(w, r, csrfCookieName, generateRandomString(16))

		authURL := s.oidc.OAuth2Config.AuthCodeURL(state,
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "consent"),
			oauth2.SetAuthURLParam("code_challenge", generateCodeChallenge(verifier)),
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
			oauth2.SetAuthURLParam("nonce", nonce),
		)

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}
