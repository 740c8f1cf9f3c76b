package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
)

const (
	// sessionCookieName carries the sealed session container
	sessionCookieName = "partner_session"
	// stateCookieName is the anti-replay copy of the state parameter
	stateCookieName = "auth_state"
	// pkceCookieName holds the PKCE code verifier across the provider hop
	pkceCookieName = "pkce_verifier"
	// nonceCookieName holds the expected ID token nonce
	nonceCookieName = "auth_nonce"
	// csrfCookieName is the CSRF double-submit token
	csrfCookieName = "csrf_token"
)

// generateRandomString creates a random base64url string
func generateRandomString(length int) string {
	b := make([]byte, length)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// generateCodeChallenge creates a PKCE code challenge from a verifier
func generateCodeChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func (s *Server) isSecure(r *http.Request) bool {
	return getScheme(r) == "https"
}

// SetSessionCookie writes the sealed session container.
func (s *Server) SetSessionCookie(w http.ResponseWriter, r *http.Request, sealed string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sealed,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetSessionMaxAge().Seconds()),
	})
}

// setFlowCookie writes one of the per-attempt flow cookies (state, PKCE
// verifier, nonce, CSRF). Extended max-age so the flow survives slow user
// interaction on the provider consent screens.
func (s *Server) setFlowCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.config.GetFlowCookieMaxAge().Seconds()),
	})
}

func (s *Server) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func (s *Server) clearFlowCookies(w http.ResponseWriter, r *http.Request) {
	s.clearCookie(w, r, stateCookieName)
	s.clearCookie(w, r, pkceCookieName)
	s.clearCookie(w, r, nonceCookieName)
}
