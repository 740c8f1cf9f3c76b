package server

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/brandlink/partner-auth/lifecycle"
)

// CallbackHandler completes the OAuth round trip: it validates the echoed
// state against the anti-replay cookie, exchanges the authorization code,
// verifies the ID token nonce, and hands the grant to the lifecycle
// controller for session materialisation.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// r.FormValue works for both query params and form_post bodies
		state := r.FormValue("state")
		code := r.FormValue("code")
		errorParam := r.FormValue("error")
		errorDesc := r.FormValue("error_description")

		if errorParam != "" {
			http.Error(w, fmt.Sprintf("Authorization failed: %s - %s", errorParam, errorDesc), http.StatusBadRequest)
			return
		}
		if code == "" || state == "" {
			http.Error(w, "Missing code or state parameter", http.StatusBadRequest)
			return
		}

		stateCookie, err := r.Cookie(stateCookieName)
		if err != nil || stateCookie.Value == "" {
			http.Error(w, "Missing state cookie", http.StatusBadRequest)
			return
		}
		if subtle.ConstantTimeCompare([]byte(state), []byte(stateCookie.Value)) != 1 {
			http.Error(w, "Invalid state parameter", http.StatusBadRequest)
			return
		}

		pkceCookie, err := r.Cookie(pkceCookieName)
		if err != nil || pkceCookie.Value == "" {
			http.Error(w, "Missing PKCE verifier", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.config.GetProviderTimeout())
		defer cancel()

		oauth2Token, err := s.oidc.OAuth2Config.Exchange(
			ctx,
			code,
			oauth2.SetAuthURLParam("code_verifier", pkceCookie.Value),
		)
		if err != nil {
			http.Error(w, fmt.Sprintf("Token exchange failed: %v", err), http.StatusInternalServerError)
			return
		}

		rawIDToken, ok := oauth2Token.Extra("id_token").(string)
		if !ok {
			http.Error(w, "No ID token in response", http.StatusInternalServerError)
			return
		}

		idToken, err := s.oidc.Verifier.Verify(ctx, rawIDToken)
		if err != nil {
			http.Error(w, fmt.Sprintf("ID token verification failed: %v", err), http.StatusInternalServerError)
			return
		}

		var claims struct {
			Nonce string `json:"nonce"`
			Sub   string `json:"sub"`
			Email string `json:"email"`
		}
		if err := idToken.Claims(&claims); err != nil {
			http.Error(w, fmt.Sprintf("Failed to extract claims: %v", err), http.StatusInternalServerError)
			return
		}

		// Validate nonce to prevent replay attacks
		nonceCookie, err := r.Cookie(nonceCookieName)
		if err != nil || claims.Nonce != nonceCookie.Value {
			http.Error(w, "Invalid nonce", http.StatusUnauthorized)
			return
		}

		// The routing payload rides after the anti-replay prefix
		rawPayload := ""
		if i := strings.IndexByte(state, '.'); i >= 0 {
			rawPayload = state[i+1:]
		}
		fallbackID, _ := s.resolver.ResolveFromFallback(r)

		grant := lifecycle.Grant{
			AccessToken:  oauth2Token.AccessToken,
			RefreshToken: oauth2Token.RefreshToken,
			ExpiresAt:    oauth2Token.Expiry,
			Email:        claims.Email,
		}
		sess, err := s.lifecycle.InitialGrant(ctx, grant, lifecycle.RequestInput{
			RawState:          rawPayload,
			FallbackChannelID: fallbackID,
		})
		if err != nil {
			log.Error().Err(err).Msg("sign-in could not be completed")
			http.Error(w, "Sign-in could not be completed", http.StatusInternalServerError)
			return
		}

		sealed, err := s.sessions.Seal(sess)
		if err != nil {
			log.Error().Err(err).Msg("failed to seal session container")
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		s.SetSessionCookie(w, r, sealed)
		s.clearFlowCookies(w, r)

		http.Redirect(w, r, destinationPath(lifecycle.RedirectTarget(sess)), http.StatusSeeOther)
	}
}
