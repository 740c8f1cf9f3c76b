package config

import (
	"strings"
	"time"
)

// ProviderConfig describes the third-party OAuth 2.0 identity provider
// both creators and companies authenticate against.
type ProviderConfig interface {
	GetIssuer() string
	GetClientID() string
	GetClientSecret() string
	GetScopes() []string
	GetRedirectURL() string
	GetProviderTimeout() time.Duration
}

type Provider struct{}

var _ ProviderConfig = Provider{}

func (Provider) GetIssuer() string {
	return GetEnv("OAUTH_ISSUER", "https://accounts.google.com")
}

func (Provider) GetClientID() string {
	return GetEnv("OAUTH_CLIENT_ID", "")
}

func (Provider) GetClientSecret() string {
	return GetEnv("OAUTH_CLIENT_SECRET", "")
}

// GetScopes returns the scopes requested on every sign-in. The restricted
// channel scope is what makes the offline grant useful downstream.
func (Provider) GetScopes() []string {
	scopes := GetEnv("OAUTH_SCOPES", "openid email https://www.googleapis.com/auth/youtube.readonly")
	return strings.Fields(scopes)
}

func (p Provider) GetRedirectURL() string {
	return GetEnv("OAUTH_REDIRECT_URL", EnvVars{}.GetBaseURL()+"/auth/callback")
}

func (Provider) GetProviderTimeout() time.Duration {
	return 5 * time.Second
}
