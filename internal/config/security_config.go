package config

import "time"

type SecurityConfig interface {
	GetSessionSigningKey() []byte
	GetChannelCookieKey() []byte
	GetSessionMaxAge() time.Duration
	GetFlowCookieMaxAge() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetSessionSigningKey() []byte {
	return []byte(GetEnv("SESSION_SIGNING_KEY", "dev-session-signing-key"))
}

// GetChannelCookieKey returns the key the upstream connect page signs the
// creator channel fallback cookie with. This service only verifies.
func (Security) GetChannelCookieKey() []byte {
	return []byte(GetEnv("CHANNEL_COOKIE_KEY", "dev-channel-cookie-key"))
}

func (Security) GetSessionMaxAge() time.Duration {
	return 30 * 24 * time.Hour
}

// GetFlowCookieMaxAge covers the state, PKCE and nonce cookies. Extended so
// the flow survives slow user interaction on the provider consent screens.
func (Security) GetFlowCookieMaxAge() time.Duration {
	return 24 * time.Hour
}
