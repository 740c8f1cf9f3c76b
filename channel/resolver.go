// Package channel recovers a creator's stable channel identifier from the
// signed fallback cookie set by the upstream connect page. Some provider
// flow variants do not reliably echo the state payload, so the cookie is
// the backup identity-resolution path.
package channel

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// FallbackCookieName is the cookie the upstream connect page sets before
// redirecting a creator into the OAuth flow. This service only reads it.
const FallbackCookieName = "creator_channel"

type channelClaims struct {
	jwt.RegisteredClaims
	ChannelID string `json:"chn"`
}

// Resolver verifies the fallback cookie signature and extracts the channel
// identifier. Strictly read-only: it never writes or extends the cookie.
type Resolver struct {
	key     []byte
	nowTime func() time.Time
}

// ResolverOption defines a function type to modify the Resolver instance.
type ResolverOption func(*Resolver)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ResolverOption {
	return func(r *Resolver) {
		r.nowTime = nowFunc
	}
}

func NewResolver(key []byte, options ...ResolverOption) (*Resolver, error) {
	if len(key) == 0 {
		return nil, errors.New("[NewResolver] cookie verification key is required")
	}
	resolver := &Resolver{
		key:     key,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(resolver)
	}
	return resolver, nil
}

// ResolveFromFallback returns the channel ID carried by the fallback
// cookie, or false when the cookie is absent, unsigned, expired or does not
// carry a channel claim.
func (r *Resolver) ResolveFromFallback(req *http.Request) (string, bool) {
	cookie, err := req.Cookie(FallbackCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	var claims channelClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return r.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(r.nowTime),
	)
	if err != nil || !token.Valid || claims.ChannelID == "" {
		return "", false
	}
	return claims.ChannelID, true
}
