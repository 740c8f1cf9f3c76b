package refresh

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// OAuth2Exchanger implements TokenExchanger against a standard OAuth 2.0
// token endpoint using the confidential-client configuration.
type OAuth2Exchanger struct {
	config  *oauth2.Config
	timeout time.Duration
}

// NewOAuth2Exchanger wraps an oauth2.Config. The timeout bounds the token
// endpoint call so a slow provider cannot hang a sign-in.
func NewOAuth2Exchanger(config *oauth2.Config, timeout time.Duration) (*OAuth2Exchanger, error) {
	if config == nil {
		return nil, errors.New("[NewOAuth2Exchanger] oauth2 config is required")
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &OAuth2Exchanger{config: config, timeout: timeout}, nil
}

// Exchange performs the refresh_token grant.
func (x *OAuth2Exchanger) Exchange(ctx context.Context, refreshToken string) (*ProviderToken, error) {
	ctx, cancel := context.WithTimeout(ctx, x.timeout)
	defer cancel()

	token, err := x.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, errors.Wrap(err, "[OAuth2Exchanger.Exchange] token endpoint")
	}

	provided := &ProviderToken{
		AccessToken: token.AccessToken,
		ExpiresAt:   token.Expiry,
	}
	if token.RefreshToken != "" && token.RefreshToken != refreshToken {
		provided.RefreshToken = token.RefreshToken
	}
	return provided, nil
}

// Verify interface compliance.
var _ TokenExchanger = (*OAuth2Exchanger)(nil)
