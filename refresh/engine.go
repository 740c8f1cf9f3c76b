// Package refresh exchanges an expiring offline grant for a fresh access
// token with the identity provider and persists the result.
package refresh

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/brandlink/partner-auth/internal/errs"
	"github.com/brandlink/partner-auth/tokenstore"
)

// ProviderToken is the provider's answer to a refresh_token grant.
// RefreshToken is set only when the provider rotated it.
type ProviderToken struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenExchanger performs the refresh_token grant against the identity
// provider using confidential-client credentials.
type TokenExchanger interface {
	Exchange(ctx context.Context, refreshToken string) (*ProviderToken, error)
}

// Result is a successful refresh. RefreshToken is the token to keep using:
// the original one unless the provider rotated it.
type Result struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Engine drives the refresh exchange and the follow-up persistence.
type Engine struct {
	exchanger TokenExchanger
	tokens    tokenstore.Repo
}

func NewEngine(exchanger TokenExchanger, tokens tokenstore.Repo) (*Engine, error) {
	if exchanger == nil {
		return nil, errors.New("[NewEngine] token exchanger is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewEngine] token repo is required")
	}
	return &Engine{exchanger: exchanger, tokens: tokens}, nil
}

// Refresh exchanges the refresh token for a new access token. An absent
// refresh token short-circuits to errs.ErrMissingTokens with no provider
// call. When channelID is non-empty the new access token is persisted,
// retaining the original refresh token unless the provider rotated it; a
// persistence failure propagates because an unpersisted refresh token is
// unrecoverable. Provider rejection returns errs.ErrRefreshFailed with no
// partial persistence.
func (e *Engine) Refresh(ctx context.Context, refreshToken, channelID string) (*Result, error) {
	if refreshToken == "" {
		return nil, errs.Wrapf(errs.ErrMissingTokens, "[Engine.Refresh] no refresh token held")
	}

	provided, err := e.exchanger.Exchange(ctx, refreshToken)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrRefreshFailed, "[Engine.Refresh] provider exchange: %v", err)
	}
	if provided.AccessToken == "" {
		return nil, errs.Wrapf(errs.ErrRefreshFailed, "[Engine.Refresh] provider returned no access token")
	}

	// Providers in this offline-access flow do not always rotate the
	// refresh token; keep the original unless a new one was issued.
	retained := refreshToken
	if provided.RefreshToken != "" && provided.RefreshToken != refreshToken {
		retained = provided.RefreshToken
	}

	result := &Result{
		AccessToken:  provided.AccessToken,
		RefreshToken: retained,
		ExpiresAt:    provided.ExpiresAt,
	}

	if channelID == "" {
		// No resolvable channel: the grant stays session-only.
		log.Warn().Msg("refresh succeeded without a resolvable channel, skipping persistence")
		return result, nil
	}

	email := ""
	if record, err := e.tokens.GetByChannelID(ctx, channelID); err == nil {
		email = record.Email
	}

	if _, err := e.tokens.Upsert(ctx, tokenstore.UpsertParams{
		ChannelID:    channelID,
		Email:        email,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		ExpiresAt:    result.ExpiresAt,
	}); err != nil {
		return nil, errors.Wrap(err, "[Engine.Refresh] persisting refreshed grant")
	}

	return result, nil
}
