// Package lifecycle drives the dual-mode session state machine: initial
// grant handling, the creator/company branch, refresh triggering and the
// redirect-target decision.
package lifecycle

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/brandlink/partner-auth/partners"
	"github.com/brandlink/partner-auth/refresh"
	"github.com/brandlink/partner-auth/session"
	"github.com/brandlink/partner-auth/statecodec"
	"github.com/brandlink/partner-auth/tokenstore"
)

// refreshMargin keeps a token from being used while it is expiring
// mid-request: a refresh triggers this long before the recorded expiry.
const refreshMargin = 60 * time.Second

// Grant is the credential set the provider returned from an initial
// authorization round trip.
type Grant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	Email        string
}

// RequestInput carries the request-scoped identity context. RawState is
// the opaque payload echoed back by the provider, FallbackChannelID the
// channel recovered from the connect cookie. Both may be empty.
type RequestInput struct {
	RawState          string
	FallbackChannelID string
}

// TokenUpserter persists creator grants.
type TokenUpserter interface {
	Upsert(ctx context.Context, params tokenstore.UpsertParams) (*tokenstore.TokenRecord, error)
}

// PartnershipLinker creates the partnership record for a campaign-initiated
// creator sign-in.
type PartnershipLinker interface {
	Link(ctx context.Context, creatorInternalID, companyID, shortID string) (*partners.Partnership, error)
}

// Refresher exchanges an offline grant for a fresh access token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken, channelID string) (*refresh.Result, error)
}

// Controller materialises sessions. All collaborators are injected; request
// context arrives as explicit arguments, never ambient state.
type Controller struct {
	tokens    TokenUpserter
	linker    PartnershipLinker
	refresher Refresher
	nowTime   func() time.Time
}

// ControllerOption defines a function type to modify the Controller instance.
type ControllerOption func(*Controller)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ControllerOption {
	return func(c *Controller) {
		c.nowTime = nowFunc
	}
}

func NewController(tokens TokenUpserter, linker PartnershipLinker, refresher Refresher, options ...ControllerOption) (*Controller, error) {
	if tokens == nil {
		return nil, errors.New("[NewController] token upserter is required")
	}
	if linker == nil {
		return nil, errors.New("[NewController] partnership linker is required")
	}
	if refresher == nil {
		return nil, errors.New("[NewController] refresher is required")
	}

	controller := &Controller{
		tokens:    tokens,
		linker:    linker,
		refresher: refresher,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(controller)
	}
	return controller, nil
}

// InitialGrant turns a fresh provider grant into a session. An incomplete
// credential set degrades the session terminally for this grant attempt. A
// store failure during creator persistence is returned as an error so the
// sign-in never silently reports success over a lost refresh token.
func (c *Controller) InitialGrant(ctx context.Context, grant Grant, input RequestInput) (*session.Token, error) {
	if grant.AccessToken == "" || grant.RefreshToken == "" {
		log.Warn().
			Bool("has_access_token", grant.AccessToken != "").
			Bool("has_refresh_token", grant.RefreshToken != "").
			Msg("provider granted an incomplete credential set")
		return &session.Token{ErrorState: session.ErrorMissingTokens}, nil
	}

	payload := c.decodePayload(input.RawState)

	if payload.IsCompany() {
		// Company sign-ins never touch creator persistence or linkage.
		return &session.Token{
			AccessToken:   grant.AccessToken,
			RefreshToken:  grant.RefreshToken,
			ExpiresAt:     grant.ExpiresAt,
			PrincipalType: session.PrincipalCompany,
			ShopName:      payload.ShopName,
		}, nil
	}

	channelID := payload.ChannelID
	if channelID == "" {
		channelID = input.FallbackChannelID
	}

	tok := &session.Token{
		AccessToken:   grant.AccessToken,
		RefreshToken:  grant.RefreshToken,
		ExpiresAt:     grant.ExpiresAt,
		PrincipalType: session.PrincipalCreator,
		ChannelID:     channelID,
		Email:         grant.Email,
	}

	if channelID == "" {
		// No channel resolvable by any method: hold the grant in the
		// session only. Deliberately non-fatal, but the grant is orphaned
		// if the session is lost.
		log.Warn().Msg("creator sign-in without resolvable channel, grant not persisted")
		return tok, nil
	}

	record, err := c.tokens.Upsert(ctx, tokenstore.UpsertParams{
		ChannelID:    channelID,
		Email:        grant.Email,
		AccessToken:  grant.AccessToken,
		RefreshToken: grant.RefreshToken,
		ExpiresAt:    grant.ExpiresAt,
	})
	if err != nil {
		return nil, errors.Wrap(err, "[Controller.InitialGrant] persisting creator grant")
	}

	if payload.CompanyID != "" && payload.ShortID != "" {
		partnership, err := c.linker.Link(ctx, record.ID, payload.CompanyID, payload.ShortID)
		if err != nil {
			// Linkage is a convenience side effect, never a sign-in blocker.
			log.Warn().Err(err).
				Str("company_id", payload.CompanyID).
				Str("short_id", payload.ShortID).
				Msg("partnership linkage failed, session proceeds without it")
		} else {
			tok.PartnershipID = partnership.ID
		}
	}

	return tok, nil
}

// Materialize evaluates an existing session on a subsequent request,
// refreshing the access token when it is inside the expiry margin. The
// input token is never mutated. Degraded sessions are sticky: no refresh
// is retried until a fresh InitialGrant re-authenticates the principal.
func (c *Controller) Materialize(ctx context.Context, tok *session.Token, input RequestInput) *session.Token {
	if tok == nil {
		return nil
	}

	current := *tok

	if current.Degraded() {
		return &current
	}
	if current.IsCompany() {
		// Company sessions never hold a creator offline grant to refresh.
		return &current
	}
	if c.nowTime().Before(current.ExpiresAt.Add(-refreshMargin)) {
		return &current
	}

	if current.AccessToken == "" || current.RefreshToken == "" {
		// Anomalous but non-escalating; leave the session as it stands.
		return &current
	}

	channelID := current.ChannelID
	if channelID == "" {
		channelID = input.FallbackChannelID
	}

	result, err := c.refresher.Refresh(ctx, current.RefreshToken, channelID)
	if err != nil {
		// Prior session data is kept so the UI can show who needs to
		// reconnect rather than losing identity.
		log.Error().Err(err).Str("channel_id", channelID).Msg("token refresh failed, session degraded")
		current.ErrorState = session.ErrorRefreshFailed
		return &current
	}

	current.AccessToken = result.AccessToken
	current.ExpiresAt = result.ExpiresAt
	if result.RefreshToken != "" {
		current.RefreshToken = result.RefreshToken
	}
	return &current
}

func (c *Controller) decodePayload(rawState string) statecodec.Payload {
	if rawState == "" {
		return statecodec.Payload{}
	}
	payload, err := statecodec.Decode(rawState)
	if err != nil {
		// Decode failure means "no routing context available", never a
		// fatal sign-in error.
		log.Warn().Err(err).Msg("state payload undecodable, falling back to cookie resolution")
		return statecodec.Payload{}
	}
	return payload
}
