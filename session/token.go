// Package session defines the per-session token record and the
// tamper-evident signed container it round-trips in between requests.
package session

import "time"

// PrincipalType distinguishes the two structurally different principals
// authenticated through the shared provider. Set exactly once, at initial
// grant, and never changed for the life of the session.
type PrincipalType string

const (
	PrincipalCreator PrincipalType = "creator"
	PrincipalCompany PrincipalType = "company"
)

// ErrorState is a sticky failure marker. Once set, downstream consumers
// must treat the session as degraded: the access token may be textually
// present but stale.
type ErrorState string

const (
	ErrorNone          ErrorState = ""
	ErrorMissingTokens ErrorState = "missing_tokens"
	ErrorRefreshFailed ErrorState = "refresh_failed"
)

// Token is the server-held per-session record.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time

	PrincipalType PrincipalType

	// Creator fields. ChannelID is required before any token store write;
	// a creator session without one holds its grant ephemerally.
	ChannelID string
	Email     string

	// Company fields
	ShopName string

	// Set when a company-initiated partnership context was present at
	// sign-in time and successfully linked.
	PartnershipID string

	ErrorState ErrorState
}

// IsCreator reports whether the session authenticates a creator principal.
func (t *Token) IsCreator() bool {
	return t.PrincipalType == PrincipalCreator
}

// IsCompany reports whether the session authenticates a company principal.
func (t *Token) IsCompany() bool {
	return t.PrincipalType == PrincipalCompany
}

// Degraded reports whether the sticky failure marker is set. A degraded
// session must never be presented as authenticated to creator-specific
// features, even when an access token is textually present.
func (t *Token) Degraded() bool {
	return t.ErrorState != ErrorNone
}
