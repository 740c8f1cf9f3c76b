// Package tokenstore persists per-creator offline OAuth grants keyed by the
// creator's stable channel identifier.
package tokenstore

import (
	"context"
	"time"
)

// TokenRecord is the durable grant for one creator channel. ID is the
// internal identity key partnerships reference.
type TokenRecord struct {
	ID           string
	ChannelID    string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UpsertParams holds the full replacement values for a channel's grant.
type UpsertParams struct {
	ChannelID    string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Repo stores creator token records. Upsert is last-writer-wins per
// ChannelID: a second call fully replaces the prior token set, there is no
// merge. A store failure must surface to the caller, never be swallowed,
// because an unpersisted refresh token cannot be reissued on demand.
type Repo interface {
	Upsert(ctx context.Context, params UpsertParams) (*TokenRecord, error)
	GetByChannelID(ctx context.Context, channelID string) (*TokenRecord, error)
}
