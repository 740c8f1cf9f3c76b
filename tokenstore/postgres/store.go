// Package postgres provides PostgreSQL storage for creator token records.
package postgres

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brandlink/partner-auth/internal/errs"
	"github.com/brandlink/partner-auth/tokenstore"
)

// psq is the PostgreSQL statement builder with dollar placeholders.
var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const tokenColumns = "id, channel_id, email, access_token, refresh_token, expires_at, created_at, updated_at"

// Store implements tokenstore.Repo using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL token store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Upsert inserts or fully replaces the grant for a channel. The write is a
// single statement so concurrent refreshes stay last-writer-wins with no
// torn read-modify-write.
func (s *Store) Upsert(ctx context.Context, params tokenstore.UpsertParams) (*tokenstore.TokenRecord, error) {
	if params.ChannelID == "" {
		return nil, errors.New("[Store.Upsert] channel ID is required")
	}

	query, args, err := psq.Insert("creator_tokens").
		Columns("id", "channel_id", "email", "access_token", "refresh_token", "expires_at").
		Values(uuid.NewString(), params.ChannelID, params.Email, params.AccessToken, params.RefreshToken, params.ExpiresAt).
		Suffix(`ON CONFLICT (channel_id) DO UPDATE SET
			email = EXCLUDED.email,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
		RETURNING ` + tokenColumns).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Upsert] building query")
	}

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, errs.Wrapf(errs.ErrPersistenceUnavailable, "[Store.Upsert] channel %s: %v", params.ChannelID, err)
	}
	return record, nil
}

// GetByChannelID retrieves the grant for a channel.
func (s *Store) GetByChannelID(ctx context.Context, channelID string) (*tokenstore.TokenRecord, error) {
	query, args, err := psq.Select(tokenColumns).
		From("creator_tokens").
		Where(sq.Eq{"channel_id": channelID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "[Store.GetByChannelID] building query")
	}

	record, err := scanRecord(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errs.Wrapf(errs.ErrRecordNotFound, "[Store.GetByChannelID] channel %s", channelID)
	}
	if err != nil {
		return nil, errs.Wrapf(errs.ErrPersistenceUnavailable, "[Store.GetByChannelID] channel %s: %v", channelID, err)
	}
	return record, nil
}

func scanRecord(row *sql.Row) (*tokenstore.TokenRecord, error) {
	var record tokenstore.TokenRecord
	err := row.Scan(
		&record.ID,
		&record.ChannelID,
		&record.Email,
		&record.AccessToken,
		&record.RefreshToken,
		&record.ExpiresAt,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Verify interface compliance.
var _ tokenstore.Repo = (*Store)(nil)
