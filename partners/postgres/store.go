// Package postgres provides PostgreSQL storage for partnership records.
package postgres

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/brandlink/partner-auth/internal/errs"
	"github.com/brandlink/partner-auth/partners"
)

var psq = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const partnershipColumns = "id, creator_id, company_id, short_id, created_at"

// Store implements partners.Repo using PostgreSQL.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL partnership store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Create inserts a new partnership record with a generated identity.
func (s *Store) Create(ctx context.Context, creatorID, companyID, shortID string) (*partners.Partnership, error) {
	query, args, err := psq.Insert("partnerships").
		Columns("id", "creator_id", "company_id", "short_id").
		Values(uuid.NewString(), creatorID, companyID, shortID).
		Suffix("RETURNING " + partnershipColumns).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Create] building query")
	}

	partnership, err := scanPartnership(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, errs.Wrapf(errs.ErrPersistenceUnavailable, "[Store.Create] short ID %s: %v", shortID, err)
	}
	return partnership, nil
}

// GetByShortID retrieves a partnership by its campaign short identifier.
func (s *Store) GetByShortID(ctx context.Context, shortID string) (*partners.Partnership, error) {
	query, args, err := psq.Select(partnershipColumns).
		From("partnerships").
		Where(sq.Eq{"short_id": shortID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "[Store.GetByShortID] building query")
	}

	partnership, err := scanPartnership(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, errs.Wrapf(errs.ErrRecordNotFound, "[Store.GetByShortID] short ID %s", shortID)
	}
	if err != nil {
		return nil, errs.Wrapf(errs.ErrPersistenceUnavailable, "[Store.GetByShortID] short ID %s: %v", shortID, err)
	}
	return partnership, nil
}

func scanPartnership(row *sql.Row) (*partners.Partnership, error) {
	var p partners.Partnership
	err := row.Scan(&p.ID, &p.CreatorID, &p.CompanyID, &p.ShortID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Verify interface compliance.
var _ partners.Repo = (*Store)(nil)
