package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandlink/partner-auth/internal/errs"
)

var partnershipRows = []string{"id", "creator_id", "company_id", "short_id", "created_at"}

func TestCreate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	now := time.Now().Truncate(time.Second)

	mock.ExpectQuery("INSERT INTO partnerships").
		WithArgs(sqlmock.AnyArg(), "id_7", "co_1", "sh_9").
		WillReturnRows(sqlmock.NewRows(partnershipRows).
			AddRow("p_1", "id_7", "co_1", "sh_9", now))

	p, err := store.Create(context.Background(), "id_7", "co_1", "sh_9")
	require.NoError(t, err)
	assert.Equal(t, "p_1", p.ID)
	assert.Equal(t, "id_7", p.CreatorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoreFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	mock.ExpectQuery("INSERT INTO partnerships").
		WillReturnError(errors.New("connection refused"))

	_, err = store.Create(context.Background(), "id_7", "co_1", "sh_9")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPersistenceUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByShortID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	now := time.Now().Truncate(time.Second)

	mock.ExpectQuery("SELECT (.+) FROM partnerships").
		WithArgs("sh_9").
		WillReturnRows(sqlmock.NewRows(partnershipRows).
			AddRow("p_1", "id_7", "co_1", "sh_9", now))

	p, err := store.GetByShortID(context.Background(), "sh_9")
	require.NoError(t, err)
	assert.Equal(t, "co_1", p.CompanyID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByShortIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	mock.ExpectQuery("SELECT (.+) FROM partnerships").
		WithArgs("sh_missing").
		WillReturnRows(sqlmock.NewRows(partnershipRows))

	_, err = store.GetByShortID(context.Background(), "sh_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
