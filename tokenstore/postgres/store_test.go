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
	"github.com/brandlink/partner-auth/tokenstore"
)

const (
	testChannelID    = "ch_42"
	testEmail        = "creator@example.com"
	testAccessToken  = "access-a1"
	testRefreshToken = "refresh-r1"
	testRecordID     = "id_7"
)

var tokenRows = []string{
	"id", "channel_id", "email", "access_token", "refresh_token",
	"expires_at", "created_at", "updated_at",
}

func testParams() tokenstore.UpsertParams {
	return tokenstore.UpsertParams{
		ChannelID:    testChannelID,
		Email:        testEmail,
		AccessToken:  testAccessToken,
		RefreshToken: testRefreshToken,
		ExpiresAt:    time.Now().Add(time.Hour).Truncate(time.Second),
	}
}

func TestUpsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	params := testParams()
	now := time.Now().Truncate(time.Second)

	mock.ExpectQuery("INSERT INTO creator_tokens").
		WithArgs(sqlmock.AnyArg(), params.ChannelID, params.Email,
			params.AccessToken, params.RefreshToken, params.ExpiresAt).
		WillReturnRows(sqlmock.NewRows(tokenRows).
			AddRow(testRecordID, params.ChannelID, params.Email, params.AccessToken,
				params.RefreshToken, params.ExpiresAt, now, now))

	record, err := store.Upsert(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, testRecordID, record.ID)
	assert.Equal(t, params.ChannelID, record.ChannelID)
	assert.Equal(t, params.AccessToken, record.AccessToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRequiresChannelID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	params := testParams()
	params.ChannelID = ""

	_, err = store.Upsert(context.Background(), params)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertStoreFailurePropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	mock.ExpectQuery("INSERT INTO creator_tokens").
		WillReturnError(errors.New("connection refused"))

	_, err = store.Upsert(context.Background(), testParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrPersistenceUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByChannelID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)
	now := time.Now().Truncate(time.Second)

	mock.ExpectQuery("SELECT (.+) FROM creator_tokens").
		WithArgs(testChannelID).
		WillReturnRows(sqlmock.NewRows(tokenRows).
			AddRow(testRecordID, testChannelID, testEmail, testAccessToken,
				testRefreshToken, now.Add(time.Hour), now, now))

	record, err := store.GetByChannelID(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Equal(t, testRecordID, record.ID)
	assert.Equal(t, testEmail, record.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByChannelIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db)

	mock.ExpectQuery("SELECT (.+) FROM creator_tokens").
		WithArgs("ch_missing").
		WillReturnRows(sqlmock.NewRows(tokenRows))

	_, err = store.GetByChannelID(context.Background(), "ch_missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
