package session_test

import (
	"testing"
	"time"

	"github.com/brandlink/partner-auth/internal/errs"
	"github.com/brandlink/partner-auth/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSigningKey = []byte("test-session-signing-key")

func testToken() *session.Token {
	return &session.Token{
		AccessToken:   "access-a1",
		RefreshToken:  "refresh-r1",
		ExpiresAt:     time.Now().Add(time.Hour).Truncate(time.Second),
		PrincipalType: session.PrincipalCreator,
		ChannelID:     "ch_42",
		Email:         "creator@example.com",
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	codec, err := session.NewCodec(testSigningKey, time.Hour)
	require.NoError(t, err)

	original := testToken()
	sealed, err := codec.Seal(original)
	require.NoError(t, err)

	opened, err := codec.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, original.AccessToken, opened.AccessToken)
	assert.Equal(t, original.RefreshToken, opened.RefreshToken)
	assert.Equal(t, original.PrincipalType, opened.PrincipalType)
	assert.Equal(t, original.ChannelID, opened.ChannelID)
	assert.Equal(t, original.Email, opened.Email)
	assert.Equal(t, original.ExpiresAt.Unix(), opened.ExpiresAt.Unix())
	assert.Equal(t, session.ErrorNone, opened.ErrorState)
}

func TestSealOpenCompanyToken(t *testing.T) {
	codec, err := session.NewCodec(testSigningKey, time.Hour)
	require.NoError(t, err)

	sealed, err := codec.Seal(&session.Token{
		AccessToken:   "access-a1",
		PrincipalType: session.PrincipalCompany,
		ShopName:      "acme",
	})
	require.NoError(t, err)

	opened, err := codec.Open(sealed)
	require.NoError(t, err)
	assert.True(t, opened.IsCompany())
	assert.Equal(t, "acme", opened.ShopName)
	assert.Empty(t, opened.RefreshToken)
	assert.True(t, opened.ExpiresAt.IsZero())
}

func TestOpenTamperedContainer(t *testing.T) {
	codec, err := session.NewCodec(testSigningKey, time.Hour)
	require.NoError(t, err)

	sealed, err := codec.Seal(testToken())
	require.NoError(t, err)

	tampered := sealed[:len(sealed)-4] + "xxxx"
	_, err = codec.Open(tampered)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestOpenWrongKey(t *testing.T) {
	codec, err := session.NewCodec(testSigningKey, time.Hour)
	require.NoError(t, err)

	other, err := session.NewCodec([]byte("some-other-key"), time.Hour)
	require.NoError(t, err)

	sealed, err := codec.Seal(testToken())
	require.NoError(t, err)

	_, err = other.Open(sealed)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestOpenExpiredContainer(t *testing.T) {
	now := time.Now()
	codec, err := session.NewCodec(testSigningKey, time.Hour, session.WithNowTime(func() time.Time {
		return now
	}))
	require.NoError(t, err)

	sealed, err := codec.Seal(testToken())
	require.NoError(t, err)

	late, err := session.NewCodec(testSigningKey, time.Hour, session.WithNowTime(func() time.Time {
		return now.Add(2 * time.Hour)
	}))
	require.NoError(t, err)

	_, err = late.Open(sealed)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidSession)
}

func TestDegraded(t *testing.T) {
	tok := testToken()
	assert.False(t, tok.Degraded())

	tok.ErrorState = session.ErrorRefreshFailed
	assert.True(t, tok.Degraded())
}
