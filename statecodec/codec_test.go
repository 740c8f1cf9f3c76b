package statecodec_test

import (
	"testing"

	"github.com/brandlink/partner-auth/internal/errs"
	"github.com/brandlink/partner-auth/statecodec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := statecodec.Payload{
		ChannelID: "ch_42",
		CompanyID: "co_1",
		ShortID:   "sh_9",
	}

	decoded, err := statecodec.Decode(statecodec.Encode(original))
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestDecodeMalformedInput(t *testing.T) {
	tests := []struct {
		name   string
		opaque string
	}{
		{"empty", ""},
		{"not base64", "%%%not-base64%%%"},
		{"base64 but not json", "bm90LWpzb24"},
		{"truncated json", "eyJjaGFubmVsSWQiOiJjaF80Mg"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := statecodec.Decode(tc.opaque)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrDecodeFailed)
		})
	}
}

func TestShopNameSelectsCompany(t *testing.T) {
	assert.True(t, statecodec.Payload{ShopName: "acme"}.IsCompany())
	assert.True(t, statecodec.Payload{ShopName: "acme", ChannelID: "ch_1"}.IsCompany())
	assert.False(t, statecodec.Payload{ChannelID: "ch_1", CompanyID: "co_1", ShortID: "sh_1"}.IsCompany())
}

func TestIsZero(t *testing.T) {
	assert.True(t, statecodec.Payload{}.IsZero())
	assert.False(t, statecodec.Payload{ShortID: "sh_1"}.IsZero())
}
