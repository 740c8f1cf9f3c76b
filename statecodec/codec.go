// Package statecodec encodes the per-attempt routing context that rides
// through the OAuth redirect round trip as an opaque string. The provider
// never inspects it; it exists so the callback can tell a creator sign-in
// from a company sign-in and recover campaign routing identifiers.
package statecodec

import (
	"encoding/base64"
	"encoding/json"

	"github.com/brandlink/partner-auth/internal/errs"
)

// Payload carries the optional routing fields for one authentication
// attempt. A non-empty ShopName is the sole discriminator selecting the
// company principal type.
type Payload struct {
	ChannelID string `json:"channelId,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
	ShortID   string `json:"shortId,omitempty"`
	ShopName  string `json:"shopName,omitempty"`
}

// IsZero reports whether no routing fields are set.
func (p Payload) IsZero() bool {
	return p == Payload{}
}

// IsCompany reports whether the payload selects the company principal type.
func (p Payload) IsCompany() bool {
	return p.ShopName != ""
}

// Encode serialises the payload as base64url JSON. The inverse of Decode.
func Encode(p Payload) string {
	b, _ := json.Marshal(p)
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode parses an opaque payload string. Malformed input returns an error
// wrapping errs.ErrDecodeFailed; callers treat that as "no routing context
// available" and fall back to other identity resolution, never as a fatal
// sign-in error.
func Decode(opaque string) (Payload, error) {
	if opaque == "" {
		return Payload{}, errs.Wrapf(errs.ErrDecodeFailed, "empty payload")
	}
	b, err := base64.RawURLEncoding.DecodeString(opaque)
	if err != nil {
		return Payload{}, errs.Wrapf(errs.ErrDecodeFailed, "base64 decode: %v", err)
	}
	var p Payload
	if err := json.Unmarshal(b, &p); err != nil {
		return Payload{}, errs.Wrapf(errs.ErrDecodeFailed, "json decode: %v", err)
	}
	return p, nil
}
