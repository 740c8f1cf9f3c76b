package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/brandlink/partner-auth/internal/errs"
)

type sessionClaims struct {
	jwt.RegisteredClaims
	AccessToken   string `json:"at"`
	RefreshToken  string `json:"rt,omitempty"`
	TokenExpiry   int64  `json:"texp,omitempty"`
	Principal     string `json:"prn,omitempty"`
	ChannelID     string `json:"chn,omitempty"`
	Email         string `json:"eml,omitempty"`
	ShopName      string `json:"shop,omitempty"`
	PartnershipID string `json:"prt,omitempty"`
	ErrorState    string `json:"est,omitempty"`
}

// Codec seals session tokens into an HMAC-signed container and opens them
// back. Any tampering with the cookie value fails signature verification.
type Codec struct {
	key     []byte
	maxAge  time.Duration
	nowTime func() time.Time
}

// CodecOption defines a function type to modify the Codec instance.
type CodecOption func(*Codec)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowTime = nowFunc
	}
}

func NewCodec(key []byte, maxAge time.Duration, options ...CodecOption) (*Codec, error) {
	if len(key) == 0 {
		return nil, errors.New("[NewCodec] signing key is required")
	}
	if maxAge <= 0 {
		return nil, errors.New("[NewCodec] maxAge must be positive")
	}
	codec := &Codec{
		key:     key,
		maxAge:  maxAge,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(codec)
	}
	return codec, nil
}

// Seal signs the token into its container form.
func (c *Codec) Seal(tok *Token) (string, error) {
	if tok == nil {
		return "", errors.New("[Codec.Seal] token is required")
	}

	now := c.nowTime()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
		AccessToken:   tok.AccessToken,
		RefreshToken:  tok.RefreshToken,
		Principal:     string(tok.PrincipalType),
		ChannelID:     tok.ChannelID,
		Email:         tok.Email,
		ShopName:      tok.ShopName,
		PartnershipID: tok.PartnershipID,
		ErrorState:    string(tok.ErrorState),
	}
	if !tok.ExpiresAt.IsZero() {
		claims.TokenExpiry = tok.ExpiresAt.Unix()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrap(err, "[Codec.Seal] signing container")
	}
	return signed, nil
}

// Open verifies a sealed container and reconstructs the session token.
func (c *Codec) Open(raw string) (*Token, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.nowTime),
	)
	if err != nil {
		return nil, errs.Wrapf(errs.ErrInvalidSession, "[Codec.Open] %v", err)
	}
	if !parsed.Valid {
		return nil, errs.Wrapf(errs.ErrInvalidSession, "[Codec.Open] container not valid")
	}

	tok := &Token{
		AccessToken:   claims.AccessToken,
		RefreshToken:  claims.RefreshToken,
		PrincipalType: PrincipalType(claims.Principal),
		ChannelID:     claims.ChannelID,
		Email:         claims.Email,
		ShopName:      claims.ShopName,
		PartnershipID: claims.PartnershipID,
		ErrorState:    ErrorState(claims.ErrorState),
	}
	if claims.TokenExpiry != 0 {
		tok.ExpiresAt = time.Unix(claims.TokenExpiry, 0)
	}
	return tok, nil
}
