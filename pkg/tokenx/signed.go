package tokenx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// signedCodec is the production codec: an HS256-signed JWT carrying the
// principal as the subject claim and the expiration as exp.
type signedCodec struct {
	secret []byte
}

// NewSigned returns the tamper-evident codec. The secret is process-wide,
// injected at startup, and never rotated at runtime.
func NewSigned(secret []byte) Codec {
	return &signedCodec{secret: secret}
}

func (c *signedCodec) Encode(principalID string, expiresAt time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject: principalID,
		// exp is a NumericDate with second precision; truncate so that
		// Decode(Encode(id, exp)) returns exp exactly.
		ExpiresAt: jwt.NewNumericDate(expiresAt.Truncate(time.Second)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(c.secret)
}

func (c *signedCodec) Decode(token string) (Identity, error) {
	var claims jwt.RegisteredClaims

	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Expiry is the caller's problem; extract claims as-is.
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrInvalidSignature
		default:
			return Identity{}, ErrMalformed
		}
	}

	if claims.ExpiresAt == nil {
		return Identity{}, ErrMalformed
	}

	return Identity{
		PrincipalID: claims.Subject,
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}
