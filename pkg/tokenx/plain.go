package tokenx

import (
	"strings"
	"time"
)

// plainSeparator joins the principal id and the expiration. Principal ids
// containing it break the round trip; ULIDs never do.
const plainSeparator = "|"

// plainCodec concatenates the principal id and an RFC3339 expiration with no
// integrity protection whatsoever. It exists so local development and tests
// can mint readable tokens without a secret.
//
// The app config refuses to select this variant when ENV=prod.
type plainCodec struct{}

// NewPlain returns the deterministic, unsigned codec. Non-production only.
func NewPlain() Codec {
	return plainCodec{}
}

func (plainCodec) Encode(principalID string, expiresAt time.Time) (string, error) {
	return principalID + plainSeparator + expiresAt.UTC().Truncate(time.Second).Format(time.RFC3339), nil
}

func (plainCodec) Decode(token string) (Identity, error) {
	i := strings.LastIndex(token, plainSeparator)
	if i < 0 {
		return Identity{}, ErrMalformed
	}

	exp, err := time.Parse(time.RFC3339, token[i+1:])
	if err != nil {
		return Identity{}, ErrMalformed
	}

	return Identity{
		PrincipalID: token[:i],
		ExpiresAt:   exp,
	}, nil
}
