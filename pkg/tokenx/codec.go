package tokenx

import (
	"errors"
	"time"
)

// Identity is the pair an identity token asserts: who the bearer is and
// when the assertion stops being valid.
type Identity struct {
	PrincipalID string
	ExpiresAt   time.Time
}

// Codec is our interface for anything that can turn an identity into an
// opaque bearer string and back. Implementations are pure and safe for
// concurrent use.
//
// Decode deliberately does NOT reject expired identities; it only extracts
// what the token carries. Expiry enforcement belongs to the caller (the
// authn middleware in practice), which keeps the codec reusable for
// introspection and debugging of already-dead tokens.
type Codec interface {
	Encode(principalID string, expiresAt time.Time) (string, error)
	Decode(token string) (Identity, error)
}

var (
	// ErrMalformed reports a token that cannot be parsed at all.
	ErrMalformed = errors.New("tokenx: malformed token")

	// ErrInvalidSignature reports a structurally valid token whose
	// signature does not verify under the configured secret.
	ErrInvalidSignature = errors.New("tokenx: invalid signature")
)
