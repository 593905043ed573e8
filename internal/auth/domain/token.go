package domain

import "time"

// TokenGrant is what a successful login returns: a bearer token plus the
// facts a client needs without decoding it.
type TokenGrant struct {
	Token       string
	PrincipalID string
	ExpiresAt   time.Time
}
