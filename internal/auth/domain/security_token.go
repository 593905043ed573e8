package domain

import "time"

// SecurityTokenType fixes which workflow may redeem a token. Cross-type
// redemption is invalid.
type SecurityTokenType string

const (
	TokenTypeEmailConfirm  SecurityTokenType = "EMAIL_CONFIRM"
	TokenTypePasswordReset SecurityTokenType = "PASSWORD_RESET"
)

// SecurityToken is a persisted one-time code owned by a user. The raw value
// is handed to the user exactly once; only its SHA-256 fingerprint is stored.
//
// Lifecycle: created unused by the requesting workflow, flipped to used
// exactly once by the redeeming workflow, removed only by user cascade or,
// once redeemed and past expiry, by housekeeping. "Expired" is a derived
// predicate, not a stored state.
type SecurityToken struct {
	ID        string
	UserID    string
	Type      SecurityTokenType
	ValueHash string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the token's validity window has passed at now.
func (t SecurityToken) Expired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
