package domain

import "time"

type User struct {
	ID               string
	Email            string
	DisplayName      string
	PasswordHash     string // argon2id PHC encoded
	EmailConfirmedAt *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Confirmed reports whether the user has redeemed an email-confirmation
// token.
func (u User) Confirmed() bool { return u.EmailConfirmedAt != nil }
