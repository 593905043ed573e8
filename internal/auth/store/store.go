package store

import (
	"context"
	"errors"

	"github.com/strataboard/strata/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// PageSpec bounds a listing. The zero value means "fetch all", which is what
// the admin-set lookup uses.
type PageSpec struct {
	Limit  int
	Offset int
}

// All reports whether the page asks for the whole result set.
func (p PageSpec) All() bool { return p.Limit <= 0 }

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement it. Sub-repositories keep concerns tidy and individually
// testable.
type Store interface {
	Users() Users
	SecurityTokens() SecurityTokens
	Communities() Communities
	Amenities() Amenities

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST Commit() or Rollback() the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn inside a transaction, committing when fn returns nil
	// and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Users is the credential directory: the only identity source the
// credential verifier reads.
type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is the login-time directory lookup.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id provided by the app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// ConfirmEmail stamps email_confirmed_at and bumps updated_at.
	ConfirmEmail(ctx context.Context, userID string) error

	// DeleteUser cascades to security_tokens and admin memberships.
	DeleteUser(ctx context.Context, userID string) error
}

type SecurityTokens interface {
	// CreateSecurityToken stores a new one-time token (value_hash is the
	// SHA-256 fingerprint of the raw value, never the value itself).
	CreateSecurityToken(ctx context.Context, t domain.SecurityToken) error

	// GetSecurityTokenByHash fetches a token by fingerprint regardless of
	// its used/expired state; the lifecycle rules live in the service.
	GetSecurityTokenByHash(ctx context.Context, hash string) (domain.SecurityToken, error)

	// ConsumeSecurityToken atomically flips used from false to true.
	// Returns ErrNotFound when no unused row matched, which is how a
	// concurrent redemption loser finds out it lost.
	ConsumeSecurityToken(ctx context.Context, id string) error

	// DeleteConsumedSecurityTokens is housekeeping: it removes only tokens
	// that were already redeemed and are past their validity window. An
	// expired token that was never used stays, so a late redemption attempt
	// still learns it expired rather than that it never existed.
	DeleteConsumedSecurityTokens(ctx context.Context) error
}

type Communities interface {
	CreateCommunity(ctx context.Context, c domain.Community) error

	GetCommunityByID(ctx context.Context, id string) (domain.Community, error)

	// AddAdmin grants a user admin membership of a community.
	AddAdmin(ctx context.Context, communityID, userID string) error

	// ListAdmins returns the admin principal ids of a community. A zero
	// PageSpec fetches the full set, which is what the authorization
	// filter asks for.
	ListAdmins(ctx context.Context, communityID string, page PageSpec) ([]string, error)
}

type Amenities interface {
	CreateAmenity(ctx context.Context, a domain.Amenity) error

	ListAmenitiesByCommunity(ctx context.Context, communityID string) ([]domain.Amenity, error)
}
