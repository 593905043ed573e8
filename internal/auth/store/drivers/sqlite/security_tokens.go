package sqlite

import (
	"context"
	"time"

	"github.com/strataboard/strata/internal/auth/domain"
)

type securityTokensRepo struct {
	db dbtx
}

func (r *securityTokensRepo) CreateSecurityToken(ctx context.Context, t domain.SecurityToken) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO security_tokens (id, user_id, token_type, value_hash, expires_at, used, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		t.ID, t.UserID, string(t.Type), t.ValueHash, t.ExpiresAt, now, now)
	return mapUniqueViolation(err)
}

func (r *securityTokensRepo) GetSecurityTokenByHash(ctx context.Context, hash string) (domain.SecurityToken, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_type, value_hash, expires_at, used, created_at, updated_at
		 FROM security_tokens WHERE value_hash = ?`, hash)

	var (
		t   domain.SecurityToken
		typ string
	)
	err := row.Scan(&t.ID, &t.UserID, &typ, &t.ValueHash,
		&t.ExpiresAt, &t.Used, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return domain.SecurityToken{}, mapNotFound(err)
	}
	t.Type = domain.SecurityTokenType(typ)
	return t, nil
}

// ConsumeSecurityToken is a compare-and-set on the used flag. Two concurrent
// redemptions of the same token race here; the `used = 0` predicate ensures
// exactly one UPDATE matches a row and the other sees ErrNotFound.
func (r *securityTokensRepo) ConsumeSecurityToken(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE security_tokens SET used = 1, updated_at = ? WHERE id = ? AND used = 0`,
		time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *securityTokensRepo) DeleteConsumedSecurityTokens(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM security_tokens WHERE used = 1 AND expires_at < ?`, time.Now().UTC())
	return err
}
