package sqlite

import (
	"context"
	"time"

	"github.com/strataboard/strata/internal/auth/domain"
	"github.com/strataboard/strata/internal/auth/store"
)

type communitiesRepo struct {
	db dbtx
}

func (r *communitiesRepo) CreateCommunity(ctx context.Context, c domain.Community) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO communities (id, name, created_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.CreatedBy, now, now)
	return mapUniqueViolation(err)
}

func (r *communitiesRepo) GetCommunityByID(ctx context.Context, id string) (domain.Community, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_by, created_at, updated_at FROM communities WHERE id = ?`, id)

	var c domain.Community
	if err := row.Scan(&c.ID, &c.Name, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Community{}, mapNotFound(err)
	}
	return c, nil
}

func (r *communitiesRepo) AddAdmin(ctx context.Context, communityID, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO community_admins (community_id, user_id, created_at)
		 VALUES (?, ?, ?)`,
		communityID, userID, time.Now().UTC())
	return mapUniqueViolation(err)
}

func (r *communitiesRepo) ListAdmins(ctx context.Context, communityID string, page store.PageSpec) ([]string, error) {
	query := `SELECT user_id FROM community_admins WHERE community_id = ? ORDER BY user_id`
	args := []any{communityID}

	if !page.All() {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, page.Limit, page.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		admins = append(admins, id)
	}
	return admins, rows.Err()
}
