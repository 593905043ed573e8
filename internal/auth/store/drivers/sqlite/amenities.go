package sqlite

import (
	"context"
	"time"

	"github.com/strataboard/strata/internal/auth/domain"
)

type amenitiesRepo struct {
	db dbtx
}

func (r *amenitiesRepo) CreateAmenity(ctx context.Context, a domain.Amenity) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO amenities (id, community_id, name, description, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.CommunityID, a.Name, a.Description, a.CreatedBy, time.Now().UTC())
	return mapUniqueViolation(err)
}

func (r *amenitiesRepo) ListAmenitiesByCommunity(ctx context.Context, communityID string) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, community_id, name, description, created_by, created_at
		 FROM amenities WHERE community_id = ? ORDER BY created_at`, communityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var amenities []domain.Amenity
	for rows.Next() {
		var a domain.Amenity
		if err := rows.Scan(&a.ID, &a.CommunityID, &a.Name, &a.Description, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, err
		}
		amenities = append(amenities, a)
	}
	return amenities, rows.Err()
}
