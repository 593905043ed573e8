package domain

import "time"

// Community is a tenant-like grouping of houses and amenities with a
// designated admin set.
type Community struct {
	ID        string
	Name      string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Amenity struct {
	ID          string
	CommunityID string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
}
