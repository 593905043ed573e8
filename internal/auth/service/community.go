package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/strataboard/strata/internal/auth/domain"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/pkg/idx"
	"github.com/strataboard/strata/pkg/slogx"
)

// CommunityService owns communities, their admin sets and their amenities.
// Its ListAdmins read backs the authorization filter.
type CommunityService struct {
	Store store.Store
}

// CreateCommunity creates a community with the creator as its first admin.
func (s *CommunityService) CreateCommunity(ctx context.Context, name, createdBy string) (domain.Community, error) {
	log := slogx.FromContext(ctx)

	community := domain.Community{
		ID:        idx.New().String(),
		Name:      name,
		CreatedBy: createdBy,
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Communities().CreateCommunity(ctx, community); err != nil {
			return err
		}
		return tx.Communities().AddAdmin(ctx, community.ID, createdBy)
	})
	if err != nil {
		log.Error("failed to create community", slog.Any("error", err))
		return domain.Community{}, err
	}

	log.Info("community created",
		slog.String("community_id", community.ID),
		slog.String("created_by", createdBy),
	)
	return community, nil
}

// ListAdmins returns the full admin-id set of a community. This is the
// Community collaborator read the authorization filter performs per matched
// request; a zero PageSpec means fetch-all.
func (s *CommunityService) ListAdmins(ctx context.Context, communityID string, page store.PageSpec) ([]string, error) {
	return s.Store.Communities().ListAdmins(ctx, communityID, page)
}

// CreateAmenity adds an amenity under a community. Authorization (admin
// membership) has already happened in the request pipeline by the time this
// runs.
func (s *CommunityService) CreateAmenity(ctx context.Context, communityID, name, description, createdBy string) (domain.Amenity, error) {
	log := slogx.FromContext(ctx)

	if _, err := s.Store.Communities().GetCommunityByID(ctx, communityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Amenity{}, ErrCommunityNotFound
		}
		log.Error("failed to fetch community", slog.Any("error", err))
		return domain.Amenity{}, err
	}

	amenity := domain.Amenity{
		ID:          idx.New().String(),
		CommunityID: communityID,
		Name:        name,
		Description: description,
		CreatedBy:   createdBy,
	}

	if err := s.Store.Amenities().CreateAmenity(ctx, amenity); err != nil {
		log.Error("failed to create amenity", slog.Any("error", err))
		return domain.Amenity{}, err
	}

	log.Info("amenity created",
		slog.String("amenity_id", amenity.ID),
		slog.String("community_id", communityID),
	)
	return amenity, nil
}

// ListAmenities lists a community's amenities.
func (s *CommunityService) ListAmenities(ctx context.Context, communityID string) ([]domain.Amenity, error) {
	if _, err := s.Store.Communities().GetCommunityByID(ctx, communityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCommunityNotFound
		}
		return nil, err
	}
	return s.Store.Amenities().ListAmenitiesByCommunity(ctx, communityID)
}
