package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/pkg/httpx"
	"github.com/strataboard/strata/pkg/slogx"
)

// CreateAmenityHandler serves POST /v1/communities/{id}/amenities. The
// admin filter runs ahead of this handler, so by the time it executes
// the principal is a verified admin of the community in the path.
type CreateAmenityHandler struct {
	CommunityService *service.CommunityService
}

type amenityResponse struct {
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *CreateAmenityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	communityID := r.PathValue("id")
	principalID := httpx.PrincipalID(ctx)

	if !requireForm(w, r) {
		return
	}

	name := strings.TrimSpace(r.Form.Get("name"))
	description := strings.TrimSpace(r.Form.Get("description"))
	if name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	amenity, err := h.CommunityService.CreateAmenity(ctx, communityID, name, description, principalID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommunityNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "community does not exist")
		default:
			log.Error("amenity creation failed", "community_id", communityID, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, amenityResponse{
		ID:          amenity.ID,
		CommunityID: amenity.CommunityID,
		Name:        amenity.Name,
		Description: amenity.Description,
		CreatedBy:   amenity.CreatedBy,
		CreatedAt:   amenity.CreatedAt,
	})
}

// ListAmenitiesHandler serves GET /v1/communities/{id}/amenities. Reads
// are open to any authenticated principal.
type ListAmenitiesHandler struct {
	CommunityService *service.CommunityService
}

func (h *ListAmenitiesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	communityID := r.PathValue("id")

	amenities, err := h.CommunityService.ListAmenities(ctx, communityID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommunityNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "community does not exist")
		default:
			log.Error("amenity listing failed", "community_id", communityID, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	out := make([]amenityResponse, 0, len(amenities))
	for _, a := range amenities {
		out = append(out, amenityResponse{
			ID:          a.ID,
			CommunityID: a.CommunityID,
			Name:        a.Name,
			Description: a.Description,
			CreatedBy:   a.CreatedBy,
			CreatedAt:   a.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
