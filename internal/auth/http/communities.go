package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/pkg/httpx"
	"github.com/strataboard/strata/pkg/slogx"
)

// CreateCommunityHandler serves POST /v1/communities. The authenticated
// caller becomes the community's first admin.
type CreateCommunityHandler struct {
	CommunityService *service.CommunityService
}

type communityResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (h *CreateCommunityHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	principalID := httpx.PrincipalID(ctx)
	if principalID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "invalid_token", "")
		return
	}

	if !requireForm(w, r) {
		return
	}

	name := strings.TrimSpace(r.Form.Get("name"))
	if name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name is required")
		return
	}

	community, err := h.CommunityService.CreateCommunity(ctx, name, principalID)
	if err != nil {
		log.Error("community creation failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, communityResponse{
		ID:        community.ID,
		Name:      community.Name,
		CreatedBy: community.CreatedBy,
		CreatedAt: community.CreatedAt,
	})
}
