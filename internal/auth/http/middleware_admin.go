package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/pkg/httpx"
	"github.com/strataboard/strata/pkg/slogx"
)

// AdminLister is the single collaborator the admin filter needs: the
// admin-id set of one community. *service.CommunityService satisfies it.
type AdminLister interface {
	ListAdmins(ctx context.Context, communityID string, page store.PageSpec) ([]string, error)
}

// CommunityAdminMiddleware gates amenity mutations to community admins.
//
// Only requests shaped `POST /v1/communities/{id}/amenities` are
// inspected; everything else passes straight through untouched. For a
// matched request the community id is lifted from the path, the admin
// set is fetched, and the authenticated principal must be a member.
// Any failure to establish membership, including a path that matched
// the route but yields no usable community id, denies with 403 rather
// than erroring out.
func CommunityAdminMiddleware(admins AdminLister) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isAmenityMutation(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			log := slogx.FromContext(ctx)

			communityID, ok := communityIDFromPath(r.URL.Path)
			if !ok {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			principalID := httpx.PrincipalID(ctx)
			if principalID == "" {
				w.WriteHeader(http.StatusForbidden)
				return
			}

			adminIDs, err := admins.ListAdmins(ctx, communityID, store.PageSpec{})
			if err != nil {
				// Unknown communities and store failures both yield an
				// empty admin set, which denies below.
				log.Warn("admin lookup failed", "community_id", communityID, "err", err)
			}

			for _, id := range adminIDs {
				if id == principalID {
					next.ServeHTTP(w, r)
					return
				}
			}

			w.WriteHeader(http.StatusForbidden)
		})
	}
}

func isAmenityMutation(r *http.Request) bool {
	if r.Method != http.MethodPost {
		return false
	}
	path := strings.TrimSuffix(r.URL.Path, "/")
	return strings.HasPrefix(path, "/v1/communities/") && strings.HasSuffix(path, "/amenities")
}

// communityIDFromPath extracts the {id} segment from a path already
// known to match the amenity-mutation shape. Extraction is bounds
// checked on its own so a degenerate path like /v1/communities/amenities
// can never panic; it reports !ok instead.
func communityIDFromPath(path string) (string, bool) {
	path = strings.TrimSuffix(path, "/")
	rest, ok := strings.CutPrefix(path, "/v1/communities/")
	if !ok {
		return "", false
	}
	id, ok := strings.CutSuffix(rest, "/amenities")
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
