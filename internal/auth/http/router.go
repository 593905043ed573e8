package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/pkg/httpx"
	"github.com/strataboard/strata/pkg/slogx"
	"github.com/strataboard/strata/pkg/tokenx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	codec        tokenx.Codec
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store            store.Store
	LoginService     *service.LoginService
	UserService      *service.UserService
	CommunityService *service.CommunityService
}

func NewRouter(
	codec tokenx.Codec,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		codec:        codec,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerCommunities()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccounts() {
	// POST /login - strict rate limit by IP + email form field to slow
	// credential stuffing against a single account
	loginHandler := &LoginHandler{LoginService: r.LoginService}
	r.Mux.Handle("POST /v1/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	signupHandler := &SignupHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/signup",
		httpx.Chain(signupHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Token redemption endpoints are unauthenticated and single-use, so
	// they get the strict profile too.
	confirmHandler := &ConfirmEmailHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/confirm-email",
		httpx.Chain(confirmHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	resetRequestHandler := &PasswordResetRequestHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/password-reset/request",
		httpx.Chain(resetRequestHandler,
			httpx.RateLimitByIPAndFormField(httpx.StrictLimit, "email"),
		),
	)

	resetCompleteHandler := &PasswordResetCompleteHandler{UserService: r.UserService}
	r.Mux.Handle("POST /v1/password-reset/complete",
		httpx.Chain(resetCompleteHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerCommunities() {
	createHandler := &CreateCommunityHandler{CommunityService: r.CommunityService}
	r.Mux.Handle("POST /v1/communities",
		httpx.Chain(createHandler,
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)

	// Amenity mutations run through the admin filter after authn so the
	// principal is known before membership is checked.
	createAmenity := &CreateAmenityHandler{CommunityService: r.CommunityService}
	r.Mux.Handle("POST /v1/communities/{id}/amenities",
		httpx.Chain(createAmenity,
			httpx.AuthnMiddleware(r.codec),
			CommunityAdminMiddleware(r.CommunityService),
			httpx.RateLimitByPrincipal(httpx.ModerateLimit),
		),
	)

	listAmenities := &ListAmenitiesHandler{CommunityService: r.CommunityService}
	r.Mux.Handle("GET /v1/communities/{id}/amenities",
		httpx.Chain(listAmenities,
			httpx.AuthnMiddleware(r.codec),
			httpx.RateLimitByPrincipal(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
