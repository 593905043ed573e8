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

// LoginHandler serves POST /v1/login.
// Accepts application/x-www-form-urlencoded credentials and returns a
// bearer token on success.
type LoginHandler struct {
	LoginService *service.LoginService
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	PrincipalID string `json:"principal_id"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !requireForm(w, r) {
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	if email == "" || password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	grant, err := h.LoginService.Login(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusUnauthorized, "not_found", "no account for that email")
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "invalid_credentials", "email or password is incorrect")
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, tokenResponse{
		AccessToken: grant.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int(time.Until(grant.ExpiresAt).Seconds()),
		PrincipalID: grant.PrincipalID,
	})
}

// requireForm enforces a form-encoded body and parses it, writing the
// error response itself when the request is unusable.
func requireForm(w http.ResponseWriter, r *http.Request) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" &&
		!strings.HasPrefix(ct, "application/x-www-form-urlencoded") {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "expected application/x-www-form-urlencoded")
		return false
	}
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "malformed form body")
		return false
	}
	return true
}
