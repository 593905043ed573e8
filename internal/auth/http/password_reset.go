package http

import (
	"net/http"
	"strings"

	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/pkg/httpx"
	"github.com/strataboard/strata/pkg/slogx"
)

// PasswordResetRequestHandler serves POST /v1/password-reset/request.
// It responds 202 whether or not the email maps to an account, so the
// endpoint cannot be used to probe for registered addresses.
type PasswordResetRequestHandler struct {
	UserService *service.UserService
}

func (h *PasswordResetRequestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !requireForm(w, r) {
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	if email == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email is required")
		return
	}

	if err := h.UserService.RequestPasswordReset(ctx, email); err != nil {
		log.Error("password reset request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

// PasswordResetCompleteHandler serves POST /v1/password-reset/complete.
type PasswordResetCompleteHandler struct {
	UserService *service.UserService
}

func (h *PasswordResetCompleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !requireForm(w, r) {
		return
	}

	token := strings.TrimSpace(r.Form.Get("token"))
	newPassword := r.Form.Get("new_password")
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}
	if len(newPassword) < minPasswordLength {
		httpx.WriteError(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters")
		return
	}

	if err := h.UserService.CompletePasswordReset(ctx, token, newPassword); err != nil {
		writeSecurityTokenError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
