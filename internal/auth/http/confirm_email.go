package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/pkg/httpx"
	"github.com/strataboard/strata/pkg/slogx"
)

// ConfirmEmailHandler serves POST /v1/confirm-email, redeeming the
// one-time confirmation token mailed out at signup.
type ConfirmEmailHandler struct {
	UserService *service.UserService
}

func (h *ConfirmEmailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !requireForm(w, r) {
		return
	}

	token := strings.TrimSpace(r.Form.Get("token"))
	if token == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	if err := h.UserService.ConfirmEmail(ctx, token); err != nil {
		writeSecurityTokenError(w, log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeSecurityTokenError maps the redemption error taxonomy onto wire
// responses. Unknown and wrong-type tokens collapse to the same code so
// the response does not reveal what kind of token a guessed value was.
func writeSecurityTokenError(w http.ResponseWriter, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrTokenNotFound), errors.Is(err, service.ErrWrongTokenType):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_token", "token is not recognised")
	case errors.Is(err, service.ErrTokenAlreadyUsed):
		httpx.WriteError(w, http.StatusConflict, "token_used", "token has already been redeemed")
	case errors.Is(err, service.ErrTokenExpired):
		httpx.WriteError(w, http.StatusBadRequest, "token_expired", "token has expired")
	default:
		log.Error("token redemption failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
	}
}
