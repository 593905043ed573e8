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

const minPasswordLength = 8

// SignupHandler serves POST /v1/signup.
type SignupHandler struct {
	UserService *service.UserService
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Confirmed   bool      `json:"confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *SignupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if !requireForm(w, r) {
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")
	displayName := strings.TrimSpace(r.Form.Get("display_name"))

	if email == "" || !strings.Contains(email, "@") {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "a valid email is required")
		return
	}
	if len(password) < minPasswordLength {
		httpx.WriteError(w, http.StatusBadRequest, "weak_password", "password must be at least 8 characters")
		return
	}
	if displayName == "" {
		displayName = email
	}

	user, err := h.UserService.SignUp(ctx, email, password, displayName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteError(w, http.StatusConflict, "email_taken", "an account with that email already exists")
		default:
			log.Error("signup failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, userResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Confirmed:   user.Confirmed(),
		CreatedAt:   user.CreatedAt,
	})
}
