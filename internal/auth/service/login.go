package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/strataboard/strata/internal/auth/domain"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/pkg/cryptox"
	"github.com/strataboard/strata/pkg/slogx"
	"github.com/strataboard/strata/pkg/tokenx"
)

// LoginService verifies credentials against the user directory and mints
// identity tokens. It persists nothing; the directory read is its only side
// effect.
type LoginService struct {
	Store    store.Store
	Codec    tokenx.Codec
	TokenTTL time.Duration
}

// Login checks the email/password pair and returns a bearer token grant.
//
// Unknown email and wrong password surface as distinct errors
// (ErrUserNotFound vs ErrInvalidCredentials).
func (s *LoginService) Login(ctx context.Context, email, password string) (domain.TokenGrant, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("login attempt for unknown email")
			return domain.TokenGrant{}, ErrUserNotFound
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return domain.TokenGrant{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login attempt with wrong password", slog.String("user_id", user.ID))
			return domain.TokenGrant{}, ErrInvalidCredentials
		}
		log.Error("failed to verify password", slog.Any("error", err))
		return domain.TokenGrant{}, err
	}

	expiresAt := time.Now().Add(s.TokenTTL).UTC().Truncate(time.Second)

	token, err := s.Codec.Encode(user.ID, expiresAt)
	if err != nil {
		log.Error("failed to encode identity token", slog.Any("error", err))
		return domain.TokenGrant{}, err
	}

	log.Debug("login succeeded",
		slog.String("user_id", user.ID),
		slog.Time("expires_at", expiresAt),
	)

	return domain.TokenGrant{
		Token:       token,
		PrincipalID: user.ID,
		ExpiresAt:   expiresAt,
	}, nil
}
