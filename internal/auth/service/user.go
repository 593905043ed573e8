package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/strataboard/strata/internal/auth/domain"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/pkg/cryptox"
	"github.com/strataboard/strata/pkg/idx"
	"github.com/strataboard/strata/pkg/slogx"
)

// UserService owns account workflows: signup, email confirmation and
// password reset. The confirmation/reset tokens come from the
// SecurityTokenService; delivery goes through the Mailer collaborator.
type UserService struct {
	Store  store.Store
	Tokens *SecurityTokenService
	Mailer Mailer

	// Policy windows for the one-time tokens.
	ConfirmTTL time.Duration
	ResetTTL   time.Duration
}

// SignUp registers an unconfirmed account and sends an email-confirmation
// token to its address.
func (s *UserService) SignUp(ctx context.Context, email, password, displayName string) (domain.User, error) {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			log.Info("signup attempted with taken email")
			return domain.User{}, ErrEmailTaken
		}
		log.Error("failed to create user", slog.Any("error", err))
		return domain.User{}, err
	}

	raw, err := s.Tokens.Issue(ctx, user.ID, domain.TokenTypeEmailConfirm, s.ConfirmTTL)
	if err != nil {
		return domain.User{}, err
	}

	if err := s.Mailer.SendSecurityToken(ctx, user.Email, domain.TokenTypeEmailConfirm, raw); err != nil {
		log.Error("failed to send confirmation token", slog.Any("error", err))
		return domain.User{}, err
	}

	log.Info("user signed up", slog.String("user_id", user.ID))
	return user, nil
}

// ConfirmEmail redeems an EMAIL_CONFIRM token and marks its owner confirmed,
// atomically with the redemption.
func (s *UserService) ConfirmEmail(ctx context.Context, rawToken string) error {
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := redeemSecurityToken(ctx, tx, rawToken, domain.TokenTypeEmailConfirm)
		if err != nil {
			return err
		}
		return tx.Users().ConfirmEmail(ctx, token.UserID)
	})
}

// RequestPasswordReset issues a PASSWORD_RESET token for the account behind
// email. Unknown emails succeed silently: this endpoint must not leak
// account existence on top of the enumeration surface login already has.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info("password reset requested for unknown email")
			return nil
		}
		log.Error("failed to fetch user", slog.Any("error", err))
		return err
	}

	raw, err := s.Tokens.Issue(ctx, user.ID, domain.TokenTypePasswordReset, s.ResetTTL)
	if err != nil {
		return err
	}

	return s.Mailer.SendSecurityToken(ctx, user.Email, domain.TokenTypePasswordReset, raw)
}

// CompletePasswordReset redeems a PASSWORD_RESET token and installs the new
// password hash, atomically with the redemption.
func (s *UserService) CompletePasswordReset(ctx context.Context, rawToken, newPassword string) error {
	log := slogx.FromContext(ctx)

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		token, err := redeemSecurityToken(ctx, tx, rawToken, domain.TokenTypePasswordReset)
		if err != nil {
			return err
		}

		if err := tx.Users().UpdatePasswordHash(ctx, token.UserID, hash); err != nil {
			return err
		}

		log.Info("password reset completed", slog.String("user_id", token.UserID))
		return nil
	})
}

// GetUserByID fetches a user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	return s.Store.Users().GetUserByID(ctx, userID)
}
