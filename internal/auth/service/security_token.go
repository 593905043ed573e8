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

// SecurityTokenService owns the one-time token lifecycle: issuing a token in
// the CREATED state and moving it to REDEEMED exactly once. The business
// action attached to a redemption belongs to the calling workflow.
type SecurityTokenService struct {
	Store store.Store
}

// Issue mints a fresh one-time token for the user and returns the raw value.
// Only the SHA-256 fingerprint touches the database.
func (s *SecurityTokenService) Issue(
	ctx context.Context,
	userID string,
	typ domain.SecurityTokenType,
	ttl time.Duration,
) (string, error) {
	log := slogx.FromContext(ctx)

	raw, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate security token", slog.Any("error", err))
		return "", err
	}

	token := domain.SecurityToken{
		ID:        idx.New().String(),
		UserID:    userID,
		Type:      typ,
		ValueHash: cryptox.FingerprintToken(raw),
		ExpiresAt: time.Now().Add(ttl).UTC(),
	}

	if err := s.Store.SecurityTokens().CreateSecurityToken(ctx, token); err != nil {
		log.Error("failed to store security token",
			slog.String("token_id", token.ID),
			slog.Any("error", err),
		)
		return "", err
	}

	log.Debug("security token issued",
		slog.String("token_id", token.ID),
		slog.String("type", string(typ)),
		slog.String("user_id", userID),
		slog.Time("expires_at", token.ExpiresAt),
	)

	return raw, nil
}

// Redeem moves a token to the used state and returns it. Standalone variant
// for workflows with no business action of their own; the conditional update
// is atomic by itself, so no transaction is needed here. Workflows that
// mutate other rows call redeemSecurityToken inside their own transaction.
func (s *SecurityTokenService) Redeem(
	ctx context.Context,
	raw string,
	typ domain.SecurityTokenType,
) (domain.SecurityToken, error) {
	return redeemSecurityToken(ctx, s.Store, raw, typ)
}

// redeemSecurityToken performs the lifecycle checks (exists, right type,
// unused, unexpired) and then flips the used flag. The flip is a
// conditional update at the storage layer, so of two concurrent redemptions
// exactly one succeeds and the loser reports ErrTokenAlreadyUsed.
func redeemSecurityToken(
	ctx context.Context,
	s store.Store,
	raw string,
	typ domain.SecurityTokenType,
) (domain.SecurityToken, error) {
	log := slogx.FromContext(ctx)

	token, err := s.SecurityTokens().GetSecurityTokenByHash(ctx, cryptox.FingerprintToken(raw))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("redemption attempted with unknown token", slog.String("type", string(typ)))
			return domain.SecurityToken{}, ErrTokenNotFound
		}
		log.Error("failed to fetch security token", slog.Any("error", err))
		return domain.SecurityToken{}, err
	}

	if token.Type != typ {
		log.Warn("redemption attempted with wrong token type",
			slog.String("token_id", token.ID),
			slog.String("token_type", string(token.Type)),
			slog.String("workflow_type", string(typ)),
		)
		return domain.SecurityToken{}, ErrWrongTokenType
	}

	if token.Used {
		log.Warn("redemption attempted with used token", slog.String("token_id", token.ID))
		return domain.SecurityToken{}, ErrTokenAlreadyUsed
	}

	if token.Expired(time.Now()) {
		log.Warn("redemption attempted with expired token",
			slog.String("token_id", token.ID),
			slog.Time("expired_at", token.ExpiresAt),
		)
		return domain.SecurityToken{}, ErrTokenExpired
	}

	if err := s.SecurityTokens().ConsumeSecurityToken(ctx, token.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race: someone consumed it between our read and the flip.
			log.Warn("concurrent redemption lost", slog.String("token_id", token.ID))
			return domain.SecurityToken{}, ErrTokenAlreadyUsed
		}
		log.Error("failed to consume security token", slog.Any("error", err))
		return domain.SecurityToken{}, err
	}

	token.Used = true

	log.Info("security token redeemed",
		slog.String("token_id", token.ID),
		slog.String("type", string(token.Type)),
		slog.String("user_id", token.UserID),
	)

	return token, nil
}
