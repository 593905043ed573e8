package service

import (
	"context"
	"log/slog"

	"github.com/strataboard/strata/internal/auth/domain"
	"github.com/strataboard/strata/pkg/slogx"
)

// Mailer is the outbound delivery collaborator. Message content and
// transport live outside this core; we only hand over the raw token.
type Mailer interface {
	SendSecurityToken(ctx context.Context, email string, typ domain.SecurityTokenType, token string) error
}

// LogMailer logs tokens instead of sending them. Development collaborator;
// production wires a real delivery service here.
type LogMailer struct{}

func (LogMailer) SendSecurityToken(ctx context.Context, email string, typ domain.SecurityTokenType, token string) error {
	slogx.FromContext(ctx).Debug("security token delivery (log mailer)",
		slog.String("email", email),
		slog.String("type", string(typ)),
		slog.String("token", token),
	)
	return nil
}
