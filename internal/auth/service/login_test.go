package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	user := seedUser(t, st, "u1@example.com", "pw1")

	codec := tokenx.NewSigned([]byte("login-test-secret"))
	svc := &service.LoginService{
		Store:    st,
		Codec:    codec,
		TokenTTL: time.Hour,
	}
	ctx := context.Background()

	t.Run("success returns decodable grant", func(t *testing.T) {
		before := time.Now()

		grant, err := svc.Login(ctx, "u1@example.com", "pw1")
		require.NoError(t, err)
		require.Equal(t, user.ID, grant.PrincipalID)

		id, err := codec.Decode(grant.Token)
		require.NoError(t, err)
		require.Equal(t, user.ID, id.PrincipalID)
		require.True(t, id.ExpiresAt.Equal(grant.ExpiresAt))

		// Expiration is strictly after issuance.
		require.True(t, grant.ExpiresAt.After(before))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "u1@example.com", "wrong")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "ghost@example.com", "pw1")
		require.ErrorIs(t, err, service.ErrUserNotFound)
	})
}
