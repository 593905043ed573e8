package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/strataboard/strata/internal/auth/domain"
	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/internal/auth/store/drivers/sqlite"
	"github.com/strataboard/strata/pkg/cryptox"
	"github.com/strataboard/strata/pkg/idx"
	"github.com/strataboard/strata/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

func testCodec() tokenx.Codec {
	return tokenx.NewSigned([]byte("service-test-secret"))
}

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "service-test")
	if err != nil {
		panic(err)
	}

	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, email, password string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: hash,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

// captureMailer records issued tokens so tests can redeem them.
type captureMailer struct {
	email string
	typ   domain.SecurityTokenType
	token string
}

func (m *captureMailer) SendSecurityToken(_ context.Context, email string, typ domain.SecurityTokenType, token string) error {
	m.email = email
	m.typ = typ
	m.token = token
	return nil
}

var _ service.Mailer = (*captureMailer)(nil)
