package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/strataboard/strata/internal/auth/domain"
	authhttp "github.com/strataboard/strata/internal/auth/http"
	"github.com/strataboard/strata/internal/auth/service"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/internal/auth/store/drivers/sqlite"
	"github.com/strataboard/strata/pkg/cryptox"
	"github.com/strataboard/strata/pkg/tokenx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "http-test")
	if err != nil {
		panic(err)
	}

	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// captureMailer records the latest issued token so tests can redeem it.
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

type testEnv struct {
	router *authhttp.Router
	store  store.Store
	codec  tokenx.Codec
	mailer *captureMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	codec := tokenx.NewSigned([]byte("http-test-secret"))
	mailer := &captureMailer{}
	tokens := &service.SecurityTokenService{Store: st}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := authhttp.NewRouter(codec, "test", st, logger)
	router.LoginService = &service.LoginService{Store: st, Codec: codec, TokenTTL: time.Hour}
	router.UserService = &service.UserService{
		Store:      st,
		Tokens:     tokens,
		Mailer:     mailer,
		ConfirmTTL: time.Hour,
		ResetTTL:   time.Hour,
	}
	router.CommunityService = &service.CommunityService{Store: st}
	router.ApplyRoutes()

	return &testEnv{router: router, store: st, codec: codec, mailer: mailer}
}

// postForm drives the router with a form-encoded request. An empty token
// leaves the request unauthenticated.
func (e *testEnv) postForm(t *testing.T, path, token string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// jsonField decodes the recorder body as a JSON object and returns one
// string field, failing the test if it is absent.
func jsonField(t *testing.T, rec *httptest.ResponseRecorder, field string) string {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	val, ok := body[field].(string)
	require.True(t, ok, "missing field %q in %s", field, rec.Body.String())
	return val
}

// signupAndLogin registers an account and returns its id and a bearer token.
func (e *testEnv) signupAndLogin(t *testing.T, email, password string) (string, string) {
	t.Helper()

	rec := e.postForm(t, "/v1/signup", "", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	userID := jsonField(t, rec, "id")

	rec = e.postForm(t, "/v1/login", "", url.Values{
		"email":    {email},
		"password": {password},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	return userID, jsonField(t, rec, "access_token")
}
