package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/strataboard/strata/internal/auth/domain"
	"github.com/strataboard/strata/internal/auth/store"
	"github.com/strataboard/strata/internal/auth/store/drivers/sqlite"
	"github.com/strataboard/strata/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_journal_mode=WAL"
	st, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "$argon2id$v=19$m=19456,t=2,p=1$c2FsdHNhbHRzYWx0c2FsdA$aGFzaGhhc2hoYXNoaGFzaGhhc2hoYXNoaGFzaGhhc2g",
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func TestUsersRoundTrip(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, st, "owner@example.com")

	byID, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.Email, byID.Email)
	require.False(t, byID.Confirmed())

	byEmail, err := st.Users().GetUserByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)

	_, err = st.Users().GetUserByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, st.Users().ConfirmEmail(ctx, u.ID))
	confirmed, err := st.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, confirmed.Confirmed())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	seedUser(t, st, "dup@example.com")

	err := st.Users().CreateUser(context.Background(), domain.User{
		ID:           idx.New().String(),
		Email:        "dup@example.com",
		DisplayName:  "Other",
		PasswordHash: "x",
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestConsumeSecurityTokenIsSingleUse(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "tokens@example.com")

	tok := domain.SecurityToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Type:      domain.TokenTypeEmailConfirm,
		ValueHash: "fingerprint-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.SecurityTokens().CreateSecurityToken(ctx, tok))

	got, err := st.SecurityTokens().GetSecurityTokenByHash(ctx, "fingerprint-1")
	require.NoError(t, err)
	require.False(t, got.Used)

	require.NoError(t, st.SecurityTokens().ConsumeSecurityToken(ctx, tok.ID))

	// The compare-and-set refuses a second flip.
	err = st.SecurityTokens().ConsumeSecurityToken(ctx, tok.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = st.SecurityTokens().GetSecurityTokenByHash(ctx, "fingerprint-1")
	require.NoError(t, err)
	require.True(t, got.Used)
}

func TestDeleteUserCascadesToSecurityTokens(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "cascade@example.com")

	require.NoError(t, st.SecurityTokens().CreateSecurityToken(ctx, domain.SecurityToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Type:      domain.TokenTypePasswordReset,
		ValueHash: "fingerprint-cascade",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	require.NoError(t, st.Users().DeleteUser(ctx, u.ID))

	_, err := st.SecurityTokens().GetSecurityTokenByHash(ctx, "fingerprint-cascade")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteConsumedSecurityTokens(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, st, "housekeeping@example.com")

	consumed := domain.SecurityToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Type:      domain.TokenTypeEmailConfirm,
		ValueHash: "fp-consumed",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	expiredUnused := domain.SecurityToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Type:      domain.TokenTypeEmailConfirm,
		ValueHash: "fp-expired-unused",
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	live := domain.SecurityToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		Type:      domain.TokenTypeEmailConfirm,
		ValueHash: "fp-live",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, st.SecurityTokens().CreateSecurityToken(ctx, consumed))
	require.NoError(t, st.SecurityTokens().CreateSecurityToken(ctx, expiredUnused))
	require.NoError(t, st.SecurityTokens().CreateSecurityToken(ctx, live))

	// consumed was redeemed before it expired; the sweep may reclaim it.
	require.NoError(t, st.SecurityTokens().ConsumeSecurityToken(ctx, consumed.ID))

	require.NoError(t, st.SecurityTokens().DeleteConsumedSecurityTokens(ctx))

	_, err := st.SecurityTokens().GetSecurityTokenByHash(ctx, "fp-consumed")
	require.ErrorIs(t, err, store.ErrNotFound)

	// An expired token nobody redeemed must survive the sweep: a late
	// redemption attempt is told it expired, not that it never existed.
	_, err = st.SecurityTokens().GetSecurityTokenByHash(ctx, "fp-expired-unused")
	require.NoError(t, err)

	_, err = st.SecurityTokens().GetSecurityTokenByHash(ctx, "fp-live")
	require.NoError(t, err)
}

func TestCommunitiesAndAdmins(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, st, "admin1@example.com")
	second := seedUser(t, st, "admin2@example.com")

	community := domain.Community{
		ID:        idx.New().String(),
		Name:      "Pine Grove",
		CreatedBy: owner.ID,
	}
	require.NoError(t, st.Communities().CreateCommunity(ctx, community))
	require.NoError(t, st.Communities().AddAdmin(ctx, community.ID, owner.ID))
	require.NoError(t, st.Communities().AddAdmin(ctx, community.ID, second.ID))

	// Duplicate membership is an error, not a silent no-op.
	err := st.Communities().AddAdmin(ctx, community.ID, owner.ID)
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	all, err := st.Communities().ListAdmins(ctx, community.ID, store.PageSpec{})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{owner.ID, second.ID}, all)

	page, err := st.Communities().ListAdmins(ctx, community.ID, store.PageSpec{Limit: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)

	none, err := st.Communities().ListAdmins(ctx, "missing", store.PageSpec{})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestAmenities(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	owner := seedUser(t, st, "amenity@example.com")
	community := domain.Community{ID: idx.New().String(), Name: "Oak Court", CreatedBy: owner.ID}
	require.NoError(t, st.Communities().CreateCommunity(ctx, community))

	a := domain.Amenity{
		ID:          idx.New().String(),
		CommunityID: community.ID,
		Name:        "Pool",
		Description: "Heated, 25m",
		CreatedBy:   owner.ID,
	}
	require.NoError(t, st.Amenities().CreateAmenity(ctx, a))

	list, err := st.Amenities().ListAmenitiesByCommunity(ctx, community.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Pool", list[0].Name)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	err := st.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, domain.User{
			ID: idx.New().String(), Email: "rollback@example.com", DisplayName: "x", PasswordHash: "x",
		}))
		return context.Canceled // any error triggers rollback
	})
	require.Error(t, err)

	_, err = st.Users().GetUserByEmail(ctx, "rollback@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)
}
