package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dbautista/palomitas/internal/domain/errs"
	"github.com/dbautista/palomitas/internal/domain/models"
	"github.com/dbautista/palomitas/internal/repository/memory"
)

const testPassword = "palomitas-2026"

func newService(t *testing.T, ttl time.Duration) (*Service, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, repo.InsertProfile(context.Background(), models.Profile{
		ID:           "admin-1",
		Role:         models.RoleAdmin,
		Name:         "Daniela",
		Email:        "daniela@palomitas.mx",
		PasswordHash: string(hash),
	}))

	return NewService(repo, ttl, nil), repo
}

func TestSignIn(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	session, err := svc.SignIn(context.Background(), "daniela@palomitas.mx", testPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "admin-1", session.Actor.ID)
	assert.Equal(t, models.RoleAdmin, session.Actor.Role)

	actor, err := svc.Resolve(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Actor, actor)
}

func TestSignInEmailIsCaseInsensitive(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	_, err := svc.SignIn(context.Background(), "DANIELA@palomitas.mx", testPassword)
	assert.NoError(t, err)
}

func TestSignInInvalidCredentials(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.SignIn(context.Background(), "daniela@palomitas.mx", "nope")
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})

	t.Run("unknown email looks identical", func(t *testing.T) {
		_, err := svc.SignIn(context.Background(), "nadie@palomitas.mx", testPassword)
		assert.ErrorIs(t, err, errs.ErrInvalidCredentials)
	})
}

func TestResolveUnknownToken(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	_, err := svc.Resolve("")
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)

	_, err = svc.Resolve("not-a-token")
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
}

func TestResolveExpiredTokenForcesSignOut(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	session, err := svc.SignIn(context.Background(), "daniela@palomitas.mx", testPassword)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = svc.Resolve(session.Token)
	require.True(t, errs.IsSessionExpired(err))

	// The expired session was removed; the token is now simply unknown.
	svc.now = time.Now
	_, err = svc.Resolve(session.Token)
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
}

func TestRefreshExtendsDeadline(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	session, err := svc.SignIn(context.Background(), "daniela@palomitas.mx", testPassword)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(30 * time.Minute) }
	refreshed, err := svc.Refresh(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Token, refreshed.Token)
	assert.True(t, refreshed.ExpiresAt.After(session.ExpiresAt))
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	session, err := svc.SignIn(context.Background(), "daniela@palomitas.mx", testPassword)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Refresh(session.Token)
	assert.True(t, errs.IsSessionExpired(err))
}

func TestSignOut(t *testing.T) {
	svc, _ := newService(t, time.Hour)

	session, err := svc.SignIn(context.Background(), "daniela@palomitas.mx", testPassword)
	require.NoError(t, err)

	svc.SignOut(session.Token)
	_, err = svc.Resolve(session.Token)
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)

	svc.SignOut("unknown") // no-op
}
