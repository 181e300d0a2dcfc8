package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Tomlord1122/project-backend/internal/auth"
	"github.com/Tomlord1122/project-backend/internal/domain"
	"github.com/Tomlord1122/project-backend/internal/logger"
)

type authFixture struct {
	auth  AuthService
	users UserService
	store *memStore
	now   time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{store: newMemStore(), now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	hasher := auth.NewBcryptHasher(bcrypt.MinCost)
	tokens, err := auth.NewTokenService("secret", 30*time.Minute, auth.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)

	f.auth, err = NewAuthService(memUserRepo{f.store}, hasher, tokens, logger.Discard())
	require.NoError(t, err)
	f.users = NewUserService(memUserRepo{f.store}, hasher, logger.Discard())

	_, err = f.users.Register(context.Background(), CreateUserRequest{Name: "A", Email: "a@x.com", Password: "p"})
	require.NoError(t, err)
	return f
}

func TestLogin_IssuesTokenForSameUser(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token, err := f.auth.Login(ctx, "A@x.com ", "p")
	require.NoError(t, err)
	assert.Equal(t, "bearer", token.TokenType)
	assert.NotEmpty(t, token.AccessToken)

	user, err := f.auth.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, uint(1), user.ID)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, wrongPassword := f.auth.Login(ctx, "a@x.com", "nope")
	_, unknownEmail := f.auth.Login(ctx, "b@x.com", "p")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	token, err := f.auth.Login(ctx, "a@x.com", "p")
	require.NoError(t, err)

	f.now = f.now.Add(31 * time.Minute)
	user, err := f.auth.Authenticate(ctx, token.AccessToken)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestAuthenticate_Failures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.auth.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.ErrorIs(t, err, auth.ErrTokenInvalid)

	// A correctly signed token for an email that has no account.
	tokens, err := auth.NewTokenService("secret", 30*time.Minute, auth.WithClock(func() time.Time { return f.now }))
	require.NoError(t, err)
	ghost, _, err := tokens.Issue("ghost@x.com")
	require.NoError(t, err)

	_, err = f.auth.Authenticate(ctx, ghost)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
