package auth

import (
	"context"
	"testing"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestServices(t *testing.T) (*AuthService, *TokenService, *memUsers, *memTokens) {
	t.Helper()
	users := newMemUsers()
	tokens := newMemTokens()
	ts := NewTokenService(testSecret, users, tokens, inlineTx{}, time.Hour, 15*time.Minute, logger.Nop())
	return NewAuthService(users, ts, logger.Nop()), ts, users, tokens
}

func register(t *testing.T, svc *AuthService, username, password string) uuid.UUID {
	t.Helper()
	id, err := svc.Register(context.Background(), &models.UserCreateRequest{Username: username, Name: "Test", Password: password})
	require.NoError(t, err)
	return id
}

func TestAuthService_Register(t *testing.T) {
	svc, _, users, _ := newTestServices(t)

	id := register(t, svc, "alice", "secret1")
	stored, err := users.GetUserByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, types.UserRoleStudent.String(), stored.Role)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	_, err = svc.Register(context.Background(), &models.UserCreateRequest{Username: "alice", Name: "Other", Password: "secret2"})
	assert.ErrorIs(t, err, types.ErrUserAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	register(t, svc, "alice", "secret1")

	pair, err := svc.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	_, err = svc.Login(context.Background(), "alice", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Authenticate(t *testing.T) {
	svc, _, _, _ := newTestServices(t)
	id := register(t, svc, "alice", "secret1")
	pair, err := svc.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	user, err := svc.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)
	assert.Equal(t, "alice", user.Username)

	_, err = svc.Authenticate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh tokens are not accepted as access tokens")

	_, err = svc.Authenticate(context.Background(), "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshIsSingleUse(t *testing.T) {
	svc, _, _, tokens := newTestServices(t)
	register(t, svc, "alice", "secret1")
	pair, err := svc.Login(context.Background(), "alice", "secret1")
	require.NoError(t, err)

	next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken)
	assert.Len(t, tokens.records, 2)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Refresh(context.Background(), next.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_Validate(t *testing.T) {
	_, ts, _, _ := newTestServices(t)
	user := &models.User{ID: uuid.New(), Username: "alice", Role: types.UserRoleStudent.String()}

	t.Run("expired", func(t *testing.T) {
		claims := newClaims(user, models.AccessToken, uuid.New(), time.Now().Add(-time.Hour), time.Minute)
		token, err := ts.sign(claims)
		require.NoError(t, err)

		_, err = ts.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpToken)
	})

	t.Run("foreign secret", func(t *testing.T) {
		claims := newClaims(user, models.AccessToken, uuid.New(), time.Now(), time.Minute)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other"))
		require.NoError(t, err)

		_, err = ts.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("claims round trip", func(t *testing.T) {
		tokenID := uuid.New()
		token, err := ts.sign(newClaims(user, models.AccessToken, tokenID, time.Now(), time.Minute))
		require.NoError(t, err)

		claims, err := ts.Validate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, tokenID, claims.TokenID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, models.AccessToken, claims.TokenType)
	})

	t.Run("refresh claims omit profile", func(t *testing.T) {
		token, err := ts.sign(newClaims(user, models.RefreshToken, uuid.New(), time.Now(), time.Minute))
		require.NoError(t, err)

		claims, err := ts.Validate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, models.RefreshToken, claims.TokenType)
		assert.Empty(t, claims.Username)
	})

	t.Run("unknown token type", func(t *testing.T) {
		token, err := ts.sign(newClaims(user, "session", uuid.New(), time.Now(), time.Minute))
		require.NoError(t, err)

		_, err = ts.Validate(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", hashToken("hello"))
	assert.NotEqual(t, hashToken("a"), hashToken("b"))
}
