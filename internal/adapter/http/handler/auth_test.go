package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/internal/service/auth"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authServiceMock struct {
	mock.Mock
}

func (m *authServiceMock) Register(ctx context.Context, newUser *models.UserCreateRequest) (uuid.UUID, error) {
	args := m.Called(ctx, newUser)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}

func (m *authServiceMock) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	args := m.Called(ctx, username, password)
	p, _ := args.Get(0).(*models.TokenPair)
	return p, args.Error(1)
}

func (m *authServiceMock) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken)
	p, _ := args.Get(0).(*models.TokenPair)
	return p, args.Error(1)
}

func (m *authServiceMock) Authenticate(ctx context.Context, token string) (*models.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func TestAuth_Register(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		setup    func(m *authServiceMock)
		wantCode int
	}{
		{
			name:     "missing name",
			body:     `{"username":"alice","password":"secret1"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "short password",
			body:     `{"username":"alice","name":"Alice","password":"123"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "short username after trim",
			body:     `{"username":"  al ","name":"Alice","password":"secret1"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate username",
			body: `{"username":"alice","name":"Alice","password":"secret1"}`,
			setup: func(m *authServiceMock) {
				m.On("Register", mock.Anything, mock.Anything).
					Return(uuid.Nil, fmt.Errorf("create user: %w", types.ErrUserAlreadyExists))
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "created",
			body: `{"username":" alice ","name":"Alice","password":"secret1"}`,
			setup: func(m *authServiceMock) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(u *models.UserCreateRequest) bool {
					return u.Username == "alice"
				})).Return(uuid.New(), nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "username with space and symbols",
			body: `{"username":"Jane Doe","name":"Jane","password":"secret1"}`,
			setup: func(m *authServiceMock) {
				m.On("Register", mock.Anything, mock.MatchedBy(func(u *models.UserCreateRequest) bool {
					return u.Username == "Jane Doe"
				})).Return(uuid.New(), nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name: "email-like username",
			body: `{"username":"alice@uni.edu","name":"Alice","password":"secret1"}`,
			setup: func(m *authServiceMock) {
				m.On("Register", mock.Anything, mock.Anything).Return(uuid.New(), nil)
			},
			wantCode: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &authServiceMock{}
			if tt.setup != nil {
				tt.setup(svc)
			}
			rec := httptest.NewRecorder()

			NewAuth(svc, logger.Nop()).Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", stringsReader(tt.body)))

			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	t.Run("wrong credentials", func(t *testing.T) {
		svc := &authServiceMock{}
		svc.On("Login", mock.Anything, "alice", "nope").Return(nil, auth.ErrInvalidCredentials)
		rec := httptest.NewRecorder()

		NewAuth(svc, logger.Nop()).Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
			stringsReader(`{"username":"alice","password":"nope"}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid username or password", decodeBody(t, rec)["error"])
	})

	t.Run("tokens issued", func(t *testing.T) {
		svc := &authServiceMock{}
		svc.On("Login", mock.Anything, "alice", "secret1").Return(&models.TokenPair{
			AccessToken:      "access",
			RefreshToken:     "refresh",
			AccessExpiresAt:  time.Now().Add(time.Hour),
			RefreshExpiresAt: time.Now().Add(24 * time.Hour),
		}, nil)
		rec := httptest.NewRecorder()

		NewAuth(svc, logger.Nop()).Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login",
			stringsReader(`{"username":"alice","password":"secret1"}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "access", body["access_token"])
		assert.Equal(t, "refresh", body["refresh_token"])
	})
}

func TestAuth_Refresh_Rejected(t *testing.T) {
	svc := &authServiceMock{}
	svc.On("Refresh", mock.Anything, "used").Return(nil, auth.ErrInvalidToken)
	rec := httptest.NewRecorder()

	NewAuth(svc, logger.Nop()).Refresh(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh",
		stringsReader(`{"refresh_token":"used"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuth_Profile(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAuth(&authServiceMock{}, logger.Nop()).Profile(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewAuth(&authServiceMock{}, logger.Nop()).Profile(rec, authedRequest(http.MethodGet, "/auth/me", ""))

		require.Equal(t, http.StatusOK, rec.Code)
		user, ok := decodeBody(t, rec)["user"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "alice", user["username"])
		assert.NotContains(t, user, "password_hash")
	})
}
