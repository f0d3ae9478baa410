package auth

import (
	"context"
	"errors"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/passhash"
	"github.com/google/uuid"
)

type AuthService struct {
	userRepo     UserRepo
	tokenService TokenProvider
	log          logger.Logger
}

func NewAuthService(userRepo UserRepo, tokenService TokenProvider, log logger.Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenService: tokenService,
		log:          log,
	}
}

// Login checks the credentials and issues a token pair.
// Unknown usernames and wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, types.ActionUserLoggedIn)

	user, err := s.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		s.log.Error(ctx, "failed to load user", err)
		return nil, ErrUnexpected
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if ok, err := passhash.VerifyPassword(password, user.PasswordHash); err != nil || !ok {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.tokenService.GenerateTokens(ctx, user)
	if err != nil {
		s.log.Error(wrap.ErrorCtx(ctx, err), "failed to generate tokens", err)
		return nil, ErrTokenGenerateFail
	}

	s.log.Info(wrap.WithUserID(ctx, user.ID.String()), "user logged in")
	return tokens, nil
}

// Register creates a student account.
func (s *AuthService) Register(ctx context.Context, req *models.UserCreateRequest) (uuid.UUID, error) {
	ctx = wrap.WithAction(ctx, types.ActionUserRegistered)

	existing, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error(ctx, "failed to check username", err)
		return uuid.UUID{}, ErrUnexpected
	}
	if existing != nil {
		return uuid.UUID{}, types.ErrUserAlreadyExists
	}

	hash, err := passhash.HashPassword(req.Password)
	if err != nil {
		s.log.Error(ctx, "failed to generate hash from password", err)
		return uuid.UUID{}, ErrUnexpected
	}

	user := models.User{
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         types.UserRoleStudent.String(),
	}

	id, err := s.userRepo.CreateUser(ctx, &user)
	if err != nil {
		// a concurrent registration may win the unique index
		if errors.Is(err, types.ErrUserAlreadyExists) {
			return uuid.UUID{}, err
		}
		s.log.Error(ctx, "failed to save user", err)
		return uuid.UUID{}, ErrUnexpected
	}

	s.log.Info(wrap.WithUserID(ctx, id.String()), "user registered")
	return id, nil
}

// Refresh rotates a refresh token into a new pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	pair, err := s.tokenService.Refresh(wrap.WithAction(ctx, types.ActionTokensRefreshed), refreshToken)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrExpToken) || errors.Is(err, types.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return pair, nil
}

// Authenticate resolves an access token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokenService.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != models.AccessToken {
		return nil, ErrInvalidToken
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}
	return user, nil
}
