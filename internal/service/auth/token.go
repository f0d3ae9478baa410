package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/trm"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService issues HS256 access/refresh pairs. Refresh tokens are
// persisted by digest and rotated on every use.
type TokenService struct {
	users      UserRepo
	refresh    RefreshTokenRepo
	tx         trm.TxManager
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        logger.Logger
}

func NewTokenService(secret string, userRepo UserRepo, refreshRepo RefreshTokenRepo, txManager trm.TxManager, refreshTTL, accessTTL time.Duration, log logger.Logger) *TokenService {
	return &TokenService{
		users:      userRepo,
		refresh:    refreshRepo,
		tx:         txManager,
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        func() time.Time { return time.Now().UTC() },
		log:        log,
	}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// newClaims builds the claims of one token. Refresh tokens carry only the subject.
func newClaims(user *models.User, typ string, id uuid.UUID, issuedAt time.Time, ttl time.Duration) *models.CustomClaims {
	c := &models.CustomClaims{
		UserID:    user.ID,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
	}
	if typ == models.AccessToken {
		c.Username = user.Username
		c.Role = user.Role
	}
	return c
}

func (s *TokenService) sign(claims *models.CustomClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// GenerateTokens signs a new pair for user and stores the refresh token digest.
func (s *TokenService) GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	ctx = wrap.WithAction(ctx, "generate_tokens")
	if user == nil {
		return nil, wrap.Error(ctx, errors.New("user is nil"))
	}

	issuedAt := s.now()
	refreshID := uuid.New()

	access := newClaims(user, models.AccessToken, uuid.New(), issuedAt, s.accessTTL)
	accessToken, err := s.sign(access)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("sign access token: %w", err))
	}

	refresh := newClaims(user, models.RefreshToken, refreshID, issuedAt, s.refreshTTL)
	refreshToken, err := s.sign(refresh)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("sign refresh token: %w", err))
	}

	err = s.refresh.Save(ctx, &models.RefreshTokenRecord{
		ID:        refreshID,
		UserID:    user.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: refresh.ExpiresAt.Time,
		CreatedAt: issuedAt,
	})
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to persist refresh token: %w", err))
	}

	return &models.TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  access.ExpiresAt.Time,
		RefreshExpiresAt: refresh.ExpiresAt.Time,
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The presented token is
// revoked in the same transaction, so it can be used once.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.Validate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != models.RefreshToken {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	var pair *models.TokenPair
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		if err := s.consume(txCtx, claims.TokenID, refreshToken); err != nil {
			return err
		}

		user, err := s.users.GetUserByID(txCtx, claims.UserID)
		if err != nil {
			return fmt.Errorf("failed to load user for refresh token: %w", err)
		}
		if user == nil {
			return types.ErrUserNotFound
		}

		pair, err = s.GenerateTokens(txCtx, user)
		return err
	})
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return pair, nil
}

// consume checks the stored record of a refresh token and revokes it.
func (s *TokenService) consume(ctx context.Context, id uuid.UUID, token string) error {
	record, err := s.refresh.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load refresh token record: %w", err)
	}

	switch {
	case record == nil, record.Revoked, record.TokenHash != hashToken(token):
		return ErrInvalidToken
	case s.now().After(record.ExpiresAt):
		return ErrExpToken
	}

	if err := s.refresh.MarkUsed(ctx, record.ID); err != nil {
		return fmt.Errorf("failed to mark refresh token as used: %w", err)
	}
	return nil
}

// Validate checks the signature and expiry of token and returns its claims.
func (s *TokenService) Validate(ctx context.Context, token string) (*models.CustomClaims, error) {
	ctx = wrap.WithAction(ctx, "validate_token")

	claims := &models.CustomClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, wrap.Error(ctx, ErrExpToken)
	case err != nil:
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	if !models.IsValidTokenType(claims.TokenType) || claims.UserID == uuid.Nil {
		return nil, wrap.Error(ctx, ErrInvalidToken)
	}

	claims.TokenID, err = uuid.Parse(claims.ID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%w: bad 'jti' claim", ErrInvalidToken))
	}
	return claims, nil
}
