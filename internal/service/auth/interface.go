package auth

import (
	"context"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/google/uuid"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *models.User) (uuid.UUID, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type RefreshTokenRepo interface {
	Save(ctx context.Context, record *models.RefreshTokenRecord) error
	Get(ctx context.Context, tokenID uuid.UUID) (*models.RefreshTokenRecord, error)
	MarkUsed(ctx context.Context, tokenID uuid.UUID) error
}

type TokenProvider interface {
	GenerateTokens(ctx context.Context, user *models.User) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Validate(ctx context.Context, token string) (*models.CustomClaims, error)
}
