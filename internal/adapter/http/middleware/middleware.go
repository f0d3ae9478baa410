package middleware

import (
	"context"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
)

type (
	Authenticator interface {
		Authenticate(ctx context.Context, token string) (*models.User, error)
	}

	Middleware struct {
		auth Authenticator
		log  logger.Logger
	}
)

func NewMiddleware(auth Authenticator, log logger.Logger) *Middleware {
	return &Middleware{
		auth: auth,
		log:  log,
	}
}
