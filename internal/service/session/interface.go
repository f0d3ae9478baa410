package session

import (
	"context"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/google/uuid"
)

type SessionRepo interface {
	Create(ctx context.Context, s *models.StudySession) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.StudySession, error)
}

// RemoteSource returns the full listing of the upstream sessions service.
type RemoteSource interface {
	FetchAll(ctx context.Context) ([]models.StudySession, error)
}

type UserRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// Notifier announces stored sessions to interested parties.
type Notifier interface {
	PublishSessionCreated(ctx context.Context, event models.SessionCreatedEvent) error
}
