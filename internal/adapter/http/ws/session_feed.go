package wshandler

import (
	"context"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	ws "github.com/Temutjin2k/studylens-dashboard/pkg/wsHub"
	"github.com/google/uuid"
)

type hub interface {
	SendToOwner(ctx context.Context, ownerID uuid.UUID, msg any) int
}

// SessionFeed pushes stored sessions to their owner's live connections.
type SessionFeed struct {
	connections hub
	l           logger.Logger
}

func NewSessionFeed(connHub *ws.ConnectionHub, l logger.Logger) *SessionFeed {
	return &SessionFeed{
		connections: connHub,
		l:           l,
	}
}

// Relay delivers one event to every connection of its owner.
func (f *SessionFeed) Relay(ctx context.Context, event models.SessionCreatedEvent) {
	session := event.Session
	delivered := f.connections.SendToOwner(ctx, event.UserID, models.FeedMessage{
		Type:    models.FeedMessageSessionCreated,
		Session: &session,
	})

	if delivered > 0 {
		ctx = wrap.WithSessionID(wrap.WithUserID(wrap.WithAction(ctx, types.ActionSessionCreated), event.UserID.String()), session.ID)
		f.l.Debug(ctx, "session relayed to live feed", "connections", delivered)
	}
}

// PublishSessionCreated lets the feed act as the notifier when no broker is configured.
func (f *SessionFeed) PublishSessionCreated(ctx context.Context, event models.SessionCreatedEvent) error {
	f.Relay(ctx, event)
	return nil
}
