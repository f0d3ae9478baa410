package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/Temutjin2k/studylens-dashboard/pkg/logger"
	wrap "github.com/Temutjin2k/studylens-dashboard/pkg/logger/wrapper"
	"github.com/Temutjin2k/studylens-dashboard/pkg/metrics"
	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
)

// ValidationError carries per-field messages for a rejected record.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", types.ErrInvalidSession, e.Errors)
}

func (e *ValidationError) Unwrap() error {
	return types.ErrInvalidSession
}

type Config struct {
	TrendSize  int
	RecentSize int
}

type Service struct {
	repo     SessionRepo
	remote   RemoteSource
	users    UserRepo
	notifier Notifier
	cfg      Config
	now      func() time.Time
	l        logger.Logger
}

type Option func(*Service)

// WithRemote enables the remote-first read path.
func WithRemote(remote RemoteSource) Option {
	return func(s *Service) {
		s.remote = remote
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(repo SessionRepo, users UserRepo, cfg Config, l logger.Logger, opts ...Option) *Service {
	if cfg.TrendSize <= 0 {
		cfg.TrendSize = 10
	}
	if cfg.RecentSize <= 0 {
		cfg.RecentSize = 5
	}

	s := &Service{
		repo:  repo,
		users: users,
		cfg:   cfg,
		now:   time.Now,
		l:     l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores a validated record for user and announces it.
func (s *Service) Create(ctx context.Context, user *models.User, req *models.SessionCreateRequest, channel string) (*models.StudySession, error) {
	ctx = wrap.WithAction(wrap.WithUserID(ctx, user.ID.String()), types.ActionSessionCreated)

	session := req.ToSession(user.ID, user.Username, s.now())
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to save session: %w", err))
	}
	metrics.SessionsIngestedTotal.WithLabelValues(channel).Inc()

	ctx = wrap.WithSessionID(ctx, session.ID)
	s.l.Info(ctx, "study session saved", "channel", channel)

	s.announce(ctx, *session)
	return session, nil
}

// announce is best-effort: a failed publish never fails the ingestion.
func (s *Service) announce(ctx context.Context, session models.StudySession) {
	if s.notifier == nil {
		return
	}

	event := models.SessionCreatedEvent{
		UserID:     session.OwnerID,
		Session:    session,
		OccurredAt: s.now().UTC(),
	}
	if err := s.notifier.PublishSessionCreated(ctx, event); err != nil {
		s.l.Warn(wrap.WithAction(ctx, types.ActionEventPublishFail), "failed to announce session", "error", err.Error())
	}
}

// Ingest validates and stores a record that arrived through the broker.
func (s *Service) Ingest(ctx context.Context, msg *models.IngestMessage) (*models.StudySession, error) {
	ctx = wrap.WithAction(ctx, types.ActionIngestMessage)

	v := validator.New()
	v.Struct(msg)
	if !v.Valid() {
		return nil, wrap.Error(ctx, &ValidationError{Errors: v.Errors})
	}

	user, err := s.users.GetUserByUsername(ctx, msg.Username)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to load user: %w", err))
	}
	if user == nil {
		return nil, wrap.Error(ctx, types.ErrUserNotFound)
	}

	return s.Create(ctx, user, &msg.SessionCreateRequest, types.ChannelQueue)
}

// List returns the user's sessions, preferring the remote source.
// Any remote failure falls back to the local store.
func (s *Service) List(ctx context.Context, user *models.User) (*models.SessionListing, error) {
	ctx = wrap.WithAction(wrap.WithUserID(ctx, user.ID.String()), types.ActionSessionListed)

	if s.remote != nil {
		sessions, err := s.fetchRemote(ctx, user)
		if err == nil {
			metrics.RecordSessionListing(metrics.SourceRemote, false)
			return &models.SessionListing{Source: types.SourceRemote, Sessions: sessions}, nil
		}
		s.l.Warn(wrap.WithAction(ctx, types.ActionRemoteFallback), "remote sessions unavailable, using local store", "error", err.Error())
	}

	sessions, err := s.repo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("failed to list local sessions: %w", err))
	}
	metrics.RecordSessionListing(metrics.SourceLocal, s.remote != nil)

	return &models.SessionListing{Source: types.SourceLocal, Sessions: sessions}, nil
}

func (s *Service) fetchRemote(ctx context.Context, user *models.User) ([]models.StudySession, error) {
	all, err := s.remote.FetchAll(ctx)
	if err != nil {
		return nil, errors.Join(types.ErrRemoteUnavailable, err)
	}

	owned := make([]models.StudySession, 0, len(all))
	for _, sess := range all {
		if sess.Username == user.Username {
			owned = append(owned, sess)
		}
	}
	return owned, nil
}

// Dashboard computes every dashboard panel from the user's listing.
func (s *Service) Dashboard(ctx context.Context, user *models.User) (*models.Dashboard, error) {
	listing, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}
	return BuildDashboard(listing, s.cfg.TrendSize, s.cfg.RecentSize), nil
}

// Log returns one sorted page of the user's sessions. Filters must already be validated.
func (s *Service) Log(ctx context.Context, user *models.User, f models.Filters) (*models.SessionLog, error) {
	listing, err := s.List(ctx, user)
	if err != nil {
		return nil, err
	}

	page, meta := Paginate(SortSessions(listing.Sessions, f), f)
	return &models.SessionLog{
		Source:   listing.Source.String(),
		Sessions: page,
		Metadata: meta,
	}, nil
}
