package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	pg "github.com/Temutjin2k/studylens-dashboard/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepo(db *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{
		db: db,
	}
}

// createSessionError reports a missing owner as types.ErrUserNotFound.
func createSessionError(ownerID uuid.UUID, err error) error {
	if pg.IsForeignKeyViolation(err) {
		return fmt.Errorf("session owner %s: %w", ownerID, types.ErrUserNotFound)
	}
	return err
}

// Create inserts s and fills its id and created_at.
func (r *SessionRepo) Create(ctx context.Context, s *models.StudySession) (err error) {
	defer func(start time.Time) { observe("session_create", start, err) }(time.Now())

	if s == nil {
		return errors.New("nil session")
	}

	const q = `
		INSERT INTO study_sessions (
			owner_id, timestamp, total_duration_sec, focused_time_sec, wasted_time_sec,
			drowsy_time_sec, max_attention_span_sec, avg_attention_span_sec, wasted_percentage
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at;
	`

	var id uuid.UUID
	err = TxorDB(ctx, r.db).QueryRow(ctx, q,
		s.OwnerID,
		s.Timestamp,
		s.TotalDurationSec,
		s.FocusedTimeSec,
		s.WastedTimeSec,
		s.DrowsyTimeSec,
		s.MaxAttentionSpanSec,
		s.AvgAttentionSpanSec,
		s.WastedPercentage,
	).Scan(&id, &s.CreatedAt)
	if err != nil {
		return createSessionError(s.OwnerID, err)
	}

	s.ID = id.String()
	return nil
}

// ListByOwner returns the owner's sessions, newest first.
func (r *SessionRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) (sessions []models.StudySession, err error) {
	defer func(start time.Time) { observe("session_list_by_owner", start, err) }(time.Now())

	const q = `
		SELECT s.id, s.owner_id, u.username, s.timestamp, s.total_duration_sec, s.focused_time_sec,
		       s.wasted_time_sec, s.drowsy_time_sec, s.max_attention_span_sec,
		       s.avg_attention_span_sec, s.wasted_percentage, s.created_at
		FROM study_sessions s
		JOIN users u ON u.id = s.owner_id
		WHERE s.owner_id = $1
		ORDER BY s.timestamp DESC, s.created_at DESC;
	`

	rows, err := TxorDB(ctx, r.db).Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}

	sessions, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.StudySession, error) {
		var (
			s  models.StudySession
			id uuid.UUID
		)
		err := row.Scan(
			&id,
			&s.OwnerID,
			&s.Username,
			&s.Timestamp,
			&s.TotalDurationSec,
			&s.FocusedTimeSec,
			&s.WastedTimeSec,
			&s.DrowsyTimeSec,
			&s.MaxAttentionSpanSec,
			&s.AvgAttentionSpanSec,
			&s.WastedPercentage,
			&s.CreatedAt,
		)
		s.ID = id.String()
		return s, err
	})
	if err != nil {
		return nil, err
	}

	if sessions == nil {
		sessions = []models.StudySession{}
	}
	return sessions, nil
}

// CountByOwner is used by the seeder to skip users that already have data.
func (r *SessionRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (n int, err error) {
	defer func(start time.Time) { observe("session_count_by_owner", start, err) }(time.Now())

	err = TxorDB(ctx, r.db).QueryRow(ctx, `SELECT count(*) FROM study_sessions WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}
