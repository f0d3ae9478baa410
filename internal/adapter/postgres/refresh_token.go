package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefreshTokenRepo struct {
	db *pgxpool.Pool
}

func NewRefreshTokenRepo(db *pgxpool.Pool) *RefreshTokenRepo {
	return &RefreshTokenRepo{db: db}
}

func (r *RefreshTokenRepo) Save(ctx context.Context, record *models.RefreshTokenRecord) (err error) {
	defer func(start time.Time) { observe("refresh_token_save", start, err) }(time.Now())

	if record == nil {
		return errors.New("refresh token record is nil")
	}

	const q = `
		INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at)
		VALUES ($1, $2, $3, $4, false, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			token_hash = EXCLUDED.token_hash,
			expires_at = EXCLUDED.expires_at,
			revoked = false,
			last_used_at = NULL;
	`

	_, err = TxorDB(ctx, r.db).Exec(ctx, q, record.ID, record.UserID, record.TokenHash, record.ExpiresAt, record.CreatedAt)
	return err
}

// Get locks the row for the rest of the transaction. It returns nil, nil when the token is unknown.
func (r *RefreshTokenRepo) Get(ctx context.Context, tokenID uuid.UUID) (rec *models.RefreshTokenRecord, err error) {
	defer func(start time.Time) { observe("refresh_token_get", start, err) }(time.Now())

	const q = `
		SELECT id, user_id, token_hash, expires_at, revoked, created_at, last_used_at
		FROM refresh_tokens
		WHERE id = $1
		FOR UPDATE;
	`

	var record models.RefreshTokenRecord
	err = TxorDB(ctx, r.db).QueryRow(ctx, q, tokenID).Scan(
		&record.ID,
		&record.UserID,
		&record.TokenHash,
		&record.ExpiresAt,
		&record.Revoked,
		&record.CreatedAt,
		&record.LastUsed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if record.LastUsed != nil {
		ts := record.LastUsed.UTC()
		record.LastUsed = &ts
	}
	return &record, nil
}

func (r *RefreshTokenRepo) MarkUsed(ctx context.Context, tokenID uuid.UUID) (err error) {
	defer func(start time.Time) { observe("refresh_token_mark_used", start, err) }(time.Now())

	const q = `
		UPDATE refresh_tokens
		SET revoked = true,
		    last_used_at = $2
		WHERE id = $1;
	`

	_, err = TxorDB(ctx, r.db).Exec(ctx, q, tokenID, time.Now().UTC())
	return err
}
