package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	pg "github.com/Temutjin2k/studylens-dashboard/pkg/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepo struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepo {
	return &UserRepo{
		db: db,
	}
}

// CreateUser inserts a user row. It expects Username, Name, Role and PasswordHash to be set.
func (r *UserRepo) CreateUser(ctx context.Context, u *models.User) (id uuid.UUID, err error) {
	defer func(start time.Time) { observe("user_create", start, err) }(time.Now())

	if u == nil {
		return uuid.UUID{}, errors.New("nil user")
	}

	const q = `
		INSERT INTO users (username, name, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;
	`

	err = TxorDB(ctx, r.db).QueryRow(ctx, q, u.Username, u.Name, u.Role, u.PasswordHash).
		Scan(&id, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return uuid.UUID{}, types.ErrUserAlreadyExists
		}
		return uuid.UUID{}, err
	}

	u.ID = id
	return id, nil
}

// GetUserByUsername returns nil, nil when no user matches.
func (r *UserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const q = `
		SELECT id, username, name, role, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1;
	`
	return r.getOne(ctx, "user_get_by_username", q, username)
}

// GetUserByID returns nil, nil when no user matches.
func (r *UserRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const q = `
		SELECT id, username, name, role, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1;
	`
	return r.getOne(ctx, "user_get_by_id", q, id)
}

func (r *UserRepo) getOne(ctx context.Context, op, q string, arg any) (user *models.User, err error) {
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	var u models.User
	err = TxorDB(ctx, r.db).QueryRow(ctx, q, arg).Scan(
		&u.ID,
		&u.Username,
		&u.Name,
		&u.Role,
		&u.PasswordHash,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
