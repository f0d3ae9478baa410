package auth

import (
	"context"
	"sync"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/internal/domain/types"
	"github.com/google/uuid"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*models.User)}
}

func (m *memUsers) CreateUser(_ context.Context, u *models.User) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return uuid.UUID{}, types.ErrUserAlreadyExists
		}
	}
	u.ID = uuid.New()
	cp := *u
	m.users[u.ID] = &cp
	return u.ID, nil
}

func (m *memUsers) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

type memTokens struct {
	mu      sync.Mutex
	records map[uuid.UUID]models.RefreshTokenRecord
}

func newMemTokens() *memTokens {
	return &memTokens{records: make(map[uuid.UUID]models.RefreshTokenRecord)}
}

func (m *memTokens) Save(_ context.Context, r *models.RefreshTokenRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.ID] = *r
	return nil
}

func (m *memTokens) Get(_ context.Context, id uuid.UUID) (*models.RefreshTokenRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.records[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *memTokens) MarkUsed(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.records[id]
	r.Revoked = true
	m.records[id] = r
	return nil
}

// inlineTx runs fn without a database transaction.
type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (inlineTx) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
