package models

import (
	"context"
	"strings"
	"time"

	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
	"github.com/google/uuid"
)

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Name     string `json:"name" validate:"required,max=128"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Normalize trims surrounding whitespace from the identity fields.
func (r *UserCreateRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Name = strings.TrimSpace(r.Name)
}

// Validate checks lengths only. Usernames are matched verbatim against remote
// records, so any characters are accepted.
func (r *UserCreateRequest) Validate(v *validator.Validator) {
	v.Struct(r)
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

type contextKey string

const userContextKey = contextKey("user")

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the user stored by WithUser, or AnonymousUser.
func UserFromContext(ctx context.Context) *User {
	user, ok := ctx.Value(userContextKey).(*User)
	if !ok || user == nil {
		return AnonymousUser
	}
	return user
}
