package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	RefreshToken = "refresh"
	AccessToken  = "access"
)

func IsValidTokenType(typ string) bool {
	return typ == AccessToken || typ == RefreshToken
}

type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshToken     string    `json:"refresh_token"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// CustomClaims is the JWT payload. TokenID mirrors the parsed jti claim.
type CustomClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenID   uuid.UUID `json:"-"`
	TokenType string    `json:"typ"`
	Username  string    `json:"username,omitempty"`
	Role      string    `json:"role,omitempty"`
	jwt.RegisteredClaims
}

type RefreshTokenRecord struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
	LastUsed  *time.Time
}
