package dto

import (
	"time"

	"github.com/Temutjin2k/studylens-dashboard/internal/domain/models"
	"github.com/Temutjin2k/studylens-dashboard/pkg/validator"
)

type RegisterUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (r *RegisterUserRequest) ToModel() *models.UserCreateRequest {
	req := &models.UserCreateRequest{
		Username: r.Username,
		Name:     r.Name,
		Password: r.Password,
	}
	req.Normalize()
	return req
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

func NewTokenResponse(p *models.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		AccessExpiresAt:  p.AccessExpiresAt,
		RefreshExpiresAt: p.RefreshExpiresAt,
	}
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Check(req.Username != "", "username", "must be provided")
	v.Check(req.Password != "", "password", "must be provided")
}

func ValidateRefreshToken(v *validator.Validator, req *RefreshTokenRequest) {
	v.Check(req.RefreshToken != "", "refresh_token", "must be provided")
}

// AuthWebSocketReq is the first frame a live feed client must send.
type AuthWebSocketReq struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}
