package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenGenerateFail  = errors.New("failed to generate token")
	ErrUnexpected         = errors.New("unexpected error")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpToken           = errors.New("expired token")
)
