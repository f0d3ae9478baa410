package types

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("username already exists")

	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session record")

	ErrRemoteUnavailable = errors.New("remote sessions source unavailable")
	ErrNotFound          = errors.New("requested item not found")
)
