package errors

import (
	"errors"
)

var (
	ErrEmailAlreadyInUse   = errors.New("email already in use")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrForbidden           = errors.New("forbidden")
)
