package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation              = errors.New("validation error")
	ErrDuplicateEmail          = errors.New("email already registered")
	ErrDirectoryRecordNotFound = errors.New("directory record not found")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrForbidden               = errors.New("forbidden")
	ErrUnauthorizedDomain      = errors.New("unauthorized email domain")
	ErrTokenExchangeFailed     = errors.New("token exchange failed")
	ErrMissingIDToken          = errors.New("missing id_token")
	ErrPersistence             = errors.New("persistence error")
	ErrRateLimited             = errors.New("rate limited")
	ErrUserNotFound            = errors.New("user not found")
)

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
