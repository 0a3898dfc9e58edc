package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCPFTaken           = errors.New("user already registered with this cpf")
	ErrEmailTaken         = errors.New("email already registered")
	ErrIncorrectPassword  = errors.New("incorrect password")
	ErrEmployeeInactive   = errors.New("employee inactive")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenMissing       = errors.New("token not provided")
	ErrMissingCredentials = errors.New("cpf and password are required")
	ErrProfileMissing     = errors.New("user has no tutor or employee profile")
)

// ValidationError carries the ordered list of messages produced by the
// registration validators.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}
