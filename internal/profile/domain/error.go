package domain

import "errors"

var (
	ErrProfileNotFound = errors.New("profile_not_found")
	ErrInvalidUsername = errors.New("invalid_username")
	ErrUsernameTaken   = errors.New("username_taken")
)
