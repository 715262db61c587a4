package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUserNotFound       = errors.New("user_not_found")
	ErrEmailTaken         = errors.New("email_taken")
	ErrUsernameTaken      = errors.New("username_taken")
	ErrInvalidUsername    = errors.New("invalid_username")
	ErrWeakPassword       = errors.New("weak_password")
	ErrSessionNotFound    = errors.New("session_not_found")
	ErrSessionExpired     = errors.New("session_expired")
	ErrSessionRevoked     = errors.New("session_revoked")
	ErrInvalidSession     = errors.New("invalid_session")
)
