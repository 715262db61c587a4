package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResult, error)
	Logout(ctx context.Context, rawToken string) error
	Authenticate(ctx context.Context, rawToken string) (*Session, error)
	ChangePassword(ctx context.Context, userID snowflake.ID, currentPassword, newPassword string) error
}

type SignupRequest struct {
	Email       string
	Username    string
	Password    string
	DisplayName string
	UserAgent   string
	IPAddress   string
}

type LoginRequest struct {
	Email     string
	Password  string
	UserAgent string
	IPAddress string
}

// AuthResult carries the session token handed to the cookie manager. The raw
// token is never persisted; only its hash is.
type AuthResult struct {
	UserID    snowflake.ID
	RawToken  string
	ExpiresAt time.Time
	SessionID snowflake.ID
}
