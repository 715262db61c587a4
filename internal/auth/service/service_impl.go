package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/auth/domain"
	"github.com/voozea/voozea/internal/auth/password"
	"github.com/voozea/voozea/internal/clock"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionTokenBytes = 32
	sessionTTL        = 30 * 24 * time.Hour

	minPasswordLength = 8
)

type Service struct {
	log         *zap.Logger
	db          *gorm.DB
	repo        domain.Repository
	sessionRepo domain.SessionRepository
	genID       *snowflake.Node
	clock       clock.Clock
}

func New(log *zap.Logger, conn *gorm.DB, repo domain.Repository, sessionRepo domain.SessionRepository, genID *snowflake.Node, clk clock.Clock) domain.Service {
	return &Service{
		log:         log.Named("auth.service"),
		db:          conn,
		repo:        repo,
		sessionRepo: sessionRepo,
		genID:       genID,
		clock:       clk,
	}
}

// Signup creates the user, its profile and its entity row in one transaction
// and opens a session so the caller is signed in immediately.
func (s *Service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.AuthResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if len(strings.TrimSpace(req.Password)) < minPasswordLength {
		return nil, domain.ErrWeakPassword
	}

	rawUsername := strings.TrimSpace(req.Username)
	if rawUsername == "" {
		rawUsername = emailLocalPart(email)
	}
	username, err := profiledomain.NormalizeUsername(rawUsername)
	if err != nil {
		return nil, domain.ErrInvalidUsername
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = username
	}

	user := &domain.User{
		ID:                  s.genID.Generate(),
		Email:               email,
		PasswordHash:        hashed,
		LastPasswordChanged: &now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.repo.WithTx(tx).FindByEmail(ctx, email); err == nil {
			return domain.ErrEmailTaken
		} else if !errors.Is(err, domain.ErrUserNotFound) {
			return err
		}

		var taken int64
		if err := tx.Model(&profiledomain.Profile{}).Where("username = ?", username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return domain.ErrUsernameTaken
		}

		if err := s.repo.WithTx(tx).Create(ctx, user); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrEmailTaken
			}
			return err
		}

		profile := &profiledomain.Profile{
			ID:          user.ID,
			Username:    username,
			DisplayName: displayName,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(profile).Error; err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrUsernameTaken
			}
			return err
		}

		record := &entitydomain.EntityRecord{
			ID:         user.ID,
			EntityType: entitydomain.EntityTypeUser,
			CreatedAt:  now,
		}
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID.String()))
	return s.openSession(ctx, user.ID, req.UserAgent, req.IPAddress)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if strings.TrimSpace(req.Password) == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return s.openSession(ctx, user.ID, req.UserAgent, req.IPAddress)
}

func (s *Service) Logout(ctx context.Context, rawToken string) error {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.ErrInvalidSession
		}
		return err
	}

	return s.sessionRepo.RevokeSession(ctx, session.ID, s.clock.Now())
}

func (s *Service) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	token := strings.TrimSpace(rawToken)
	if token == "" {
		return nil, domain.ErrInvalidSession
	}

	session, err := s.sessionRepo.GetSessionByTokenHash(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, err
	}

	now := s.clock.Now()
	if session.RevokedAt != nil {
		return nil, domain.ErrSessionRevoked
	}
	if now.After(session.ExpiresAt) {
		return nil, domain.ErrSessionExpired
	}

	if err := s.sessionRepo.UpdateLastSeen(ctx, session.ID, now); err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID snowflake.ID, currentPassword, newPassword string) error {
	if len(strings.TrimSpace(newPassword)) < minPasswordLength {
		return domain.ErrWeakPassword
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !password.Verify(currentPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	hashed, err := password.Hash(newPassword)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	return s.repo.UpdateFields(ctx, userID, map[string]any{
		"password_hash":         hashed,
		"last_password_changed": &now,
		"updated_at":            now,
	})
}

func (s *Service) openSession(ctx context.Context, userID snowflake.ID, userAgent, ipAddress string) (*domain.AuthResult, error) {
	rawToken, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	session := &domain.Session{
		ID:               s.genID.Generate(),
		UserID:           userID,
		SessionTokenHash: hashToken(rawToken),
		UserAgent:        strings.TrimSpace(userAgent),
		IPAddress:        strings.TrimSpace(ipAddress),
		ExpiresAt:        now.Add(sessionTTL),
		CreatedAt:        now,
		LastSeenAt:       now,
	}
	if err := s.sessionRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &domain.AuthResult{
		UserID:    userID,
		RawToken:  rawToken,
		ExpiresAt: session.ExpiresAt,
		SessionID: session.ID,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(addr.Address)), nil
}

func emailLocalPart(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) > 0 {
		return parts[0]
	}
	return email
}

func newSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
