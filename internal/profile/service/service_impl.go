package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/cache"
	"github.com/voozea/voozea/internal/clock"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/internal/profile/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSuggestedLimit = 10
	maxSuggestedLimit     = 50

	recentActivityWindow = 7 * 24 * time.Hour
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        domain.Repository
	Clock       clock.Clock
	Projections cache.EntityProjectionCache
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	clock       clock.Clock
	projections cache.EntityProjectionCache
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("profile.service"),
		repo:        p.Repo,
		clock:       p.Clock,
		projections: p.Projections,
	}
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Profile, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	normalized, err := domain.NormalizeUsername(username)
	if err != nil {
		return nil, domain.ErrProfileNotFound
	}
	return s.repo.GetByUsername(ctx, normalized)
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProfileRequest) (*domain.Profile, error) {
	fields := map[string]any{}

	if req.Username != nil {
		username, err := domain.NormalizeUsername(*req.Username)
		if err != nil {
			return nil, err
		}
		taken, err := s.repo.UsernameTaken(ctx, username, req.UserID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrUsernameTaken
		}
		fields["username"] = username
	}
	if req.DisplayName != nil {
		fields["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Bio != nil {
		fields["bio"] = strings.TrimSpace(*req.Bio)
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now()
		if err := s.repo.UpdateFields(ctx, req.UserID, fields); err != nil {
			return nil, err
		}
		s.projections.Invalidate(entitydomain.EntityTypeUser, req.UserID)
	}

	return s.repo.Get(ctx, req.UserID)
}

func (s *Service) CompleteOnboarding(ctx context.Context, userID snowflake.ID) error {
	return s.repo.UpdateFields(ctx, userID, map[string]any{
		"onboarding_completed": true,
		"onboarding_skipped":   false,
		"updated_at":           s.clock.Now(),
	})
}

func (s *Service) SkipOnboarding(ctx context.Context, userID snowflake.ID) error {
	return s.repo.UpdateFields(ctx, userID, map[string]any{
		"onboarding_skipped": true,
		"updated_at":         s.clock.Now(),
	})
}

func (s *Service) SuggestedUsers(ctx context.Context, req domain.SuggestedUsersRequest) ([]domain.SuggestedUser, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSuggestedLimit
	}
	if limit > maxSuggestedLimit {
		limit = maxSuggestedLimit
	}

	since := s.clock.Now().Add(-recentActivityWindow)
	return s.repo.Suggested(ctx, req.UserID, since, limit)
}
