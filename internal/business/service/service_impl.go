package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/voozea/voozea/internal/business/domain"
	"github.com/voozea/voozea/internal/cache"
	"github.com/voozea/voozea/internal/clock"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	slugMinLen = 3
	slugMaxLen = 60

	claimReasonMinLen = 10

	slugProbeLimit = 50
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	ProfileRepo   profiledomain.Repository
	Clock         clock.Clock
	Notifications notificationdomain.Service
	Projections   cache.EntityProjectionCache
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	profiles      profiledomain.Repository
	clock         clock.Clock
	notifications notificationdomain.Service
	projections   cache.EntityProjectionCache
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("business.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		profiles:      p.ProfileRepo,
		clock:         p.Clock,
		notifications: p.Notifications,
		projections:   p.Projections,
	}
}

// Create registers a business with the creator as owner. The business, its
// entity row and the creator's owner flag are written in one transaction.
func (s *Service) Create(ctx context.Context, req domain.CreateBusinessRequest) (*domain.Business, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	now := s.clock.Now()
	ownerID := req.CreatorID
	business := &domain.Business{
		ID:             s.genID.Generate(),
		Name:           name,
		Description:    strings.TrimSpace(req.Description),
		BusinessTypeID: req.BusinessTypeID,
		OwnerID:        &ownerID,
		IsClaimed:      true,
		AvatarURL:      strings.TrimSpace(req.AvatarURL),
		CoverURL:       strings.TrimSpace(req.CoverURL),
		Phone:          strings.TrimSpace(req.Phone),
		Website:        strings.TrimSpace(req.Website),
		Address:        strings.TrimSpace(req.Address),
		City:           strings.TrimSpace(req.City),
		Country:        strings.TrimSpace(req.Country),
		Hours:          req.Hours,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		uniqueSlug, err := s.uniqueSlug(ctx, repo, name, business.ID)
		if err != nil {
			return err
		}
		business.Slug = uniqueSlug

		if err := repo.Create(ctx, business); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrSlugTaken
			}
			return err
		}

		record := &entitydomain.EntityRecord{
			ID:         business.ID,
			EntityType: entitydomain.EntityTypeBusiness,
			CreatedAt:  now,
		}
		if err := tx.Create(record).Error; err != nil {
			return err
		}

		return tx.Model(&profiledomain.Profile{}).
			Where("id = ?", req.CreatorID).
			Updates(map[string]any{"is_business_owner": true, "updated_at": now}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("business created",
		zap.String("business_id", business.ID.String()),
		zap.String("slug", business.Slug),
	)
	return business, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBusinessRequest) (*domain.Business, error) {
	role, err := s.RoleOf(ctx, req.BusinessID, req.ActorID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleOwner {
		return nil, domain.ErrNotOwner
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		fields["name"] = name
	}
	if req.Slug != nil {
		normalized, err := normalizeSlug(*req.Slug)
		if err != nil {
			return nil, err
		}
		taken, err := s.repo.SlugTaken(ctx, normalized, req.BusinessID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrSlugTaken
		}
		fields["slug"] = normalized
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.BusinessTypeID != nil {
		fields["business_type_id"] = *req.BusinessTypeID
	}
	if req.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*req.AvatarURL)
	}
	if req.CoverURL != nil {
		fields["cover_url"] = strings.TrimSpace(*req.CoverURL)
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Website != nil {
		fields["website"] = strings.TrimSpace(*req.Website)
	}
	if req.Address != nil {
		fields["address"] = strings.TrimSpace(*req.Address)
	}
	if req.City != nil {
		fields["city"] = strings.TrimSpace(*req.City)
	}
	if req.Country != nil {
		fields["country"] = strings.TrimSpace(*req.Country)
	}
	if req.Hours != nil {
		fields["hours"] = *req.Hours
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now()
		if err := s.repo.UpdateFields(ctx, req.BusinessID, fields); err != nil {
			return nil, err
		}
		s.projections.Invalidate(entitydomain.EntityTypeBusiness, req.BusinessID)
	}

	return s.repo.Get(ctx, req.BusinessID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Business, error) {
	return s.repo.Get(ctx, id)
}

// SetVerified grants or revokes the admin-issued verification badge.
func (s *Service) SetVerified(ctx context.Context, businessID snowflake.ID, verified bool) error {
	if _, err := s.repo.Get(ctx, businessID); err != nil {
		return err
	}
	return s.repo.UpdateFields(ctx, businessID, map[string]any{
		"is_verified": verified,
		"updated_at":  s.clock.Now(),
	})
}

func (s *Service) GetBySlug(ctx context.Context, slugValue string) (*domain.Business, error) {
	return s.repo.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slugValue)))
}

// RoleOf is the single ownership predicate shared with the actable-entity
// checks: owner beats manager, and only active manager rows count.
func (s *Service) RoleOf(ctx context.Context, businessID, userID snowflake.ID) (domain.Role, error) {
	business, err := s.repo.Get(ctx, businessID)
	if err != nil {
		return domain.RoleNone, err
	}
	if business.OwnerID != nil && *business.OwnerID == userID {
		return domain.RoleOwner, nil
	}

	membership, err := s.repo.FindMembership(ctx, businessID, userID)
	if err != nil {
		return domain.RoleNone, err
	}
	if membership != nil && membership.Role == domain.RoleManager && membership.Status == domain.MembershipActive {
		return domain.RoleManager, nil
	}
	return domain.RoleNone, nil
}

func (s *Service) uniqueSlug(ctx context.Context, repo domain.Repository, name string, selfID snowflake.ID) (string, error) {
	base, err := normalizeSlug(name)
	if err != nil {
		return "", err
	}

	candidate := base
	for i := 2; i <= slugProbeLimit; i++ {
		taken, err := repo.SlugTaken(ctx, candidate, selfID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		suffix := fmt.Sprintf("-%d", i)
		trimmed := base
		if len(trimmed)+len(suffix) > slugMaxLen {
			trimmed = trimmed[:slugMaxLen-len(suffix)]
		}
		candidate = trimmed + suffix
	}
	return "", domain.ErrSlugTaken
}

func normalizeSlug(raw string) (string, error) {
	normalized := slug.Make(strings.TrimSpace(raw))
	if len(normalized) > slugMaxLen {
		normalized = strings.Trim(normalized[:slugMaxLen], "-")
	}
	if len(normalized) < slugMinLen {
		return "", domain.ErrInvalidSlug
	}
	return normalized, nil
}
