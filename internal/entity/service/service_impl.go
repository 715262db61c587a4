package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/cache"
	"github.com/voozea/voozea/internal/clock"
	"github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/internal/observability/metrics"
	"github.com/voozea/voozea/pkg/db"
	"github.com/voozea/voozea/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	searchMinQueryLen  = 2
	searchPerKindLimit = 5

	defaultFollowPageSize = 20
	maxFollowPageSize     = 100
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Clock       clock.Clock
	Projections cache.EntityProjectionCache
	Metrics     *metrics.Metrics
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	clock       clock.Clock
	projections cache.EntityProjectionCache
	metrics     *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("entity.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		clock:       p.Clock,
		projections: p.Projections,
		metrics:     p.Metrics,
	}
}

func (s *Service) Resolve(ctx context.Context, id snowflake.ID) (*domain.Entity, error) {
	record, err := s.repo.GetRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	switch record.EntityType {
	case domain.EntityTypeUser:
		return s.repo.ResolveUser(ctx, id)
	case domain.EntityTypeBusiness:
		return s.repo.ResolveBusiness(ctx, id)
	default:
		return nil, nil
	}
}

// resolveCached serves list rendering. Authorization never goes through here.
func (s *Service) resolveCached(ctx context.Context, record domain.EntityRecord) (*domain.Entity, error) {
	if cached, ok := s.projections.Get(record.EntityType, record.ID); ok {
		return &cached, nil
	}

	var entity *domain.Entity
	var err error
	switch record.EntityType {
	case domain.EntityTypeUser:
		entity, err = s.repo.ResolveUser(ctx, record.ID)
	case domain.EntityTypeBusiness:
		entity, err = s.repo.ResolveBusiness(ctx, record.ID)
	}
	if err != nil {
		return nil, err
	}
	if entity != nil {
		s.projections.Set(*entity)
	}
	return entity, nil
}

func (s *Service) ListActable(ctx context.Context, principalID snowflake.ID) ([]domain.Entity, error) {
	self, err := s.repo.ResolveUser(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if self == nil {
		return nil, domain.ErrEntityNotFound
	}

	owned, err := s.repo.OwnedBusinesses(ctx, principalID)
	if err != nil {
		return nil, err
	}
	managed, err := s.repo.ManagedBusinesses(ctx, principalID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.Entity, 0, 1+len(owned)+len(managed))
	result = append(result, *self)
	seen := map[snowflake.ID]struct{}{principalID: {}}
	for _, e := range owned {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		result = append(result, e)
	}
	for _, e := range managed {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		result = append(result, e)
	}
	return result, nil
}

func (s *Service) CanActAs(ctx context.Context, principalID, entityID snowflake.ID) (bool, error) {
	if principalID == 0 || entityID == 0 {
		return false, nil
	}
	if principalID == entityID {
		return true, nil
	}

	record, err := s.repo.GetRecord(ctx, entityID)
	if err != nil {
		return false, err
	}
	if record == nil || record.EntityType != domain.EntityTypeBusiness {
		return false, nil
	}

	owner, err := s.repo.IsOwner(ctx, entityID, principalID)
	if err != nil {
		return false, err
	}
	if owner {
		return true, nil
	}
	return s.repo.IsActiveManager(ctx, entityID, principalID)
}

func (s *Service) Follow(ctx context.Context, req domain.FollowRequest) error {
	if req.FollowerID == req.FollowingID {
		return domain.ErrSelfFollow
	}

	allowed, err := s.CanActAs(ctx, req.PrincipalID, req.FollowerID)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrNotActable
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		follower, err := repo.GetRecord(ctx, req.FollowerID)
		if err != nil {
			return err
		}
		following, err := repo.GetRecord(ctx, req.FollowingID)
		if err != nil {
			return err
		}
		if follower == nil || following == nil {
			return domain.ErrEntityNotFound
		}

		exists, err := repo.FollowExists(ctx, req.FollowerID, req.FollowingID)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyFollowing
		}

		edge := &domain.EntityFollow{
			ID:          s.genID.Generate(),
			FollowerID:  req.FollowerID,
			FollowingID: req.FollowingID,
			CreatedAt:   s.clock.Now(),
		}
		if err := repo.CreateFollow(ctx, edge); err != nil {
			// The unique index is the authority; the pre-check only makes
			// the common case cheap.
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyFollowing
			}
			return err
		}

		return repo.AdjustFollowCounters(ctx, *follower, *following, 1)
	})
	if err != nil {
		return err
	}

	s.metrics.FollowCreated()
	return nil
}

func (s *Service) Unfollow(ctx context.Context, req domain.FollowRequest) error {
	allowed, err := s.CanActAs(ctx, req.PrincipalID, req.FollowerID)
	if err != nil {
		return err
	}
	if !allowed {
		return domain.ErrNotActable
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		deleted, err := repo.DeleteFollow(ctx, req.FollowerID, req.FollowingID)
		if err != nil {
			return err
		}
		if !deleted {
			// Unfollowing something never followed is a no-op.
			return nil
		}

		follower, err := repo.GetRecord(ctx, req.FollowerID)
		if err != nil {
			return err
		}
		following, err := repo.GetRecord(ctx, req.FollowingID)
		if err != nil {
			return err
		}
		if follower == nil || following == nil {
			return nil
		}
		return repo.AdjustFollowCounters(ctx, *follower, *following, -1)
	})
}

func (s *Service) FollowBatch(ctx context.Context, principalID snowflake.ID, targetIDs []snowflake.ID) error {
	for _, targetID := range targetIDs {
		if targetID == principalID || targetID == 0 {
			continue
		}
		err := s.Follow(ctx, domain.FollowRequest{
			PrincipalID: principalID,
			FollowerID:  principalID,
			FollowingID: targetID,
		})
		if err != nil && err != domain.ErrAlreadyFollowing && err != domain.ErrEntityNotFound {
			return err
		}
	}
	return nil
}

func (s *Service) IsFollowing(ctx context.Context, followerID, followingID snowflake.ID) (bool, error) {
	return s.repo.FollowExists(ctx, followerID, followingID)
}

func (s *Service) Followers(ctx context.Context, req domain.ListFollowsRequest) (*domain.FollowList, error) {
	return s.listFollows(ctx, req, s.repo.ListFollowers, func(edge domain.EntityFollow) snowflake.ID {
		return edge.FollowerID
	})
}

func (s *Service) Following(ctx context.Context, req domain.ListFollowsRequest) (*domain.FollowList, error) {
	return s.listFollows(ctx, req, s.repo.ListFollowing, func(edge domain.EntityFollow) snowflake.ID {
		return edge.FollowingID
	})
}

func (s *Service) listFollows(
	ctx context.Context,
	req domain.ListFollowsRequest,
	list func(context.Context, snowflake.ID, *domain.FollowCursor, int) ([]domain.EntityFollow, error),
	project func(domain.EntityFollow) snowflake.ID,
) (*domain.FollowList, error) {
	limit := req.PageSize
	if limit <= 0 {
		limit = defaultFollowPageSize
	}
	if limit > maxFollowPageSize {
		limit = maxFollowPageSize
	}

	var before *domain.FollowCursor
	if strings.TrimSpace(req.PageToken) != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, err
		}
		id, err := snowflake.ParseString(cursor.ID)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		before = &domain.FollowCursor{CreatedAt: createdAt, ID: id}
	}

	edges, err := list(ctx, req.EntityID, before, limit+1)
	if err != nil {
		return nil, err
	}

	edges, pageInfo := pagination.BuildCursorPageInfo(edges, limit, func(edge domain.EntityFollow) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        edge.ID.String(),
			CreatedAt: edge.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	entities := make([]domain.Entity, 0, len(edges))
	for _, edge := range edges {
		record, err := s.repo.GetRecord(ctx, project(edge))
		if err != nil {
			return nil, err
		}
		if record == nil {
			continue
		}
		entity, err := s.resolveCached(ctx, *record)
		if err != nil {
			return nil, err
		}
		if entity == nil {
			continue
		}
		entities = append(entities, *entity)
	}

	result := &domain.FollowList{Entities: entities}
	if pageInfo != nil {
		result.PageInfo = *pageInfo
	}
	return result, nil
}

func (s *Service) Search(ctx context.Context, req domain.SearchRequest) ([]domain.Entity, error) {
	query := strings.TrimSpace(req.Query)
	if len(query) < searchMinQueryLen {
		return []domain.Entity{}, nil
	}

	users, err := s.repo.SearchUsers(ctx, query, req.ExcludeIDs, searchPerKindLimit)
	if err != nil {
		return nil, err
	}
	businesses, err := s.repo.SearchBusinesses(ctx, query, req.ExcludeIDs, searchPerKindLimit)
	if err != nil {
		return nil, err
	}

	return append(users, businesses...), nil
}
