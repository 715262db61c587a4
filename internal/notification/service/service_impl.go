package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/clock"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/internal/notification/domain"
	"github.com/voozea/voozea/internal/observability/metrics"
	"github.com/voozea/voozea/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Clock    clock.Clock
	Entities entitydomain.Service
	Metrics  *metrics.Metrics
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	clock    clock.Clock
	entities entitydomain.Service
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("notification.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		clock:    p.Clock,
		entities: p.Entities,
		metrics:  p.Metrics,
	}
}

func (s *Service) Emit(ctx context.Context, req domain.EmitRequest) error {
	if req.RecipientID == 0 || req.Type == "" {
		return nil
	}
	if req.ActorID != nil && *req.ActorID == req.RecipientID {
		return nil
	}

	notification := &domain.Notification{
		ID:            s.genID.Generate(),
		UserID:        req.RecipientID,
		Type:          req.Type,
		ActorID:       req.ActorID,
		ActorEntityID: req.ActorEntityID,
		RatingID:      req.RatingID,
		BusinessID:    req.BusinessID,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}

	s.metrics.NotificationEmitted(string(req.Type))
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (*domain.ListResponse, error) {
	limit := req.PageSize
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var before *domain.ListCursor
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
		before = &domain.ListCursor{CreatedAt: createdAt, ID: id}
	}

	rows, err := s.repo.List(ctx, req.UserID, before, limit+1)
	if err != nil {
		return nil, err
	}

	rows, pageInfo := pagination.BuildCursorPageInfo(rows, limit, func(n domain.Notification) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        n.ID.String(),
			CreatedAt: n.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})

	views := make([]domain.View, 0, len(rows))
	for _, n := range rows {
		view := domain.View{Notification: n}
		actorID := n.ActorEntityID
		if actorID == nil {
			actorID = n.ActorID
		}
		if actorID != nil {
			// Deleted actors resolve to nil; the notification still renders.
			actor, err := s.entities.Resolve(ctx, *actorID)
			if err != nil {
				return nil, err
			}
			view.Actor = actor
		}
		views = append(views, view)
	}

	resp := &domain.ListResponse{Notifications: views}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID snowflake.ID) error {
	notification, err := s.repo.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != userID {
		return domain.ErrNotRecipient
	}
	return s.repo.MarkRead(ctx, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID snowflake.ID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
