package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/clock"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	"github.com/voozea/voozea/internal/observability/metrics"
	productdomain "github.com/voozea/voozea/internal/product/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	"github.com/voozea/voozea/internal/rating/domain"
	"github.com/voozea/voozea/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	Products      productdomain.Service
	Profiles      profiledomain.Repository
	Clock         clock.Clock
	Notifications notificationdomain.Service
	Metrics       *metrics.Metrics
}

type Service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	products      productdomain.Service
	profiles      profiledomain.Repository
	clock         clock.Clock
	notifications notificationdomain.Service
	metrics       *metrics.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:            p.DB,
		log:           p.Log.Named("rating.service"),
		genID:         p.GenID,
		repo:          p.Repo,
		products:      p.Products,
		profiles:      p.Profiles,
		clock:         p.Clock,
		notifications: p.Notifications,
		metrics:       p.Metrics,
	}
}

// Rate upserts the caller's rating for a product. The rating row, the photo
// set and both denormalized aggregates move in one transaction.
func (s *Service) Rate(ctx context.Context, req domain.RateRequest) (*domain.Rating, error) {
	if req.Score < domain.MinScore || req.Score > domain.MaxScore {
		return nil, domain.ErrScoreOutOfRange
	}

	product, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var rating *domain.Rating
	created := false

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.Find(ctx, req.ProductID, req.UserID)
		if err != nil {
			return err
		}

		if existing == nil {
			rating = &domain.Rating{
				ID:        s.genID.Generate(),
				ProductID: req.ProductID,
				UserID:    req.UserID,
				Score:     req.Score,
				Comment:   strings.TrimSpace(req.Comment),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repo.Create(ctx, rating); err != nil {
				return err
			}
			created = true
		} else {
			if err := repo.UpdateFields(ctx, existing.ID, map[string]any{
				"score":      req.Score,
				"comment":    strings.TrimSpace(req.Comment),
				"updated_at": now,
			}); err != nil {
				return err
			}
			existing.Score = req.Score
			existing.Comment = strings.TrimSpace(req.Comment)
			existing.UpdatedAt = now
			rating = existing
		}

		if req.Photos != nil {
			photos := make([]domain.RatingPhoto, 0, len(req.Photos))
			for i, url := range req.Photos {
				photos = append(photos, domain.RatingPhoto{
					ID:        s.genID.Generate(),
					RatingID:  rating.ID,
					PhotoURL:  url,
					Position:  i,
					CreatedAt: now,
				})
			}
			if err := repo.ReplacePhotos(ctx, rating.ID, photos); err != nil {
				return err
			}
		}

		return s.recomputeAggregates(ctx, repo, req.ProductID, product.BusinessID)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RatingIngested()
	s.log.Info("rating ingested",
		zap.String("rating_id", rating.ID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Bool("created", created),
	)
	return rating, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Rating, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, userID, ratingID snowflake.ID) error {
	rating, err := s.repo.Get(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating.UserID != userID {
		return domain.ErrNotRatingOwner
	}

	product, err := s.products.Get(ctx, rating.ProductID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.ReplacePhotos(ctx, ratingID, nil); err != nil {
			return err
		}
		if err := repo.Delete(ctx, ratingID); err != nil {
			return err
		}
		return s.recomputeAggregates(ctx, repo, rating.ProductID, product.BusinessID)
	})
}

func (s *Service) ListByProduct(ctx context.Context, productID snowflake.ID) ([]domain.RatingView, error) {
	ratings, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.RatingView, 0, len(ratings))
	for _, rating := range ratings {
		view := domain.RatingView{Rating: rating}
		if author, err := s.profiles.Get(ctx, rating.UserID); err == nil {
			view.Author = author
		}
		if photos, err := s.repo.ListPhotos(ctx, rating.ID); err == nil {
			view.Photos = photos
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Rating, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Photos(ctx context.Context, ratingID snowflake.ID) ([]domain.RatingPhoto, error) {
	return s.repo.ListPhotos(ctx, ratingID)
}

func (s *Service) Like(ctx context.Context, userID, ratingID snowflake.ID) error {
	rating, err := s.repo.Get(ctx, ratingID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		like := &domain.RatingLike{
			ID:        s.genID.Generate(),
			RatingID:  ratingID,
			UserID:    userID,
			CreatedAt: s.clock.Now(),
		}
		if err := repo.CreateLike(ctx, like); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyLiked
			}
			return err
		}
		return repo.AdjustLikesCount(ctx, ratingID, 1)
	})
	if err != nil {
		return err
	}

	s.emit(ctx, notificationdomain.EmitRequest{
		RecipientID:   rating.UserID,
		Type:          notificationdomain.TypeLike,
		ActorID:       &userID,
		ActorEntityID: &userID,
		RatingID:      &ratingID,
	})
	return nil
}

// Unlike is idempotent. The counter only moves when a like row was deleted.
func (s *Service) Unlike(ctx context.Context, userID, ratingID snowflake.ID) error {
	if _, err := s.repo.Get(ctx, ratingID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		deleted, err := repo.DeleteLike(ctx, ratingID, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repo.AdjustLikesCount(ctx, ratingID, -1)
	})
}

func (s *Service) AddComment(ctx context.Context, req domain.AddCommentRequest) (*domain.CommentView, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domain.ErrEmptyComment
	}

	rating, err := s.repo.Get(ctx, req.RatingID)
	if err != nil {
		return nil, err
	}

	comment := &domain.RatingComment{
		ID:        s.genID.Generate(),
		RatingID:  req.RatingID,
		UserID:    req.UserID,
		Content:   content,
		CreatedAt: s.clock.Now(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.CreateComment(ctx, comment); err != nil {
			return err
		}
		return repo.AdjustCommentsCount(ctx, req.RatingID, 1)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notificationdomain.EmitRequest{
		RecipientID:   rating.UserID,
		Type:          notificationdomain.TypeComment,
		ActorID:       &comment.UserID,
		ActorEntityID: &comment.UserID,
		RatingID:      &req.RatingID,
	})

	view := &domain.CommentView{Comment: *comment}
	if author, err := s.profiles.Get(ctx, req.UserID); err == nil {
		view.Author = author
	}
	return view, nil
}

func (s *Service) DeleteComment(ctx context.Context, userID, commentID snowflake.ID) error {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return domain.ErrNotCommentOwner
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.DeleteComment(ctx, commentID); err != nil {
			return err
		}
		return repo.AdjustCommentsCount(ctx, comment.RatingID, -1)
	})
}

func (s *Service) ListComments(ctx context.Context, ratingID snowflake.ID) ([]domain.CommentView, error) {
	comments, err := s.repo.ListComments(ctx, ratingID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.CommentView, 0, len(comments))
	for _, comment := range comments {
		view := domain.CommentView{Comment: comment}
		if author, err := s.profiles.Get(ctx, comment.UserID); err == nil {
			view.Author = author
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) recomputeAggregates(ctx context.Context, repo domain.Repository, productID, businessID snowflake.ID) error {
	productAgg, err := repo.ProductAggregate(ctx, productID)
	if err != nil {
		return err
	}
	if err := repo.ApplyProductAggregate(ctx, productID, productAgg); err != nil {
		return err
	}

	businessAgg, err := repo.BusinessAggregate(ctx, businessID)
	if err != nil {
		return err
	}
	return repo.ApplyBusinessAggregate(ctx, businessID, businessAgg)
}

// emit fires a best-effort notification. Self-notifications are dropped by
// the notification service itself.
func (s *Service) emit(ctx context.Context, req notificationdomain.EmitRequest) {
	if err := s.notifications.Emit(ctx, req); err != nil {
		s.log.Warn("notification emit failed",
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
	}
}
