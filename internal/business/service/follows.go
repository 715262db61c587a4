package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/business/domain"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	"github.com/voozea/voozea/pkg/db"
	"gorm.io/gorm"
)

// FollowBusiness records a user following a business and notifies the owner.
// The unique index on (business_id, user_id) is the authority on duplicates.
func (s *Service) FollowBusiness(ctx context.Context, businessID, userID snowflake.ID) error {
	business, err := s.repo.Get(ctx, businessID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		follow := &domain.Follow{
			ID:         s.genID.Generate(),
			BusinessID: businessID,
			UserID:     userID,
			CreatedAt:  s.clock.Now(),
		}
		if err := repo.CreateFollow(ctx, follow); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrAlreadyFollowing
			}
			return err
		}
		return repo.AdjustFollowersCount(ctx, businessID, 1)
	})
	if err != nil {
		return err
	}

	if business.OwnerID != nil && *business.OwnerID != userID {
		s.emit(ctx, notificationdomain.EmitRequest{
			RecipientID:   *business.OwnerID,
			Type:          notificationdomain.TypeBusinessFollow,
			ActorID:       &userID,
			ActorEntityID: &userID,
			BusinessID:    &businessID,
		})
	}
	return nil
}

// UnfollowBusiness is idempotent. The counter only moves when an edge was
// actually deleted.
func (s *Service) UnfollowBusiness(ctx context.Context, businessID, userID snowflake.ID) error {
	if _, err := s.repo.Get(ctx, businessID); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		deleted, err := repo.DeleteFollow(ctx, businessID, userID)
		if err != nil {
			return err
		}
		if !deleted {
			return nil
		}
		return repo.AdjustFollowersCount(ctx, businessID, -1)
	})
}
