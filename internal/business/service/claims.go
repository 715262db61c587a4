package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/business/domain"
	notificationdomain "github.com/voozea/voozea/internal/notification/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitClaim files an ownership claim against an unclaimed business. A user
// keeps at most one claim row per business; a rejected claim is replaced, a
// pending or approved one blocks resubmission.
func (s *Service) SubmitClaim(ctx context.Context, req domain.SubmitClaimRequest) (*domain.Claim, error) {
	reason := strings.TrimSpace(req.Reason)
	if len(reason) < claimReasonMinLen {
		return nil, domain.ErrClaimReasonTooShort
	}

	now := s.clock.Now()
	claim := &domain.Claim{
		ID:         s.genID.Generate(),
		BusinessID: req.BusinessID,
		UserID:     req.UserID,
		Reason:     reason,
		Status:     domain.ClaimPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		business, err := repo.Get(ctx, req.BusinessID)
		if err != nil {
			return err
		}
		if business.IsClaimed || business.OwnerID != nil {
			return domain.ErrAlreadyClaimed
		}

		existing, err := repo.FindClaim(ctx, req.BusinessID, req.UserID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Status != domain.ClaimRejected {
				return domain.ErrClaimExists
			}
			if err := repo.DeleteClaim(ctx, existing.ID); err != nil {
				return err
			}
		}

		return repo.CreateClaim(ctx, claim)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("claim submitted",
		zap.String("claim_id", claim.ID.String()),
		zap.String("business_id", req.BusinessID.String()),
	)
	return claim, nil
}

func (s *Service) CancelClaim(ctx context.Context, userID, claimID snowflake.ID) error {
	claim, err := s.repo.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}
	if claim.UserID != userID {
		return domain.ErrClaimNotFound
	}
	if claim.Status != domain.ClaimPending {
		return domain.ErrClaimNotPending
	}
	return s.repo.DeleteClaim(ctx, claimID)
}

func (s *Service) GetClaim(ctx context.Context, claimID snowflake.ID) (*domain.Claim, error) {
	return s.repo.GetClaim(ctx, claimID)
}

func (s *Service) ListClaims(ctx context.Context, status domain.ClaimStatus) ([]domain.Claim, error) {
	return s.repo.ListClaims(ctx, status)
}

// ApproveClaim hands the business to the claimant. The claim transition, the
// owner assignment and the claimant's owner flag land in one transaction; the
// notification is emitted after commit.
func (s *Service) ApproveClaim(ctx context.Context, adminID, claimID snowflake.ID) error {
	var claim *domain.Claim

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		var err error
		claim, err = repo.GetClaim(ctx, claimID)
		if err != nil {
			return err
		}
		if claim.Status != domain.ClaimPending {
			return domain.ErrClaimNotPending
		}

		business, err := repo.Get(ctx, claim.BusinessID)
		if err != nil {
			return err
		}
		if business.IsClaimed || business.OwnerID != nil {
			return domain.ErrAlreadyClaimed
		}

		now := s.clock.Now()
		if err := repo.UpdateClaimFields(ctx, claimID, map[string]any{
			"status":      domain.ClaimApproved,
			"reviewed_by": adminID,
			"reviewed_at": now,
			"updated_at":  now,
		}); err != nil {
			return err
		}

		if err := repo.UpdateFields(ctx, claim.BusinessID, map[string]any{
			"owner_id":   claim.UserID,
			"is_claimed": true,
			"updated_at": now,
		}); err != nil {
			return err
		}

		return tx.Model(&profiledomain.Profile{}).
			Where("id = ?", claim.UserID).
			Updates(map[string]any{"is_business_owner": true, "updated_at": now}).Error
	})
	if err != nil {
		return err
	}

	s.emit(ctx, notificationdomain.EmitRequest{
		RecipientID:   claim.UserID,
		Type:          notificationdomain.TypeClaimApproved,
		ActorID:       &adminID,
		ActorEntityID: &claim.BusinessID,
		BusinessID:    &claim.BusinessID,
	})

	s.log.Info("claim approved",
		zap.String("claim_id", claimID.String()),
		zap.String("business_id", claim.BusinessID.String()),
		zap.String("new_owner_id", claim.UserID.String()),
	)
	return nil
}

func (s *Service) RejectClaim(ctx context.Context, adminID, claimID snowflake.ID, notes string) error {
	claim, err := s.repo.GetClaim(ctx, claimID)
	if err != nil {
		return err
	}
	if claim.Status != domain.ClaimPending {
		return domain.ErrClaimNotPending
	}

	now := s.clock.Now()
	if err := s.repo.UpdateClaimFields(ctx, claimID, map[string]any{
		"status":       domain.ClaimRejected,
		"review_notes": strings.TrimSpace(notes),
		"reviewed_by":  adminID,
		"reviewed_at":  now,
		"updated_at":   now,
	}); err != nil {
		return err
	}

	s.emit(ctx, notificationdomain.EmitRequest{
		RecipientID:   claim.UserID,
		Type:          notificationdomain.TypeClaimRejected,
		ActorID:       &adminID,
		ActorEntityID: &claim.BusinessID,
		BusinessID:    &claim.BusinessID,
	})
	return nil
}

// emit fires a best-effort notification. Delivery failures are logged, never
// surfaced to the caller.
func (s *Service) emit(ctx context.Context, req notificationdomain.EmitRequest) {
	if err := s.notifications.Emit(ctx, req); err != nil {
		s.log.Warn("notification emit failed",
			zap.String("type", string(req.Type)),
			zap.Error(err),
		)
	}
}
