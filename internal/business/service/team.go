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

// InviteManager invites a user, looked up by username, onto the business team.
// A previously removed manager is re-invited by resetting the existing row to
// pending rather than inserting a second one.
func (s *Service) InviteManager(ctx context.Context, req domain.InviteManagerRequest) (*domain.Membership, error) {
	role, err := s.RoleOf(ctx, req.BusinessID, req.OwnerID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleOwner {
		return nil, domain.ErrNotOwner
	}

	invitee, err := s.profiles.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(req.Username)))
	if err != nil {
		return nil, err
	}
	if invitee.ID == req.OwnerID {
		return nil, domain.ErrCannotInviteSelf
	}

	now := s.clock.Now()
	inviterID := req.OwnerID

	var membership *domain.Membership
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.FindMembership(ctx, req.BusinessID, invitee.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			if existing.Status != domain.MembershipRemoved {
				return domain.ErrMembershipExists
			}
			if err := repo.UpdateMembershipFields(ctx, existing.ID, map[string]any{
				"status":     domain.MembershipPending,
				"invited_by": inviterID,
				"updated_at": now,
			}); err != nil {
				return err
			}
			existing.Status = domain.MembershipPending
			existing.InvitedBy = &inviterID
			existing.UpdatedAt = now
			membership = existing
			return nil
		}

		membership = &domain.Membership{
			ID:         s.genID.Generate(),
			BusinessID: req.BusinessID,
			UserID:     invitee.ID,
			Role:       domain.RoleManager,
			Status:     domain.MembershipPending,
			InvitedBy:  &inviterID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		return repo.CreateMembership(ctx, membership)
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, notificationdomain.EmitRequest{
		RecipientID:   invitee.ID,
		Type:          notificationdomain.TypeManagerInvite,
		ActorID:       &inviterID,
		ActorEntityID: &req.BusinessID,
		BusinessID:    &req.BusinessID,
	})
	return membership, nil
}

func (s *Service) AcceptInvite(ctx context.Context, userID, membershipID snowflake.ID) error {
	membership, err := s.repo.GetMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if membership.UserID != userID {
		return domain.ErrMembershipNotFound
	}
	if membership.Status != domain.MembershipPending {
		return domain.ErrInviteNotPending
	}

	if err := s.repo.UpdateMembershipFields(ctx, membershipID, map[string]any{
		"status":     domain.MembershipActive,
		"updated_at": s.clock.Now(),
	}); err != nil {
		return err
	}

	if membership.InvitedBy != nil {
		s.emit(ctx, notificationdomain.EmitRequest{
			RecipientID:   *membership.InvitedBy,
			Type:          notificationdomain.TypeManagerAdded,
			ActorID:       &userID,
			ActorEntityID: &userID,
			BusinessID:    &membership.BusinessID,
		})
	}
	return nil
}

func (s *Service) DeclineInvite(ctx context.Context, userID, membershipID snowflake.ID) error {
	membership, err := s.repo.GetMembership(ctx, membershipID)
	if err != nil {
		return err
	}
	if membership.UserID != userID {
		return domain.ErrMembershipNotFound
	}
	if membership.Status != domain.MembershipPending {
		return domain.ErrInviteNotPending
	}
	return s.repo.DeleteMembership(ctx, membershipID)
}

func (s *Service) RemoveManager(ctx context.Context, req domain.RemoveManagerRequest) error {
	role, err := s.RoleOf(ctx, req.BusinessID, req.OwnerID)
	if err != nil {
		return err
	}
	if role != domain.RoleOwner {
		return domain.ErrNotOwner
	}

	membership, err := s.repo.FindMembership(ctx, req.BusinessID, req.UserID)
	if err != nil {
		return err
	}
	if membership == nil || membership.Status != domain.MembershipActive {
		return domain.ErrNotActiveManager
	}

	if err := s.repo.UpdateMembershipFields(ctx, membership.ID, map[string]any{
		"status":     domain.MembershipRemoved,
		"updated_at": s.clock.Now(),
	}); err != nil {
		return err
	}

	ownerID := req.OwnerID
	s.emit(ctx, notificationdomain.EmitRequest{
		RecipientID:   req.UserID,
		Type:          notificationdomain.TypeManagerRemoved,
		ActorID:       &ownerID,
		ActorEntityID: &req.BusinessID,
		BusinessID:    &req.BusinessID,
	})
	return nil
}

// TransferOwnership swaps the owner with an active manager. The new owner's
// membership row disappears and the old owner comes back as an active manager,
// so the team roster stays consistent with the single-owner rule.
func (s *Service) TransferOwnership(ctx context.Context, req domain.TransferOwnershipRequest) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		business, err := repo.Get(ctx, req.BusinessID)
		if err != nil {
			return err
		}
		if business.OwnerID == nil || *business.OwnerID != req.OwnerID {
			return domain.ErrNotOwner
		}

		membership, err := repo.FindMembership(ctx, req.BusinessID, req.NewOwnerID)
		if err != nil {
			return err
		}
		if membership == nil || membership.Status != domain.MembershipActive {
			return domain.ErrNotActiveManager
		}

		now := s.clock.Now()
		if err := repo.UpdateFields(ctx, req.BusinessID, map[string]any{
			"owner_id":   req.NewOwnerID,
			"updated_at": now,
		}); err != nil {
			return err
		}

		if err := repo.DeleteMembership(ctx, membership.ID); err != nil {
			return err
		}

		newOwnerID := req.NewOwnerID
		oldOwnerMembership := &domain.Membership{
			ID:         s.genID.Generate(),
			BusinessID: req.BusinessID,
			UserID:     req.OwnerID,
			Role:       domain.RoleManager,
			Status:     domain.MembershipActive,
			InvitedBy:  &newOwnerID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := repo.CreateMembership(ctx, oldOwnerMembership); err != nil {
			return err
		}

		return tx.Model(&profiledomain.Profile{}).
			Where("id = ?", req.NewOwnerID).
			Updates(map[string]any{"is_business_owner": true, "updated_at": now}).Error
	})
	if err != nil {
		return err
	}

	oldOwnerID := req.OwnerID
	s.emit(ctx, notificationdomain.EmitRequest{
		RecipientID:   req.NewOwnerID,
		Type:          notificationdomain.TypeOwnershipTransfer,
		ActorID:       &oldOwnerID,
		ActorEntityID: &req.BusinessID,
		BusinessID:    &req.BusinessID,
	})

	s.log.Info("ownership transferred",
		zap.String("business_id", req.BusinessID.String()),
		zap.String("old_owner_id", req.OwnerID.String()),
		zap.String("new_owner_id", req.NewOwnerID.String()),
	)
	return nil
}

func (s *Service) ListTeam(ctx context.Context, businessID snowflake.ID) ([]domain.Membership, error) {
	return s.repo.ListMemberships(ctx, businessID)
}
