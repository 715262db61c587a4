package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Service interface {
	Create(ctx context.Context, req CreateBusinessRequest) (*Business, error)
	Update(ctx context.Context, req UpdateBusinessRequest) (*Business, error)
	Get(ctx context.Context, id snowflake.ID) (*Business, error)
	GetBySlug(ctx context.Context, slug string) (*Business, error)
	RoleOf(ctx context.Context, businessID, userID snowflake.ID) (Role, error)
	SetVerified(ctx context.Context, businessID snowflake.ID, verified bool) error

	SubmitClaim(ctx context.Context, req SubmitClaimRequest) (*Claim, error)
	CancelClaim(ctx context.Context, userID, claimID snowflake.ID) error
	GetClaim(ctx context.Context, claimID snowflake.ID) (*Claim, error)
	ListClaims(ctx context.Context, status ClaimStatus) ([]Claim, error)
	ApproveClaim(ctx context.Context, adminID, claimID snowflake.ID) error
	RejectClaim(ctx context.Context, adminID, claimID snowflake.ID, notes string) error

	InviteManager(ctx context.Context, req InviteManagerRequest) (*Membership, error)
	AcceptInvite(ctx context.Context, userID, membershipID snowflake.ID) error
	DeclineInvite(ctx context.Context, userID, membershipID snowflake.ID) error
	RemoveManager(ctx context.Context, req RemoveManagerRequest) error
	TransferOwnership(ctx context.Context, req TransferOwnershipRequest) error
	ListTeam(ctx context.Context, businessID snowflake.ID) ([]Membership, error)

	FollowBusiness(ctx context.Context, businessID, userID snowflake.ID) error
	UnfollowBusiness(ctx context.Context, businessID, userID snowflake.ID) error
}

type CreateBusinessRequest struct {
	CreatorID      snowflake.ID
	Name           string
	Description    string
	BusinessTypeID *snowflake.ID
	AvatarURL      string
	CoverURL       string
	Phone          string
	Website        string
	Address        string
	City           string
	Country        string
	Hours          datatypes.JSON
}

// UpdateBusinessRequest applies partial updates. Nil fields are untouched.
type UpdateBusinessRequest struct {
	BusinessID     snowflake.ID
	ActorID        snowflake.ID
	Name           *string
	Slug           *string
	Description    *string
	BusinessTypeID *snowflake.ID
	AvatarURL      *string
	CoverURL       *string
	Phone          *string
	Website        *string
	Address        *string
	City           *string
	Country        *string
	Hours          *datatypes.JSON
}

type SubmitClaimRequest struct {
	BusinessID snowflake.ID
	UserID     snowflake.ID
	Reason     string
}

type InviteManagerRequest struct {
	BusinessID snowflake.ID
	OwnerID    snowflake.ID
	Username   string
}

type RemoveManagerRequest struct {
	BusinessID snowflake.ID
	OwnerID    snowflake.ID
	UserID     snowflake.ID
}

type TransferOwnershipRequest struct {
	BusinessID snowflake.ID
	OwnerID    snowflake.ID
	NewOwnerID snowflake.ID
}
