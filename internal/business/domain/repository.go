package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, business *Business) error
	Get(ctx context.Context, id snowflake.ID) (*Business, error)
	GetBySlug(ctx context.Context, slug string) (*Business, error)
	SlugTaken(ctx context.Context, slug string, excludeID snowflake.ID) (bool, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error

	CreateMembership(ctx context.Context, membership *Membership) error
	GetMembership(ctx context.Context, id snowflake.ID) (*Membership, error)
	FindMembership(ctx context.Context, businessID, userID snowflake.ID) (*Membership, error)
	UpdateMembershipFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteMembership(ctx context.Context, id snowflake.ID) error
	ListMemberships(ctx context.Context, businessID snowflake.ID) ([]Membership, error)

	CreateClaim(ctx context.Context, claim *Claim) error
	GetClaim(ctx context.Context, id snowflake.ID) (*Claim, error)
	FindClaim(ctx context.Context, businessID, userID snowflake.ID) (*Claim, error)
	UpdateClaimFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	DeleteClaim(ctx context.Context, id snowflake.ID) error
	ListClaims(ctx context.Context, status ClaimStatus) ([]Claim, error)

	CreateFollow(ctx context.Context, follow *Follow) error
	DeleteFollow(ctx context.Context, businessID, userID snowflake.ID) (bool, error)
	AdjustFollowersCount(ctx context.Context, businessID snowflake.ID, delta int64) error
}
