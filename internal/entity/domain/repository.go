package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	GetRecord(ctx context.Context, id snowflake.ID) (*EntityRecord, error)
	ResolveUser(ctx context.Context, id snowflake.ID) (*Entity, error)
	ResolveBusiness(ctx context.Context, id snowflake.ID) (*Entity, error)

	OwnedBusinesses(ctx context.Context, userID snowflake.ID) ([]Entity, error)
	ManagedBusinesses(ctx context.Context, userID snowflake.ID) ([]Entity, error)
	IsOwner(ctx context.Context, businessID, userID snowflake.ID) (bool, error)
	IsActiveManager(ctx context.Context, businessID, userID snowflake.ID) (bool, error)

	CreateFollow(ctx context.Context, follow *EntityFollow) error
	DeleteFollow(ctx context.Context, followerID, followingID snowflake.ID) (bool, error)
	FollowExists(ctx context.Context, followerID, followingID snowflake.ID) (bool, error)
	ListFollowers(ctx context.Context, entityID snowflake.ID, before *FollowCursor, limit int) ([]EntityFollow, error)
	ListFollowing(ctx context.Context, entityID snowflake.ID, before *FollowCursor, limit int) ([]EntityFollow, error)
	AdjustFollowCounters(ctx context.Context, follower, following EntityRecord, delta int64) error

	SearchUsers(ctx context.Context, query string, excludeIDs []snowflake.ID, limit int) ([]Entity, error)
	SearchBusinesses(ctx context.Context, query string, excludeIDs []snowflake.ID, limit int) ([]Entity, error)
}

// FollowCursor positions a page inside the newest-first edge ordering.
type FollowCursor struct {
	CreatedAt time.Time
	ID        snowflake.ID
}
