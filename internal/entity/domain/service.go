package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/pkg/db/pagination"
)

type Service interface {
	// Resolve returns the projection for any entity id, or nil when the id
	// does not exist. Missing entities are a normal outcome for callers
	// rendering stale references, not an error.
	Resolve(ctx context.Context, id snowflake.ID) (*Entity, error)

	// ListActable enumerates every entity the principal may act as: the
	// principal itself first, then owned businesses, then businesses where
	// the principal is an active manager, deduplicated.
	ListActable(ctx context.Context, principalID snowflake.ID) ([]Entity, error)

	// CanActAs reports whether the principal may act as the given entity.
	// The check always hits the database; it is never cached.
	CanActAs(ctx context.Context, principalID, entityID snowflake.ID) (bool, error)

	Follow(ctx context.Context, req FollowRequest) error
	Unfollow(ctx context.Context, req FollowRequest) error

	// FollowBatch follows several users at once on behalf of the principal
	// itself. Existing edges and self references are skipped.
	FollowBatch(ctx context.Context, principalID snowflake.ID, targetIDs []snowflake.ID) error

	// IsFollowing requires no authorization. Follow relationships are
	// public information.
	IsFollowing(ctx context.Context, followerID, followingID snowflake.ID) (bool, error)

	Followers(ctx context.Context, req ListFollowsRequest) (*FollowList, error)
	Following(ctx context.Context, req ListFollowsRequest) (*FollowList, error)

	Search(ctx context.Context, req SearchRequest) ([]Entity, error)
}

// FollowRequest names the acting principal separately from the follower
// entity so businesses can follow on behalf of their owners and managers.
type FollowRequest struct {
	PrincipalID snowflake.ID
	FollowerID  snowflake.ID
	FollowingID snowflake.ID
}

type ListFollowsRequest struct {
	EntityID  snowflake.ID
	PageToken string
	PageSize  int
}

type FollowList struct {
	Entities []Entity            `json:"entities"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

type SearchRequest struct {
	Query      string
	ExcludeIDs []snowflake.ID
}
