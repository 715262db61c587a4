package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Get(ctx context.Context, id snowflake.ID) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
	CompleteOnboarding(ctx context.Context, userID snowflake.ID) error
	SkipOnboarding(ctx context.Context, userID snowflake.ID) error
	SuggestedUsers(ctx context.Context, req SuggestedUsersRequest) ([]SuggestedUser, error)
}

// UpdateProfileRequest applies partial updates. Nil fields are left untouched.
type UpdateProfileRequest struct {
	UserID      snowflake.ID
	Username    *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

type SuggestedUsersRequest struct {
	UserID snowflake.ID
	Limit  int
}

// SuggestedUser ranks a candidate by popularity and recent activity.
type SuggestedUser struct {
	Profile Profile `json:"profile" gorm:"embedded"`
	Score   float64 `json:"score" gorm:"column:score"`
}
