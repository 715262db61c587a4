package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, id snowflake.ID) (*Profile, error)
	GetByUsername(ctx context.Context, username string) (*Profile, error)
	UsernameTaken(ctx context.Context, username string, excludeID snowflake.ID) (bool, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Suggested(ctx context.Context, userID snowflake.ID, recentSince time.Time, limit int) ([]SuggestedUser, error)
}
