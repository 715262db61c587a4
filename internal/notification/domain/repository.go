package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, notification *Notification) error
	List(ctx context.Context, userID snowflake.ID, before *ListCursor, limit int) ([]Notification, error)
	Get(ctx context.Context, id snowflake.ID) (*Notification, error)
	UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error)
	MarkRead(ctx context.Context, id snowflake.ID) error
	MarkAllRead(ctx context.Context, userID snowflake.ID) error
}

type ListCursor struct {
	CreatedAt time.Time
	ID        snowflake.ID
}
