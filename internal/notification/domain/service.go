package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	"github.com/voozea/voozea/pkg/db/pagination"
)

type Service interface {
	// Emit writes a notification. Self-notifications are dropped silently.
	Emit(ctx context.Context, req EmitRequest) error

	List(ctx context.Context, req ListRequest) (*ListResponse, error)
	UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID snowflake.ID) error
	MarkAllRead(ctx context.Context, userID snowflake.ID) error
}

type EmitRequest struct {
	RecipientID   snowflake.ID
	Type          NotificationType
	ActorID       *snowflake.ID
	ActorEntityID *snowflake.ID
	RatingID      *snowflake.ID
	BusinessID    *snowflake.ID
}

type ListRequest struct {
	UserID    snowflake.ID
	PageToken string
	PageSize  int
}

// View is a notification with its actor resolved for rendering. Actor is nil
// when the acting entity no longer exists.
type View struct {
	Notification Notification         `json:"notification"`
	Actor        *entitydomain.Entity `json:"actor,omitempty"`
}

type ListResponse struct {
	Notifications []View              `json:"notifications"`
	PageInfo      pagination.PageInfo `json:"page_info"`
}
