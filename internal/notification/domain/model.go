// Package domain contains notification types. Notifications always target a
// user; actors are entities so businesses can act too.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type NotificationType string

const (
	TypeFollow            NotificationType = "follow"
	TypeLike              NotificationType = "like"
	TypeComment           NotificationType = "comment"
	TypeClaimApproved     NotificationType = "claim_approved"
	TypeClaimRejected     NotificationType = "claim_rejected"
	TypeBusinessFollow    NotificationType = "business_follow"
	TypeManagerInvite     NotificationType = "manager_invite"
	TypeManagerAdded      NotificationType = "manager_added"
	TypeManagerRemoved    NotificationType = "manager_removed"
	TypeOwnershipTransfer NotificationType = "ownership_transfer"
)

// Notification is a row in a user's inbox. ActorID is the legacy user
// reference; ActorEntityID is the current entity reference.
type Notification struct {
	ID            snowflake.ID     `json:"id" gorm:"primaryKey"`
	UserID        snowflake.ID     `json:"user_id" gorm:"column:user_id;not null;index:idx_notifications_recipient"`
	Type          NotificationType `json:"type" gorm:"column:notification_type;type:text;not null"`
	ActorID       *snowflake.ID    `json:"actor_id,omitempty" gorm:"column:actor_id"`
	ActorEntityID *snowflake.ID    `json:"actor_entity_id,omitempty" gorm:"column:actor_entity_id"`
	RatingID      *snowflake.ID    `json:"rating_id,omitempty" gorm:"column:rating_id"`
	BusinessID    *snowflake.ID    `json:"business_id,omitempty" gorm:"column:business_id"`
	IsRead        bool             `json:"is_read" gorm:"column:is_read;not null;default:false"`
	CreatedAt     time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notifications_recipient"`
}

// TableName sets the database table name.
func (Notification) TableName() string { return "notifications" }
