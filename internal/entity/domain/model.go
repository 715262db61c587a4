// Package domain contains the actable-entity types. An entity is anything
// that can follow or be followed: a user or a business.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type EntityType string

const (
	EntityTypeUser     EntityType = "user"
	EntityTypeBusiness EntityType = "business"
)

// EntityRecord tags an id with its variant. Users and businesses share one
// id space, so the tag alone is enough to route a lookup.
type EntityRecord struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	EntityType EntityType   `gorm:"column:entity_type;type:text;not null"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EntityRecord) TableName() string { return "entities" }

// EntityFollow is a follow edge between two entities. The unique index on
// (follower_id, following_id) is the authority on duplicates.
type EntityFollow struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	FollowerID  snowflake.ID `gorm:"column:follower_id;not null;uniqueIndex:idx_entity_follows_edge,priority:1"`
	FollowingID snowflake.ID `gorm:"column:following_id;not null;uniqueIndex:idx_entity_follows_edge,priority:2"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (EntityFollow) TableName() string { return "entity_follows" }

// Entity is the resolved projection used by lists, search and notifications.
type Entity struct {
	ID        snowflake.ID `json:"id"`
	Type      EntityType   `json:"type"`
	Name      string       `json:"name"`
	AvatarURL string       `json:"avatar_url,omitempty"`
	Username  string       `json:"username,omitempty"`
	Slug      string       `json:"slug,omitempty"`
}
