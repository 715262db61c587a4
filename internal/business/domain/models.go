// Package domain contains business types: the business itself, team
// memberships, ownership claims and the legacy user follow edge.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleNone    Role = "none"
)

type MembershipStatus string

const (
	MembershipPending MembershipStatus = "pending"
	MembershipActive  MembershipStatus = "active"
	MembershipRemoved MembershipStatus = "removed"
)

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// Business shares its id with the entities row of type business. OwnerID is
// nil until the business is claimed or created by a user.
type Business struct {
	ID             snowflake.ID   `json:"id" gorm:"primaryKey"`
	Slug           string         `json:"slug" gorm:"column:slug;type:text;not null;uniqueIndex"`
	Name           string         `json:"name" gorm:"column:name;type:text;not null"`
	Description    string         `json:"description" gorm:"column:description;type:text;not null;default:''"`
	BusinessTypeID *snowflake.ID  `json:"business_type_id,omitempty" gorm:"column:business_type_id"`
	OwnerID        *snowflake.ID  `json:"owner_id,omitempty" gorm:"column:owner_id;index"`
	IsClaimed      bool           `json:"is_claimed" gorm:"column:is_claimed;not null;default:false"`
	IsVerified     bool           `json:"is_verified" gorm:"column:is_verified;not null;default:false"`
	AvatarURL      string         `json:"avatar_url" gorm:"column:avatar_url;type:text;not null;default:''"`
	CoverURL       string         `json:"cover_url" gorm:"column:cover_url;type:text;not null;default:''"`
	Phone          string         `json:"phone" gorm:"column:phone;type:text;not null;default:''"`
	Website        string         `json:"website" gorm:"column:website;type:text;not null;default:''"`
	Address        string         `json:"address" gorm:"column:address;type:text;not null;default:''"`
	City           string         `json:"city" gorm:"column:city;type:text;not null;default:''"`
	Country        string         `json:"country" gorm:"column:country;type:text;not null;default:''"`
	Hours          datatypes.JSON `json:"hours,omitempty" gorm:"column:hours"`
	AverageRating  float64        `json:"average_rating" gorm:"column:average_rating;not null;default:0"`
	TotalRatings   int64          `json:"total_ratings" gorm:"column:total_ratings;not null;default:0"`
	FollowersCount int64          `json:"followers_count" gorm:"column:followers_count;not null;default:0"`
	FollowingCount int64          `json:"following_count" gorm:"column:following_count;not null;default:0"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Business) TableName() string { return "businesses" }

// Membership tracks managers. Owners are not membership rows; ownership
// lives on the business itself.
type Membership struct {
	ID         snowflake.ID     `json:"id" gorm:"primaryKey"`
	BusinessID snowflake.ID     `json:"business_id" gorm:"column:business_id;not null;uniqueIndex:idx_business_memberships_member,priority:1"`
	UserID     snowflake.ID     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_business_memberships_member,priority:2"`
	Role       Role             `json:"role" gorm:"column:role;type:text;not null"`
	Status     MembershipStatus `json:"status" gorm:"column:status;type:text;not null"`
	InvitedBy  *snowflake.ID    `json:"invited_by,omitempty" gorm:"column:invited_by"`
	CreatedAt  time.Time        `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt  time.Time        `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "business_memberships" }

// Claim is a user's request to take ownership of an unclaimed business.
type Claim struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	BusinessID  snowflake.ID  `json:"business_id" gorm:"column:business_id;not null;uniqueIndex:idx_business_claims_claimant,priority:1"`
	UserID      snowflake.ID  `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_business_claims_claimant,priority:2"`
	Reason      string        `json:"reason" gorm:"column:reason;type:text;not null"`
	Status      ClaimStatus   `json:"status" gorm:"column:status;type:text;not null;index"`
	ReviewNotes string        `json:"review_notes" gorm:"column:review_notes;type:text;not null;default:''"`
	ReviewedBy  *snowflake.ID `json:"reviewed_by,omitempty" gorm:"column:reviewed_by"`
	ReviewedAt  *time.Time    `json:"reviewed_at,omitempty" gorm:"column:reviewed_at"`
	CreatedAt   time.Time     `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Claim) TableName() string { return "business_claims" }

// Follow is the legacy user-to-business follow edge, kept alongside the
// entity follow graph for the business follower feed.
type Follow struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	BusinessID snowflake.ID `json:"business_id" gorm:"column:business_id;not null;uniqueIndex:idx_business_follows_edge,priority:1"`
	UserID     snowflake.ID `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_business_follows_edge,priority:2"`
	CreatedAt  time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Follow) TableName() string { return "business_follows" }
