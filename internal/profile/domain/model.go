// Package domain contains core types for user profiles.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profile is the public identity of a user. It shares its id with the users
// row and with the entities row of type user.
type Profile struct {
	ID                  snowflake.ID `json:"id" gorm:"primaryKey"`
	Username            string       `json:"username" gorm:"column:username;type:text;not null;uniqueIndex"`
	DisplayName         string       `json:"display_name" gorm:"column:display_name;type:text;not null;default:''"`
	Bio                 string       `json:"bio" gorm:"column:bio;type:text;not null;default:''"`
	AvatarURL           string       `json:"avatar_url" gorm:"column:avatar_url;type:text;not null;default:''"`
	IsAdmin             bool         `json:"is_admin" gorm:"column:is_admin;not null;default:false"`
	IsBusinessOwner     bool         `json:"is_business_owner" gorm:"column:is_business_owner;not null;default:false"`
	OnboardingCompleted bool         `json:"onboarding_completed" gorm:"column:onboarding_completed;not null;default:false"`
	OnboardingSkipped   bool         `json:"onboarding_skipped" gorm:"column:onboarding_skipped;not null;default:false"`
	FollowersCount      int64        `json:"followers_count" gorm:"column:followers_count;not null;default:0"`
	FollowingCount      int64        `json:"following_count" gorm:"column:following_count;not null;default:0"`
	CreatedAt           time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt           time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Profile) TableName() string { return "profiles" }
