// Package domain contains product ratings and the social layer around them:
// photos, likes and comments. A user keeps at most one rating per product.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	MinScore = 1.0
	MaxScore = 10.0
)

type Rating struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID     snowflake.ID `json:"product_id" gorm:"column:product_id;not null;uniqueIndex:idx_ratings_product_user,priority:1"`
	UserID        snowflake.ID `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_ratings_product_user,priority:2"`
	Score         float64      `json:"score" gorm:"column:score;type:numeric(4,1);not null"`
	Comment       string       `json:"comment" gorm:"column:comment;type:text;not null;default:''"`
	LikesCount    int64        `json:"likes_count" gorm:"column:likes_count;not null;default:0"`
	CommentsCount int64        `json:"comments_count" gorm:"column:comments_count;not null;default:0"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Rating) TableName() string { return "ratings" }

type RatingPhoto struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	RatingID  snowflake.ID `json:"rating_id" gorm:"column:rating_id;not null;index"`
	PhotoURL  string       `json:"photo_url" gorm:"column:photo_url;type:text;not null"`
	Position  int          `json:"position" gorm:"column:position;not null;default:0"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RatingPhoto) TableName() string { return "rating_photos" }

type RatingLike struct {
	ID        snowflake.ID `gorm:"primaryKey"`
	RatingID  snowflake.ID `gorm:"column:rating_id;not null;uniqueIndex:idx_rating_likes_edge,priority:1"`
	UserID    snowflake.ID `gorm:"column:user_id;not null;uniqueIndex:idx_rating_likes_edge,priority:2"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RatingLike) TableName() string { return "rating_likes" }

type RatingComment struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	RatingID  snowflake.ID `json:"rating_id" gorm:"column:rating_id;not null;index"`
	UserID    snowflake.ID `json:"user_id" gorm:"column:user_id;not null"`
	Content   string       `json:"content" gorm:"column:content;type:text;not null"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (RatingComment) TableName() string { return "rating_comments" }
