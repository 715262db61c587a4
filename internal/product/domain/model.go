// Package domain contains products offered by businesses. Rating aggregates
// on the product are denormalized and maintained by the rating module.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Product struct {
	ID            snowflake.ID   `json:"id" gorm:"primaryKey"`
	BusinessID    snowflake.ID   `json:"business_id" gorm:"column:business_id;not null;uniqueIndex:idx_products_business_slug,priority:1"`
	CategoryID    *snowflake.ID  `json:"category_id,omitempty" gorm:"column:category_id;index"`
	Name          string         `json:"name" gorm:"column:name;type:text;not null"`
	Slug          string         `json:"slug" gorm:"column:slug;type:text;not null;uniqueIndex:idx_products_business_slug,priority:2"`
	Description   string         `json:"description" gorm:"column:description;type:text;not null;default:''"`
	PhotoURL      string         `json:"photo_url" gorm:"column:photo_url;type:text;not null;default:''"`
	Attributes    datatypes.JSON `json:"attributes,omitempty" gorm:"column:attributes"`
	AverageRating float64        `json:"average_rating" gorm:"column:average_rating;not null;default:0"`
	TotalRatings  int64          `json:"total_ratings" gorm:"column:total_ratings;not null;default:0"`
	CreatedAt     time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt     time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
