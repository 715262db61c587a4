// Package domain contains the two category trees: business types and product
// categories. Both live in one table, discriminated by category_type.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type CategoryType string

const (
	TypeBusiness CategoryType = "business_type"
	TypeProduct  CategoryType = "product_category"
)

type Category struct {
	ID                       snowflake.ID   `json:"id" gorm:"primaryKey"`
	Name                     string         `json:"name" gorm:"column:name;type:text;not null"`
	Slug                     string         `json:"slug" gorm:"column:slug;type:text;not null;uniqueIndex:idx_categories_type_slug,priority:2"`
	CategoryType             CategoryType   `json:"category_type" gorm:"column:category_type;type:text;not null;uniqueIndex:idx_categories_type_slug,priority:1"`
	ParentID                 *snowflake.ID  `json:"parent_id,omitempty" gorm:"column:parent_id;index"`
	DefaultProductCategoryID *snowflake.ID  `json:"default_product_category_id,omitempty" gorm:"column:default_product_category_id"`
	AttributeSchema          datatypes.JSON `json:"attribute_schema,omitempty" gorm:"column:attribute_schema"`
	CreatedAt                time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt                time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Category) TableName() string { return "categories" }

// AttributeField is one entry of a product category's attribute schema. The
// schema drives validation of product attributes at write time.
type AttributeField struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Step     *float64 `json:"step,omitempty"`
	Options  []string `json:"options,omitempty"`
	Optional bool     `json:"optional,omitempty"`
}

const (
	FieldTypeNumber = "number"
	FieldTypeText   = "text"
	FieldTypeSelect = "select"
)
