package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, category *Category) error
	Get(ctx context.Context, id snowflake.ID) (*Category, error)
	GetBySlug(ctx context.Context, categoryType CategoryType, slug string) (*Category, error)
	SlugTaken(ctx context.Context, categoryType CategoryType, slug string, excludeID snowflake.ID) (bool, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, categoryType CategoryType) ([]Category, error)

	CountBusinessRefs(ctx context.Context, categoryID snowflake.ID) (int64, error)
	CountProductRefs(ctx context.Context, categoryID snowflake.ID) (int64, error)
	FindDefaultRef(ctx context.Context, categoryID snowflake.ID) (*Category, error)
	CountChildren(ctx context.Context, categoryID snowflake.ID) (int64, error)
}
