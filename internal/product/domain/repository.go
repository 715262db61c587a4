package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, product *Product) error
	Get(ctx context.Context, id snowflake.ID) (*Product, error)
	GetBySlug(ctx context.Context, businessID snowflake.ID, slug string) (*Product, error)
	SlugTaken(ctx context.Context, businessID snowflake.ID, slug string, excludeID snowflake.ID) (bool, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
	ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]Product, error)
}
