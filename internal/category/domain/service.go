package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Service interface {
	Create(ctx context.Context, req CreateCategoryRequest) (*Category, error)
	Update(ctx context.Context, req UpdateCategoryRequest) (*Category, error)
	Get(ctx context.Context, id snowflake.ID) (*Category, error)
	GetBySlug(ctx context.Context, categoryType CategoryType, slug string) (*Category, error)
	List(ctx context.Context, categoryType CategoryType) ([]Category, error)

	// Delete refuses to remove a category that is still referenced. The guard
	// checks businesses, products, default references and children, in that
	// order.
	Delete(ctx context.Context, id snowflake.ID) error
}

type CreateCategoryRequest struct {
	Name                     string
	CategoryType             CategoryType
	ParentID                 *snowflake.ID
	DefaultProductCategoryID *snowflake.ID
	AttributeSchema          datatypes.JSON
}

// UpdateCategoryRequest applies partial updates. Nil fields are untouched.
type UpdateCategoryRequest struct {
	CategoryID               snowflake.ID
	Name                     *string
	ParentID                 *snowflake.ID
	DefaultProductCategoryID *snowflake.ID
	AttributeSchema          *datatypes.JSON
}
