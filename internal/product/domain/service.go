package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create adds a product to a business. Only the owner or an active
	// manager may do so; attributes are validated against the category's
	// attribute schema.
	Create(ctx context.Context, req CreateProductRequest) (*Product, error)
	Update(ctx context.Context, req UpdateProductRequest) (*Product, error)
	Get(ctx context.Context, id snowflake.ID) (*Product, error)
	GetBySlug(ctx context.Context, businessID snowflake.ID, slug string) (*Product, error)
	ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]Product, error)
	Delete(ctx context.Context, actorID, productID snowflake.ID) error
}

type CreateProductRequest struct {
	ActorID     snowflake.ID
	BusinessID  snowflake.ID
	CategoryID  *snowflake.ID
	Name        string
	Description string
	PhotoURL    string
	Attributes  map[string]any
}

// UpdateProductRequest applies partial updates. Nil fields are untouched.
type UpdateProductRequest struct {
	ActorID     snowflake.ID
	ProductID   snowflake.ID
	CategoryID  *snowflake.ID
	Name        *string
	Description *string
	PhotoURL    *string
	Attributes  map[string]any
}
