package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Aggregate is the recomputed rating summary for a product or a business.
type Aggregate struct {
	Average float64
	Count   int64
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, rating *Rating) error
	Get(ctx context.Context, id snowflake.ID) (*Rating, error)
	Find(ctx context.Context, productID, userID snowflake.ID) (*Rating, error)
	UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error
	Delete(ctx context.Context, id snowflake.ID) error
	ListByProduct(ctx context.Context, productID snowflake.ID) ([]Rating, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Rating, error)

	ReplacePhotos(ctx context.Context, ratingID snowflake.ID, photos []RatingPhoto) error
	ListPhotos(ctx context.Context, ratingID snowflake.ID) ([]RatingPhoto, error)

	// ProductAggregate recomputes the product's rating summary from its rows.
	ProductAggregate(ctx context.Context, productID snowflake.ID) (Aggregate, error)
	// BusinessAggregate recomputes the business summary across its products.
	BusinessAggregate(ctx context.Context, businessID snowflake.ID) (Aggregate, error)
	ApplyProductAggregate(ctx context.Context, productID snowflake.ID, agg Aggregate) error
	ApplyBusinessAggregate(ctx context.Context, businessID snowflake.ID, agg Aggregate) error

	CreateLike(ctx context.Context, like *RatingLike) error
	DeleteLike(ctx context.Context, ratingID, userID snowflake.ID) (bool, error)
	AdjustLikesCount(ctx context.Context, ratingID snowflake.ID, delta int64) error

	CreateComment(ctx context.Context, comment *RatingComment) error
	GetComment(ctx context.Context, id snowflake.ID) (*RatingComment, error)
	DeleteComment(ctx context.Context, id snowflake.ID) error
	ListComments(ctx context.Context, ratingID snowflake.ID) ([]RatingComment, error)
	AdjustCommentsCount(ctx context.Context, ratingID snowflake.ID, delta int64) error
}
