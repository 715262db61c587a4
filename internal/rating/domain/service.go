package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
)

type Service interface {
	// Rate creates or updates the caller's rating for a product. Photos, when
	// given, replace the previous set; product and business aggregates move in
	// the same transaction.
	Rate(ctx context.Context, req RateRequest) (*Rating, error)
	Get(ctx context.Context, id snowflake.ID) (*Rating, error)
	Delete(ctx context.Context, userID, ratingID snowflake.ID) error
	ListByProduct(ctx context.Context, productID snowflake.ID) ([]RatingView, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]Rating, error)
	Photos(ctx context.Context, ratingID snowflake.ID) ([]RatingPhoto, error)

	Like(ctx context.Context, userID, ratingID snowflake.ID) error
	Unlike(ctx context.Context, userID, ratingID snowflake.ID) error

	AddComment(ctx context.Context, req AddCommentRequest) (*CommentView, error)
	DeleteComment(ctx context.Context, userID, commentID snowflake.ID) error
	ListComments(ctx context.Context, ratingID snowflake.ID) ([]CommentView, error)
}

type RateRequest struct {
	UserID    snowflake.ID
	ProductID snowflake.ID
	Score     float64
	Comment   string
	// Photos replaces the rating's photo set when non-nil. An empty non-nil
	// slice clears it.
	Photos []string
}

type AddCommentRequest struct {
	UserID   snowflake.ID
	RatingID snowflake.ID
	Content  string
}

// RatingView is a rating with its author's profile for feed rendering.
type RatingView struct {
	Rating Rating                 `json:"rating"`
	Author *profiledomain.Profile `json:"author,omitempty"`
	Photos []RatingPhoto          `json:"photos,omitempty"`
}

type CommentView struct {
	Comment RatingComment          `json:"comment"`
	Author  *profiledomain.Profile `json:"author,omitempty"`
}
