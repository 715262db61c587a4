package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/rating/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	return &repo{db: tx}
}

func (r *repo) Create(ctx context.Context, rating *domain.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *repo) Get(ctx context.Context, id snowflake.ID) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repo) Find(ctx context.Context, productID, userID snowflake.ID) (*domain.Rating, error) {
	var rating domain.Rating
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Rating{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrRatingNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Rating{}).Error
}

func (r *repo) ListByProduct(ctx context.Context, productID snowflake.ID) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *repo) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *repo) ReplacePhotos(ctx context.Context, ratingID snowflake.ID, photos []domain.RatingPhoto) error {
	if err := r.db.WithContext(ctx).
		Where("rating_id = ?", ratingID).
		Delete(&domain.RatingPhoto{}).Error; err != nil {
		return err
	}
	if len(photos) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&photos).Error
}

func (r *repo) ListPhotos(ctx context.Context, ratingID snowflake.ID) ([]domain.RatingPhoto, error) {
	var photos []domain.RatingPhoto
	err := r.db.WithContext(ctx).
		Where("rating_id = ?", ratingID).
		Order("position ASC, id ASC").
		Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *repo) ProductAggregate(ctx context.Context, productID snowflake.ID) (domain.Aggregate, error) {
	var agg domain.Aggregate
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(AVG(score), 0) AS average, COUNT(*) AS count
		 FROM ratings WHERE product_id = ?`,
		productID,
	).Scan(&agg).Error
	return agg, err
}

func (r *repo) BusinessAggregate(ctx context.Context, businessID snowflake.ID) (domain.Aggregate, error) {
	var agg domain.Aggregate
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(AVG(r.score), 0) AS average, COUNT(*) AS count
		 FROM ratings r
		 JOIN products p ON p.id = r.product_id
		 WHERE p.business_id = ?`,
		businessID,
	).Scan(&agg).Error
	return agg, err
}

func (r *repo) ApplyProductAggregate(ctx context.Context, productID snowflake.ID, agg domain.Aggregate) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE products SET average_rating = ?, total_ratings = ? WHERE id = ?`,
		agg.Average, agg.Count, productID,
	).Error
}

func (r *repo) ApplyBusinessAggregate(ctx context.Context, businessID snowflake.ID, agg domain.Aggregate) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE businesses SET average_rating = ?, total_ratings = ? WHERE id = ?`,
		agg.Average, agg.Count, businessID,
	).Error
}

func (r *repo) CreateLike(ctx context.Context, like *domain.RatingLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *repo) DeleteLike(ctx context.Context, ratingID, userID snowflake.ID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("rating_id = ? AND user_id = ?", ratingID, userID).
		Delete(&domain.RatingLike{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repo) AdjustLikesCount(ctx context.Context, ratingID snowflake.ID, delta int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE ratings
		 SET likes_count = CASE WHEN likes_count + ? < 0 THEN 0 ELSE likes_count + ? END
		 WHERE id = ?`,
		delta, delta, ratingID,
	).Error
}

func (r *repo) CreateComment(ctx context.Context, comment *domain.RatingComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *repo) GetComment(ctx context.Context, id snowflake.ID) (*domain.RatingComment, error) {
	var comment domain.RatingComment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *repo) DeleteComment(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.RatingComment{}).Error
}

func (r *repo) ListComments(ctx context.Context, ratingID snowflake.ID) ([]domain.RatingComment, error) {
	var comments []domain.RatingComment
	err := r.db.WithContext(ctx).
		Where("rating_id = ?", ratingID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *repo) AdjustCommentsCount(ctx context.Context, ratingID snowflake.ID, delta int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE ratings
		 SET comments_count = CASE WHEN comments_count + ? < 0 THEN 0 ELSE comments_count + ? END
		 WHERE id = ?`,
		delta, delta, ratingID,
	).Error
}
