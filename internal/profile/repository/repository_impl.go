package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/profile/domain"
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

func (r *repo) Get(ctx context.Context, id snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	var profile domain.Profile
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repo) UsernameTaken(ctx context.Context, username string, excludeID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Profile{}).
		Where("username = ? AND id <> ?", username, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Profile{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// Suggested ranks candidates the way the suggestions feed does: follower
// popularity weighted 2x, rating activity 1.5x, plus a flat boost for users
// that rated anything recently. Already-followed users and self are excluded.
func (r *repo) Suggested(ctx context.Context, userID snowflake.ID, recentSince time.Time, limit int) ([]domain.SuggestedUser, error) {
	var rows []domain.SuggestedUser
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.*,
		        (p.followers_count * 2.0
		         + COALESCE(a.rating_count, 0) * 1.5
		         + CASE WHEN COALESCE(a.recent_count, 0) > 0 THEN 3.0 ELSE 0.0 END) AS score
		 FROM profiles p
		 LEFT JOIN (
		     SELECT user_id,
		            COUNT(*) AS rating_count,
		            SUM(CASE WHEN created_at >= ? THEN 1 ELSE 0 END) AS recent_count
		     FROM ratings
		     GROUP BY user_id
		 ) a ON a.user_id = p.id
		 WHERE p.id <> ?
		   AND p.id NOT IN (SELECT following_id FROM entity_follows WHERE follower_id = ?)
		 ORDER BY score DESC, p.id DESC
		 LIMIT ?`,
		recentSince,
		userID,
		userID,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
