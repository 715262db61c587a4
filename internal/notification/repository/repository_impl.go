package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/notification/domain"
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

func (r *repo) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *repo) List(ctx context.Context, userID snowflake.ID, before *domain.ListCursor, limit int) ([]domain.Notification, error) {
	stmt := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ?", userID)
	if before != nil {
		stmt = stmt.Where("(created_at < ?) OR (created_at = ? AND id < ?)", before.CreatedAt, before.CreatedAt, before.ID)
	}
	if limit > 0 {
		stmt = stmt.Limit(limit)
	}

	var rows []domain.Notification
	err := stmt.Order("created_at DESC, id DESC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) Get(ctx context.Context, id snowflake.ID) (*domain.Notification, error) {
	var notification domain.Notification
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &notification, nil
}

func (r *repo) UnreadCount(ctx context.Context, userID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repo) MarkRead(ctx context.Context, id snowflake.ID) error {
	tx := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *repo) MarkAllRead(ctx context.Context, userID snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
