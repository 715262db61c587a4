package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/category/domain"
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

func (r *repo) Create(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *repo) Get(ctx context.Context, id snowflake.ID) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repo) GetBySlug(ctx context.Context, categoryType domain.CategoryType, slug string) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).
		Where("category_type = ? AND slug = ?", categoryType, slug).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repo) SlugTaken(ctx context.Context, categoryType domain.CategoryType, slug string, excludeID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("category_type = ? AND slug = ? AND id <> ?", categoryType, slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Category{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Category{}).Error
}

func (r *repo) List(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Where("category_type = ?", categoryType).
		Order("name ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) CountBusinessRefs(ctx context.Context, categoryID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("businesses").
		Where("business_type_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *repo) CountProductRefs(ctx context.Context, categoryID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("products").
		Where("category_id = ?", categoryID).
		Count(&count).Error
	return count, err
}

func (r *repo) FindDefaultRef(ctx context.Context, categoryID snowflake.ID) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).
		Where("category_type = ? AND default_product_category_id = ?", domain.TypeBusiness, categoryID).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repo) CountChildren(ctx context.Context, categoryID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("parent_id = ?", categoryID).
		Count(&count).Error
	return count, err
}
