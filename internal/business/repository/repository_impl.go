package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/voozea/voozea/internal/business/domain"
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

func (r *repo) Create(ctx context.Context, business *domain.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}

func (r *repo) Get(ctx context.Context, id snowflake.ID) (*domain.Business, error) {
	var business domain.Business
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *repo) GetBySlug(ctx context.Context, slug string) (*domain.Business, error) {
	var business domain.Business
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&business).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrBusinessNotFound
	}
	if err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *repo) SlugTaken(ctx context.Context, slug string, excludeID snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Business{}).
		Where("slug = ? AND id <> ?", slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *repo) UpdateFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Business{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrBusinessNotFound
	}
	return nil
}

func (r *repo) CreateMembership(ctx context.Context, membership *domain.Membership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

func (r *repo) GetMembership(ctx context.Context, id snowflake.ID) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMembershipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repo) FindMembership(ctx context.Context, businessID, userID snowflake.ID) (*domain.Membership, error) {
	var membership domain.Membership
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *repo) UpdateMembershipFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Membership{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrMembershipNotFound
	}
	return nil
}

func (r *repo) DeleteMembership(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Membership{}).Error
}

func (r *repo) ListMemberships(ctx context.Context, businessID snowflake.ID) ([]domain.Membership, error) {
	var memberships []domain.Membership
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("created_at ASC, id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

func (r *repo) CreateClaim(ctx context.Context, claim *domain.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *repo) GetClaim(ctx context.Context, id snowflake.ID) (*domain.Claim, error) {
	var claim domain.Claim
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrClaimNotFound
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *repo) FindClaim(ctx context.Context, businessID, userID snowflake.ID) (*domain.Claim, error) {
	var claim domain.Claim
	err := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		First(&claim).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *repo) UpdateClaimFields(ctx context.Context, id snowflake.ID, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&domain.Claim{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return domain.ErrClaimNotFound
	}
	return nil
}

func (r *repo) DeleteClaim(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Claim{}).Error
}

func (r *repo) ListClaims(ctx context.Context, status domain.ClaimStatus) ([]domain.Claim, error) {
	stmt := r.db.WithContext(ctx).Model(&domain.Claim{})
	if status != "" {
		stmt = stmt.Where("status = ?", status)
	}

	var claims []domain.Claim
	err := stmt.Order("created_at DESC, id DESC").Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}

func (r *repo) CreateFollow(ctx context.Context, follow *domain.Follow) error {
	return r.db.WithContext(ctx).Create(follow).Error
}

func (r *repo) DeleteFollow(ctx context.Context, businessID, userID snowflake.ID) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("business_id = ? AND user_id = ?", businessID, userID).
		Delete(&domain.Follow{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repo) AdjustFollowersCount(ctx context.Context, businessID snowflake.ID, delta int64) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE businesses
		 SET followers_count = CASE WHEN followers_count + ? < 0 THEN 0 ELSE followers_count + ? END
		 WHERE id = ?`,
		delta, delta, businessID,
	).Error
}
