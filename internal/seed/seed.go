// Package seed bootstraps baseline rows on startup: the default category
// trees and, outside production, a default admin account. Every entry point
// is idempotent so restarts are safe.
package seed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	authdomain "github.com/voozea/voozea/internal/auth/domain"
	"github.com/voozea/voozea/internal/auth/password"
	categorydomain "github.com/voozea/voozea/internal/category/domain"
	entitydomain "github.com/voozea/voozea/internal/entity/domain"
	profiledomain "github.com/voozea/voozea/internal/profile/domain"
	"gorm.io/gorm"
)

const (
	defaultAdminEmail    = "admin@voozea.local"
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
	defaultAdminDisplay  = "Voozea Admin"
)

// defaultBusinessTypes maps each seeded business type to the product category
// it defaults to.
var defaultBusinessTypes = map[string]string{
	"Cafe":       "Coffee",
	"Restaurant": "Food",
	"Brewery":    "Beer",
	"Bar":        "Drinks",
	"Bakery":     "Pastry",
}

// EnsureDefaultCategories seeds the business type and product category trees.
func EnsureDefaultCategories(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for businessType, productCategory := range defaultBusinessTypes {
			product, err := ensureCategory(ctx, tx, node, categorydomain.TypeProduct, productCategory, nil)
			if err != nil {
				return err
			}
			if _, err := ensureCategory(ctx, tx, node, categorydomain.TypeBusiness, businessType, &product.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDefaultAdmin seeds an admin account for local and staging setups. The
// password is the well-known default; production never calls this.
func EnsureDefaultAdmin(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing authdomain.User
		err := tx.Where("lower(email) = ?", defaultAdminEmail).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hash, err := password.Hash(defaultAdminPassword)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		user := &authdomain.User{
			ID:           node.Generate(),
			Email:        defaultAdminEmail,
			PasswordHash: hash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := &profiledomain.Profile{
			ID:          user.ID,
			Username:    defaultAdminUsername,
			DisplayName: defaultAdminDisplay,
			IsAdmin:     true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		return tx.Create(&entitydomain.EntityRecord{
			ID:         user.ID,
			EntityType: entitydomain.EntityTypeUser,
			CreatedAt:  now,
		}).Error
	})
}

func ensureCategory(
	ctx context.Context,
	tx *gorm.DB,
	node *snowflake.Node,
	categoryType categorydomain.CategoryType,
	name string,
	defaultProductCategoryID *snowflake.ID,
) (*categorydomain.Category, error) {
	categorySlug := slug.Make(strings.TrimSpace(name))

	var existing categorydomain.Category
	err := tx.WithContext(ctx).
		Where("category_type = ? AND slug = ?", categoryType, categorySlug).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	category := &categorydomain.Category{
		ID:                       node.Generate(),
		Name:                     name,
		Slug:                     categorySlug,
		CategoryType:             categoryType,
		DefaultProductCategoryID: defaultProductCategoryID,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := tx.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}
