package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/voozea/voozea/internal/category/domain"
	"github.com/voozea/voozea/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("category.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCategoryRequest) (*domain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidCategoryName
	}
	if req.CategoryType != domain.TypeBusiness && req.CategoryType != domain.TypeProduct {
		return nil, domain.ErrInvalidCategoryType
	}

	if err := s.checkParent(ctx, req.CategoryType, req.ParentID); err != nil {
		return nil, err
	}
	if err := s.checkDefault(ctx, req.CategoryType, req.DefaultProductCategoryID); err != nil {
		return nil, err
	}
	if len(req.AttributeSchema) > 0 {
		if req.CategoryType != domain.TypeProduct {
			return nil, fmt.Errorf("%w: only product categories carry schemas", domain.ErrInvalidAttributeSchema)
		}
		if _, err := domain.ParseAttributeSchema(req.AttributeSchema); err != nil {
			return nil, err
		}
	}

	categorySlug := slug.Make(name)
	taken, err := s.repo.SlugTaken(ctx, req.CategoryType, categorySlug, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, domain.ErrCategorySlugTaken
	}

	now := s.clock.Now()
	category := &domain.Category{
		ID:                       s.genID.Generate(),
		Name:                     name,
		Slug:                     categorySlug,
		CategoryType:             req.CategoryType,
		ParentID:                 req.ParentID,
		DefaultProductCategoryID: req.DefaultProductCategoryID,
		AttributeSchema:          req.AttributeSchema,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.Info("category created",
		zap.String("category_id", category.ID.String()),
		zap.String("category_type", string(category.CategoryType)),
		zap.String("slug", category.Slug),
	)
	return category, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCategoryRequest) (*domain.Category, error) {
	category, err := s.repo.Get(ctx, req.CategoryID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidCategoryName
		}
		newSlug := slug.Make(name)
		if newSlug != category.Slug {
			taken, err := s.repo.SlugTaken(ctx, category.CategoryType, newSlug, category.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrCategorySlugTaken
			}
			fields["slug"] = newSlug
		}
		fields["name"] = name
	}
	if req.ParentID != nil {
		if err := s.checkParent(ctx, category.CategoryType, req.ParentID); err != nil {
			return nil, err
		}
		fields["parent_id"] = *req.ParentID
	}
	if req.DefaultProductCategoryID != nil {
		if err := s.checkDefault(ctx, category.CategoryType, req.DefaultProductCategoryID); err != nil {
			return nil, err
		}
		fields["default_product_category_id"] = *req.DefaultProductCategoryID
	}
	if req.AttributeSchema != nil {
		if category.CategoryType != domain.TypeProduct {
			return nil, fmt.Errorf("%w: only product categories carry schemas", domain.ErrInvalidAttributeSchema)
		}
		if _, err := domain.ParseAttributeSchema(*req.AttributeSchema); err != nil {
			return nil, err
		}
		fields["attribute_schema"] = *req.AttributeSchema
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now()
		if err := s.repo.UpdateFields(ctx, category.ID, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, category.ID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Category, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, categoryType domain.CategoryType, slugValue string) (*domain.Category, error) {
	return s.repo.GetBySlug(ctx, categoryType, strings.ToLower(strings.TrimSpace(slugValue)))
}

func (s *Service) List(ctx context.Context, categoryType domain.CategoryType) ([]domain.Category, error) {
	return s.repo.List(ctx, categoryType)
}

// Delete guards run in a fixed order so the caller learns about the strongest
// reference first: businesses, then products, then a business type that uses
// this category as its default, then children.
func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	category, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	businesses, err := s.repo.CountBusinessRefs(ctx, id)
	if err != nil {
		return err
	}
	if businesses > 0 {
		return domain.ErrCategoryHasBusinesses
	}

	products, err := s.repo.CountProductRefs(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return domain.ErrCategoryHasProducts
	}

	defaultRef, err := s.repo.FindDefaultRef(ctx, id)
	if err != nil {
		return err
	}
	if defaultRef != nil {
		return fmt.Errorf("%w: %s", domain.ErrCategoryIsDefault, defaultRef.Name)
	}

	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return domain.ErrCategoryHasChildren
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("category deleted",
		zap.String("category_id", id.String()),
		zap.String("category_type", string(category.CategoryType)),
	)
	return nil
}

func (s *Service) checkParent(ctx context.Context, categoryType domain.CategoryType, parentID *snowflake.ID) error {
	if parentID == nil || *parentID == 0 {
		return nil
	}
	parent, err := s.repo.Get(ctx, *parentID)
	if err != nil {
		return err
	}
	if parent.CategoryType != categoryType {
		return domain.ErrParentTypeMismatch
	}
	return nil
}

func (s *Service) checkDefault(ctx context.Context, categoryType domain.CategoryType, defaultID *snowflake.ID) error {
	if defaultID == nil || *defaultID == 0 {
		return nil
	}
	if categoryType != domain.TypeBusiness {
		return domain.ErrDefaultNotProduct
	}
	target, err := s.repo.Get(ctx, *defaultID)
	if err != nil {
		return err
	}
	if target.CategoryType != domain.TypeProduct {
		return domain.ErrDefaultNotProduct
	}
	return nil
}
