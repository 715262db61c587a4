package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	businessdomain "github.com/voozea/voozea/internal/business/domain"
	categorydomain "github.com/voozea/voozea/internal/category/domain"
	"github.com/voozea/voozea/internal/clock"
	"github.com/voozea/voozea/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const slugProbeLimit = 50

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	Businesses businessdomain.Service
	Categories categorydomain.Service
	Clock      clock.Clock
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	businesses businessdomain.Service
	categories categorydomain.Service
	clock      clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("product.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		businesses: p.Businesses,
		categories: p.Categories,
		clock:      p.Clock,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if err := s.requireManager(ctx, req.BusinessID, req.ActorID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidProductName
	}

	attributes, err := s.validateAttributes(ctx, req.CategoryID, req.Attributes)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:          s.genID.Generate(),
		BusinessID:  req.BusinessID,
		CategoryID:  req.CategoryID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
		Attributes:  attributes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		uniqueSlug, err := s.uniqueSlug(ctx, repo, req.BusinessID, name, product.ID)
		if err != nil {
			return err
		}
		product.Slug = uniqueSlug

		return repo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("business_id", req.BusinessID.String()),
		zap.String("slug", product.Slug),
	)
	return product, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateProductRequest) (*domain.Product, error) {
	product, err := s.repo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, product.BusinessID, req.ActorID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidProductName
		}
		fields["name"] = name
	}
	if req.Description != nil {
		fields["description"] = strings.TrimSpace(*req.Description)
	}
	if req.PhotoURL != nil {
		fields["photo_url"] = strings.TrimSpace(*req.PhotoURL)
	}

	categoryID := product.CategoryID
	if req.CategoryID != nil {
		categoryID = req.CategoryID
		fields["category_id"] = *req.CategoryID
	}
	if req.Attributes != nil {
		attributes, err := s.validateAttributes(ctx, categoryID, req.Attributes)
		if err != nil {
			return nil, err
		}
		fields["attributes"] = attributes
	} else if req.CategoryID != nil {
		// Category changed without new attributes; the stored ones must still
		// fit the new schema.
		var current map[string]any
		if len(product.Attributes) > 0 {
			if err := json.Unmarshal(product.Attributes, &current); err != nil {
				return nil, err
			}
		}
		attributes, err := s.validateAttributes(ctx, categoryID, current)
		if err != nil {
			return nil, err
		}
		fields["attributes"] = attributes
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now()
		if err := s.repo.UpdateFields(ctx, product.ID, fields); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, product.ID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, businessID snowflake.ID, slugValue string) (*domain.Product, error) {
	return s.repo.GetBySlug(ctx, businessID, strings.ToLower(strings.TrimSpace(slugValue)))
}

func (s *Service) ListByBusiness(ctx context.Context, businessID snowflake.ID) ([]domain.Product, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}

func (s *Service) Delete(ctx context.Context, actorID, productID snowflake.ID) error {
	product, err := s.repo.Get(ctx, productID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, product.BusinessID, actorID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, productID)
}

func (s *Service) requireManager(ctx context.Context, businessID, actorID snowflake.ID) error {
	role, err := s.businesses.RoleOf(ctx, businessID, actorID)
	if err != nil {
		return err
	}
	if role != businessdomain.RoleOwner && role != businessdomain.RoleManager {
		return domain.ErrNotManager
	}
	return nil
}

func (s *Service) validateAttributes(ctx context.Context, categoryID *snowflake.ID, values map[string]any) (datatypes.JSON, error) {
	if values == nil {
		values = map[string]any{}
	}

	if categoryID == nil || *categoryID == 0 {
		if len(values) == 0 {
			return nil, nil
		}
		raw, err := json.Marshal(values)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(raw), nil
	}

	category, err := s.categories.Get(ctx, *categoryID)
	if err != nil {
		return nil, err
	}
	if category.CategoryType != categorydomain.TypeProduct {
		return nil, domain.ErrCategoryWrongType
	}

	schema, err := categorydomain.ParseAttributeSchema(category.AttributeSchema)
	if err != nil {
		return nil, err
	}
	coerced, err := schema.ValidateValues(values)
	if err != nil {
		return nil, err
	}
	if len(coerced) == 0 {
		return nil, nil
	}

	raw, err := json.Marshal(coerced)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func (s *Service) uniqueSlug(ctx context.Context, repo domain.Repository, businessID snowflake.ID, name string, selfID snowflake.ID) (string, error) {
	base := slug.Make(name)
	if base == "" {
		return "", domain.ErrInvalidProductName
	}

	candidate := base
	for i := 2; i <= slugProbeLimit; i++ {
		taken, err := repo.SlugTaken(ctx, businessID, candidate, selfID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", domain.ErrProductSlugTaken
}
