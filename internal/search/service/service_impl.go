package service

import (
	"context"
	"strings"

	"github.com/voozea/voozea/internal/search/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minQueryLen  = 2
	perKindLimit = 5
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("search.service"),
	}
}

func (s *Service) Search(ctx context.Context, query string) (*domain.Result, error) {
	result := &domain.Result{
		Businesses: []domain.BusinessHit{},
		Products:   []domain.ProductHit{},
		Users:      []domain.UserHit{},
	}

	query = strings.TrimSpace(query)
	if len(query) < minQueryLen {
		return result, nil
	}
	pattern := likePattern(query)

	if err := s.db.WithContext(ctx).Raw(
		`SELECT id, name, slug, avatar_url, city
		 FROM businesses
		 WHERE lower(name) LIKE ? ESCAPE '\'
		 ORDER BY followers_count DESC, id DESC
		 LIMIT ?`,
		pattern, perKindLimit,
	).Scan(&result.Businesses).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Raw(
		`SELECT p.id, p.name, p.slug, p.photo_url,
		        b.id AS business_id, b.name AS business_name, b.slug AS business_slug
		 FROM products p
		 JOIN businesses b ON b.id = p.business_id
		 WHERE lower(p.name) LIKE ? ESCAPE '\'
		 ORDER BY p.total_ratings DESC, p.id DESC
		 LIMIT ?`,
		pattern, perKindLimit,
	).Scan(&result.Products).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Raw(
		`SELECT id, username, display_name, avatar_url
		 FROM profiles
		 WHERE lower(username) LIKE ? ESCAPE '\' OR lower(display_name) LIKE ? ESCAPE '\'
		 ORDER BY followers_count DESC, id DESC
		 LIMIT ?`,
		pattern, pattern, perKindLimit,
	).Scan(&result.Users).Error; err != nil {
		return nil, err
	}

	return result, nil
}

// likePattern builds a contains-match pattern with LIKE wildcards escaped.
func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(query))
	return "%" + escaped + "%"
}
