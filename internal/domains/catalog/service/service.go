package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"foodgram-backend/internal/domains/catalog/model"
	"foodgram-backend/internal/domains/catalog/repository"
	"foodgram-backend/internal/shared/apperr"
	"foodgram-backend/internal/shared/utils"
	"foodgram-backend/pkg/cache"
)

const (
	cacheTTL            = 10 * time.Minute
	cacheKeyTags        = "catalog:tags"
	cacheKeyIngredients = "catalog:ingredients:"
	cachePattern        = "catalog:*"
)

type ServiceInterface interface {
	ListTags(ctx context.Context) ([]model.Tag, error)
	GetTag(ctx context.Context, id int64) (*model.Tag, error)
	CreateTag(ctx context.Context, req model.CreateTagRequest) (*model.Tag, error)

	ListIngredients(ctx context.Context, namePrefix string) ([]model.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error)
	CreateIngredient(ctx context.Context, req model.CreateIngredientRequest) (*model.Ingredient, error)
}

type catalogService struct {
	repo  repository.Repository
	cache cache.Cache
}

// NewCatalogService - cache có thể nil (chạy không Redis)
func NewCatalogService(repo repository.Repository, c cache.Cache) ServiceInterface {
	return &catalogService{repo: repo, cache: c}
}

// =====================================================
// TAGS
// =====================================================

func (s *catalogService) ListTags(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if s.fromCache(ctx, cacheKeyTags, &tags) {
		return tags, nil
	}

	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, cacheKeyTags, tags)
	return tags, nil
}

func (s *catalogService) GetTag(ctx context.Context, id int64) (*model.Tag, error) {
	return s.repo.GetTag(ctx, id)
}

func (s *catalogService) CreateTag(ctx context.Context, req model.CreateTagRequest) (*model.Tag, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := req.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}

	slug := req.Slug
	if slug == "" {
		slug = utils.GenerateSlug(req.Name)
		if slug == "" {
			return nil, apperr.Validation(map[string]string{"slug": "cannot be derived from name, provide it explicitly"})
		}
	}

	tag := &model.Tag{Name: req.Name, Color: strings.ToUpper(req.Color), Slug: slug}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return tag, nil
}

// =====================================================
// INGREDIENTS
// =====================================================

func (s *catalogService) ListIngredients(ctx context.Context, namePrefix string) ([]model.Ingredient, error) {
	prefix := strings.ToLower(strings.TrimSpace(namePrefix))
	key := cacheKeyIngredients + prefix

	var ingredients []model.Ingredient
	if s.fromCache(ctx, key, &ingredients) {
		return ingredients, nil
	}

	ingredients, err := s.repo.ListIngredients(ctx, prefix)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, key, ingredients)
	return ingredients, nil
}

func (s *catalogService) GetIngredient(ctx context.Context, id int64) (*model.Ingredient, error) {
	return s.repo.GetIngredient(ctx, id)
}

func (s *catalogService) CreateIngredient(ctx context.Context, req model.CreateIngredientRequest) (*model.Ingredient, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.MeasurementUnit = strings.TrimSpace(req.MeasurementUnit)
	if err := req.Validate(); err != nil {
		return nil, apperr.FromValidation(err)
	}

	ingredient := &model.Ingredient{Name: req.Name, MeasurementUnit: req.MeasurementUnit}
	if err := s.repo.CreateIngredient(ctx, ingredient); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return ingredient, nil
}

// =====================================================
// CACHE HELPERS
// =====================================================

// Lỗi cache không làm fail request, chỉ log
func (s *catalogService) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache read failed")
		return false
	}
	return found
}

func (s *catalogService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, cacheTTL); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Catalog cache write failed")
	}
}

func (s *catalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, cachePattern); err != nil {
		log.Warn().Err(err).Msg("Catalog cache invalidation failed")
	}
}
