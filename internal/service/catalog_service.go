package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type catalogRepository interface {
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)
	FindCategoryByID(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	ListDifficultyLevels(ctx context.Context, activeOnly bool) ([]models.DifficultyLevel, error)
	FindDifficultyLevelByID(ctx context.Context, id string) (*models.DifficultyLevel, error)
	CreateDifficultyLevel(ctx context.Context, level *models.DifficultyLevel) error
	UpdateDifficultyLevel(ctx context.Context, level *models.DifficultyLevel) error
}

// CatalogService manages the category and difficulty-level lookups that
// courses reference. Active lists are cached, operator writes invalidate.
type CatalogService struct {
	repo     catalogRepository
	cache    *CacheService
	cacheTTL time.Duration
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCatalogService constructs CatalogService.
func NewCatalogService(repo catalogRepository, cache *CacheService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, cache: cache, cacheTTL: cacheTTL, validate: validate, logger: logger}
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name   string `json:"name" validate:"required,max=120"`
	Active *bool  `json:"active" validate:"omitempty"`
}

// DifficultyLevelInput is the create/update payload for a difficulty level.
type DifficultyLevelInput struct {
	Name      string `json:"name" validate:"required,max=120"`
	SortOrder *int   `json:"sortOrder" validate:"omitempty,min=0"`
	Active    *bool  `json:"active" validate:"omitempty"`
}

// Categories returns categories. Learner-facing callers pass activeOnly.
func (s *CatalogService) Categories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	cacheKey := "catalog:categories:all"
	if activeOnly {
		cacheKey = "catalog:categories:active"
	}
	if s.cache != nil {
		var cached []models.Category
		if s.cache.Get(ctx, cacheKey, &cached) {
			return cached, nil
		}
	}

	categories, err := s.repo.ListCategories(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, "CATALOG_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to list categories")
	}
	if categories == nil {
		categories = []models.Category{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, categories, s.cacheTTL)
	}
	return categories, nil
}

// CreateCategory inserts a new category, active by default.
func (s *CatalogService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid category payload"), validationDetails(err))
	}

	category := &models.Category{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(input.Name),
		Active: true,
	}
	if input.Active != nil {
		category.Active = *input.Active
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, "CATALOG_WRITE_FAILED", appErrors.ErrInternal.Status, "failed to create category")
	}
	s.invalidate(ctx)
	return category, nil
}

// UpdateCategory rewrites a category's name and active flag.
func (s *CatalogService) UpdateCategory(ctx context.Context, categoryID string, input CategoryInput) (*models.Category, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid category payload"), validationDetails(err))
	}

	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("CATEGORY_NOT_FOUND", appErrors.ErrNotFound.Status, "category not found")
		}
		return nil, appErrors.Wrap(err, "CATALOG_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load category")
	}

	category.Name = strings.TrimSpace(input.Name)
	if input.Active != nil {
		category.Active = *input.Active
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, appErrors.Wrap(err, "CATALOG_WRITE_FAILED", appErrors.ErrInternal.Status, "failed to update category")
	}
	s.invalidate(ctx)
	return category, nil
}

// DifficultyLevels returns levels in presentation order.
func (s *CatalogService) DifficultyLevels(ctx context.Context, activeOnly bool) ([]models.DifficultyLevel, error) {
	cacheKey := "catalog:difficulty-levels:all"
	if activeOnly {
		cacheKey = "catalog:difficulty-levels:active"
	}
	if s.cache != nil {
		var cached []models.DifficultyLevel
		if s.cache.Get(ctx, cacheKey, &cached) {
			return cached, nil
		}
	}

	levels, err := s.repo.ListDifficultyLevels(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, "CATALOG_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to list difficulty levels")
	}
	if levels == nil {
		levels = []models.DifficultyLevel{}
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, levels, s.cacheTTL)
	}
	return levels, nil
}

// CreateDifficultyLevel inserts a new level, active by default.
func (s *CatalogService) CreateDifficultyLevel(ctx context.Context, input DifficultyLevelInput) (*models.DifficultyLevel, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid difficulty level payload"), validationDetails(err))
	}

	level := &models.DifficultyLevel{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(input.Name),
		Active: true,
	}
	if input.SortOrder != nil {
		level.SortOrder = *input.SortOrder
	}
	if input.Active != nil {
		level.Active = *input.Active
	}
	if err := s.repo.CreateDifficultyLevel(ctx, level); err != nil {
		return nil, appErrors.Wrap(err, "CATALOG_WRITE_FAILED", appErrors.ErrInternal.Status, "failed to create difficulty level")
	}
	s.invalidate(ctx)
	return level, nil
}

// UpdateDifficultyLevel rewrites a level's name, order and active flag.
func (s *CatalogService) UpdateDifficultyLevel(ctx context.Context, levelID string, input DifficultyLevelInput) (*models.DifficultyLevel, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid difficulty level payload"), validationDetails(err))
	}

	level, err := s.repo.FindDifficultyLevelByID(ctx, levelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("DIFFICULTY_LEVEL_NOT_FOUND", appErrors.ErrNotFound.Status, "difficulty level not found")
		}
		return nil, appErrors.Wrap(err, "CATALOG_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load difficulty level")
	}

	level.Name = strings.TrimSpace(input.Name)
	if input.SortOrder != nil {
		level.SortOrder = *input.SortOrder
	}
	if input.Active != nil {
		level.Active = *input.Active
	}
	if err := s.repo.UpdateDifficultyLevel(ctx, level); err != nil {
		return nil, appErrors.Wrap(err, "CATALOG_WRITE_FAILED", appErrors.ErrInternal.Status, "failed to update difficulty level")
	}
	s.invalidate(ctx)
	return level, nil
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, "catalog:*")
}
