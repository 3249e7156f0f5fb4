package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type catalogRepoStub struct {
	categories []models.Category
	levels     []models.DifficultyLevel
	created    []*models.Category
	updated    []*models.Category
}

func (s *catalogRepoStub) ListCategories(_ context.Context, activeOnly bool) ([]models.Category, error) {
	if !activeOnly {
		return s.categories, nil
	}
	var out []models.Category
	for _, c := range s.categories {
		if c.Active {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *catalogRepoStub) FindCategoryByID(_ context.Context, id string) (*models.Category, error) {
	for i := range s.categories {
		if s.categories[i].ID == id {
			copy := s.categories[i]
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *catalogRepoStub) CreateCategory(_ context.Context, category *models.Category) error {
	s.created = append(s.created, category)
	return nil
}

func (s *catalogRepoStub) UpdateCategory(_ context.Context, category *models.Category) error {
	s.updated = append(s.updated, category)
	return nil
}

func (s *catalogRepoStub) ListDifficultyLevels(_ context.Context, activeOnly bool) ([]models.DifficultyLevel, error) {
	if !activeOnly {
		return s.levels, nil
	}
	var out []models.DifficultyLevel
	for _, l := range s.levels {
		if l.Active {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *catalogRepoStub) FindDifficultyLevelByID(_ context.Context, id string) (*models.DifficultyLevel, error) {
	for i := range s.levels {
		if s.levels[i].ID == id {
			copy := s.levels[i]
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *catalogRepoStub) CreateDifficultyLevel(_ context.Context, level *models.DifficultyLevel) error {
	s.levels = append(s.levels, *level)
	return nil
}

func (s *catalogRepoStub) UpdateDifficultyLevel(_ context.Context, level *models.DifficultyLevel) error {
	return nil
}

func TestCatalogServiceCreateCategoryDefaultsActive(t *testing.T) {
	repo := &catalogRepoStub{}
	// nil validate exercises the constructor default
	svc := NewCatalogService(repo, nil, time.Minute, nil, zap.NewNop())

	category, err := svc.CreateCategory(context.Background(), CategoryInput{Name: "  Programming  "})
	require.NoError(t, err)
	assert.Equal(t, "Programming", category.Name)
	assert.True(t, category.Active)
	assert.NotEmpty(t, category.ID)
	require.Len(t, repo.created, 1)
}

func TestCatalogServiceCreateCategoryRequiresName(t *testing.T) {
	repo := &catalogRepoStub{}
	svc := NewCatalogService(repo, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.CreateCategory(context.Background(), CategoryInput{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.created)
}

func TestCatalogServiceUpdateMissingCategory(t *testing.T) {
	svc := NewCatalogService(&catalogRepoStub{}, nil, time.Minute, nil, zap.NewNop())

	_, err := svc.UpdateCategory(context.Background(), "missing", CategoryInput{Name: "Renamed"})
	require.Error(t, err)
	assert.Equal(t, "CATEGORY_NOT_FOUND", appErrors.FromError(err).Code)
}

func TestCatalogServiceCategoriesActiveOnly(t *testing.T) {
	repo := &catalogRepoStub{categories: []models.Category{
		{ID: "cat-1", Name: "Programming", Active: true},
		{ID: "cat-2", Name: "Retired", Active: false},
	}}
	svc := NewCatalogService(repo, nil, time.Minute, nil, zap.NewNop())

	active, err := svc.Categories(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "cat-1", active[0].ID)

	all, err := svc.Categories(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCatalogServiceDifficultyLevelToggle(t *testing.T) {
	inactive := false
	repo := &catalogRepoStub{}
	svc := NewCatalogService(repo, nil, time.Minute, nil, zap.NewNop())

	level, err := svc.CreateDifficultyLevel(context.Background(), DifficultyLevelInput{Name: "Beginner", Active: &inactive})
	require.NoError(t, err)
	assert.False(t, level.Active)
	assert.Equal(t, "Beginner", level.Name)
}
