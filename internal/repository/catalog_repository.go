package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// CatalogRepository handles persistence of course categories and difficulty
// levels.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs the repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ListCategories returns categories, optionally only active ones.
func (r *CatalogRepository) ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error) {
	query := `SELECT id, name, active, created_at, updated_at FROM course_categories`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`
	var categories []models.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// FindCategoryByID returns a category row.
func (r *CatalogRepository) FindCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	const query = `SELECT id, name, active, created_at, updated_at FROM course_categories WHERE id = $1`
	var category models.Category
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, err
	}
	return &category, nil
}

// CreateCategory inserts a category row.
func (r *CatalogRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	const query = `INSERT INTO course_categories (id, name, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $4)`
	now := time.Now().UTC()
	category.CreatedAt = now
	category.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Active, now)
	return err
}

// UpdateCategory rewrites name and active flag.
func (r *CatalogRepository) UpdateCategory(ctx context.Context, category *models.Category) error {
	const query = `UPDATE course_categories SET name = $2, active = $3, updated_at = $4 WHERE id = $1`
	now := time.Now().UTC()
	category.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Active, now)
	return err
}

// ListDifficultyLevels returns levels in presentation order.
func (r *CatalogRepository) ListDifficultyLevels(ctx context.Context, activeOnly bool) ([]models.DifficultyLevel, error) {
	query := `SELECT id, name, sort_order, active, created_at, updated_at FROM difficulty_levels`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY sort_order ASC`
	var levels []models.DifficultyLevel
	if err := r.db.SelectContext(ctx, &levels, query); err != nil {
		return nil, fmt.Errorf("list difficulty levels: %w", err)
	}
	return levels, nil
}

// FindDifficultyLevelByID returns a difficulty level row.
func (r *CatalogRepository) FindDifficultyLevelByID(ctx context.Context, id string) (*models.DifficultyLevel, error) {
	const query = `SELECT id, name, sort_order, active, created_at, updated_at FROM difficulty_levels WHERE id = $1`
	var level models.DifficultyLevel
	if err := r.db.GetContext(ctx, &level, query, id); err != nil {
		return nil, err
	}
	return &level, nil
}

// CreateDifficultyLevel inserts a difficulty level row.
func (r *CatalogRepository) CreateDifficultyLevel(ctx context.Context, level *models.DifficultyLevel) error {
	const query = `INSERT INTO difficulty_levels (id, name, sort_order, active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $5)`
	now := time.Now().UTC()
	level.CreatedAt = now
	level.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, level.ID, level.Name, level.SortOrder, level.Active, now)
	return err
}

// UpdateDifficultyLevel rewrites name, order and active flag.
func (r *CatalogRepository) UpdateDifficultyLevel(ctx context.Context, level *models.DifficultyLevel) error {
	const query = `UPDATE difficulty_levels SET name = $2, sort_order = $3, active = $4, updated_at = $5 WHERE id = $1`
	now := time.Now().UTC()
	level.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, level.ID, level.Name, level.SortOrder, level.Active, now)
	return err
}
