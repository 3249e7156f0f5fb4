package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseListSelect = `SELECT c.id, c.instructor_id, c.title, c.description, c.curriculum,
        c.category_id, c.difficulty_id, c.status, c.created_at, c.updated_at,
        u.name AS instructor_name, cc.name AS category_name, dl.name AS difficulty_name,
        (SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id AND e.status = 'active') AS enrollment_count`

const courseListFrom = `FROM courses c
JOIN users u ON u.id = c.instructor_id
LEFT JOIN course_categories cc ON cc.id = c.category_id
LEFT JOIN difficulty_levels dl ON dl.id = c.difficulty_id`

// List returns catalog rows filtered by the provided criteria.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("c.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.InstructorID != "" {
		conditions = append(conditions, fmt.Sprintf("c.instructor_id = $%d", len(args)+1))
		args = append(args, filter.InstructorID)
	}
	if filter.CategoryID != "" {
		conditions = append(conditions, fmt.Sprintf("c.category_id = $%d", len(args)+1))
		args = append(args, filter.CategoryID)
	}
	if filter.DifficultyID != "" {
		conditions = append(conditions, fmt.Sprintf("c.difficulty_id = $%d", len(args)+1))
		args = append(args, filter.DifficultyID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(c.title ILIKE $%d OR c.description ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := "c.created_at DESC"
	if filter.Sort == "popular" {
		orderBy = "enrollment_count DESC, c.created_at DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s %s ORDER BY %s LIMIT %d OFFSET %d",
		courseListSelect, courseListFrom+clause, orderBy, size, offset)

	var courses []models.CourseListItem
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", courseListFrom+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// FindByID returns a bare course row.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	const query = `SELECT id, instructor_id, title, description, curriculum, category_id,
        difficulty_id, status, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindListItemByID returns a course with catalog labels and counts.
func (r *CourseRepository) FindListItemByID(ctx context.Context, id string) (*models.CourseListItem, error) {
	query := fmt.Sprintf("%s %s WHERE c.id = $1", courseListSelect, courseListFrom)
	var item models.CourseListItem
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a course row.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (id, instructor_id, title, description, curriculum,
        category_id, difficulty_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, course.ID, course.InstructorID, course.Title,
		course.Description, course.Curriculum, course.CategoryID, course.DifficultyID,
		course.Status, now)
	return err
}

// Update rewrites the mutable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	const query = `UPDATE courses SET title = $2, description = $3, curriculum = $4,
        category_id = $5, difficulty_id = $6, updated_at = $7 WHERE id = $1`
	now := time.Now().UTC()
	course.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, course.ID, course.Title, course.Description,
		course.Curriculum, course.CategoryID, course.DifficultyID, now)
	return err
}

// UpdateStatus moves a course through its lifecycle.
func (r *CourseRepository) UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error {
	const query = `UPDATE courses SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}
