package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// AssignmentRepository handles persistence of assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentColumns = `id, course_id, title, description, due_at, score_weight,
        instructions, submission_requirements, late_submission_allowed, status, created_at, updated_at`

// FindByID returns an assignment row.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE id = $1`, assignmentColumns)
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByCourse returns all assignments of a course ordered by due date.
func (r *AssignmentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE course_id = $1 ORDER BY due_at ASC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ListPublishedByCourse returns assignments visible to enrolled learners.
func (r *AssignmentRepository) ListPublishedByCourse(ctx context.Context, courseID string) ([]models.Assignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignments WHERE course_id = $1 AND status <> 'draft' ORDER BY due_at ASC`, assignmentColumns)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("list published assignments: %w", err)
	}
	return assignments, nil
}

// Create inserts an assignment row.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	const query = `INSERT INTO assignments (id, course_id, title, description, due_at, score_weight,
        instructions, submission_requirements, late_submission_allowed, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, assignment.ID, assignment.CourseID, assignment.Title,
		assignment.Description, assignment.DueAt, assignment.ScoreWeight, assignment.Instructions,
		assignment.SubmissionRequirements, assignment.LateSubmissionAllowed, assignment.Status, now)
	return err
}

// Update rewrites the mutable assignment fields.
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	const query = `UPDATE assignments SET title = $2, description = $3, due_at = $4,
        score_weight = $5, instructions = $6, submission_requirements = $7,
        late_submission_allowed = $8, updated_at = $9 WHERE id = $1`
	now := time.Now().UTC()
	assignment.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, assignment.ID, assignment.Title, assignment.Description,
		assignment.DueAt, assignment.ScoreWeight, assignment.Instructions,
		assignment.SubmissionRequirements, assignment.LateSubmissionAllowed, now)
	return err
}

// UpdateStatus moves an assignment through its lifecycle.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus) error {
	const query = `UPDATE assignments SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}
