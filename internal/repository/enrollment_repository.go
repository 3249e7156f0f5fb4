package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	const query = `SELECT id, learner_id, course_id, status, created_at, updated_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByLearnerAndCourse returns the single row for the pair, if any.
func (r *EnrollmentRepository) FindByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, learner_id, course_id, status, created_at, updated_at
        FROM enrollments WHERE learner_id = $1 AND course_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, learnerID, courseID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// ListActiveByLearner returns the learner's active enrollments.
func (r *EnrollmentRepository) ListActiveByLearner(ctx context.Context, learnerID string) ([]models.Enrollment, error) {
	const query = `SELECT id, learner_id, course_id, status, created_at, updated_at
        FROM enrollments WHERE learner_id = $1 AND status = $2 ORDER BY created_at DESC`
	var enrollments []models.Enrollment
	if err := r.db.SelectContext(ctx, &enrollments, query, learnerID, models.EnrollmentStatusActive); err != nil {
		return nil, err
	}
	return enrollments, nil
}

// Create inserts a fresh enrollment row for a first-time enrollment.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (id, learner_id, course_id, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $5)`
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	_, err := r.db.ExecContext(ctx, query, enrollment.ID, enrollment.LearnerID,
		enrollment.CourseID, enrollment.Status, now)
	return err
}

// UpdateStatus flips the row between active and cancelled; re-enrollment
// reuses the existing row rather than inserting a second one.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	const query = `UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}
