package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// SubmissionRepository handles persistence of assignment submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

const submissionColumns = `id, assignment_id, learner_id, submission_text, submission_link,
        status, late, score, feedback_text, submitted_at, graded_at, feedback_updated_at`

// FindByID returns a submission row.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignment_submissions WHERE id = $1`, submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByAssignmentAndLearner returns the single row for the pair, if any.
func (r *SubmissionRepository) FindByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID string) (*models.Submission, error) {
	query := fmt.Sprintf(`SELECT %s FROM assignment_submissions WHERE assignment_id = $1 AND learner_id = $2`, submissionColumns)
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, assignmentID, learnerID); err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindDetailByID returns a submission with learner/assignment/course context.
func (r *SubmissionRepository) FindDetailByID(ctx context.Context, id string) (*models.SubmissionDetail, error) {
	const query = `SELECT s.id, s.assignment_id, s.learner_id, s.submission_text, s.submission_link,
        s.status, s.late, s.score, s.feedback_text, s.submitted_at, s.graded_at, s.feedback_updated_at,
        u.name AS learner_name, a.title AS assignment_title, a.due_at AS assignment_due_at,
        a.score_weight AS assignment_score_weight, c.id AS course_id, c.title AS course_title
        FROM assignment_submissions s
        JOIN users u ON u.id = s.learner_id
        JOIN assignments a ON a.id = s.assignment_id
        JOIN courses c ON c.id = a.course_id
        WHERE s.id = $1`
	var detail models.SubmissionDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts the first submission for an (assignment, learner) pair.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	const query = `INSERT INTO assignment_submissions (id, assignment_id, learner_id,
        submission_text, submission_link, status, late, submitted_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, submission.ID, submission.AssignmentID,
		submission.LearnerID, submission.SubmissionText, submission.SubmissionLink,
		submission.Status, submission.Late, submission.SubmittedAt)
	return err
}

// Resubmit overwrites the content fields of an existing row. Prior score and
// feedback are discarded; the caller is responsible for echoing the previous
// status back to the client.
func (r *SubmissionRepository) Resubmit(ctx context.Context, submission *models.Submission) error {
	const query = `UPDATE assignment_submissions SET submission_text = $2, submission_link = $3,
        status = $4, late = $5, submitted_at = $6, score = NULL, feedback_text = NULL,
        graded_at = NULL, feedback_updated_at = NULL WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, submission.ID, submission.SubmissionText,
		submission.SubmissionLink, submission.Status, submission.Late, submission.SubmittedAt)
	return err
}

// Grade stamps score, feedback and grading timestamps in a single statement.
func (r *SubmissionRepository) Grade(ctx context.Context, id string, status models.SubmissionStatus, score float64, feedback *string, gradedAt time.Time) error {
	const query = `UPDATE assignment_submissions SET status = $2, score = $3, feedback_text = $4,
        graded_at = $5, feedback_updated_at = $5 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, score, feedback, gradedAt)
	return err
}

// ListByAssignments returns the learner's submissions for the given
// assignment IDs, keyed by assignment in the returned order.
func (r *SubmissionRepository) ListByAssignments(ctx context.Context, learnerID string, assignmentIDs []string) ([]models.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM assignment_submissions
        WHERE learner_id = ? AND assignment_id IN (?)`, submissionColumns), learnerID, assignmentIDs)
	if err != nil {
		return nil, fmt.Errorf("build submissions query: %w", err)
	}
	query = r.db.Rebind(query)
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// ListPendingByInstructor returns ungraded submissions across the
// instructor's courses, newest first.
func (r *SubmissionRepository) ListPendingByInstructor(ctx context.Context, instructorID string, limit int) ([]models.SubmissionDetail, error) {
	if limit <= 0 {
		limit = 10
	}
	query := fmt.Sprintf(`SELECT s.id, s.assignment_id, s.learner_id, s.submission_text, s.submission_link,
        s.status, s.late, s.score, s.feedback_text, s.submitted_at, s.graded_at, s.feedback_updated_at,
        u.name AS learner_name, a.title AS assignment_title, a.due_at AS assignment_due_at,
        a.score_weight AS assignment_score_weight, c.id AS course_id, c.title AS course_title
        FROM assignment_submissions s
        JOIN users u ON u.id = s.learner_id
        JOIN assignments a ON a.id = s.assignment_id
        JOIN courses c ON c.id = a.course_id
        WHERE c.instructor_id = $1 AND s.status = $2
        ORDER BY s.submitted_at DESC LIMIT %d`, limit)
	var details []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &details, query, instructorID, models.SubmissionStatusSubmitted); err != nil {
		return nil, fmt.Errorf("list pending submissions: %w", err)
	}
	return details, nil
}

// ListRecentGradedByLearner returns submissions with recorded feedback for
// the learner, most recently graded first.
func (r *SubmissionRepository) ListRecentGradedByLearner(ctx context.Context, learnerID string, limit int) ([]models.SubmissionDetail, error) {
	if limit <= 0 {
		limit = 5
	}
	query := fmt.Sprintf(`SELECT s.id, s.assignment_id, s.learner_id, s.submission_text, s.submission_link,
        s.status, s.late, s.score, s.feedback_text, s.submitted_at, s.graded_at, s.feedback_updated_at,
        u.name AS learner_name, a.title AS assignment_title, a.due_at AS assignment_due_at,
        a.score_weight AS assignment_score_weight, c.id AS course_id, c.title AS course_title
        FROM assignment_submissions s
        JOIN users u ON u.id = s.learner_id
        JOIN assignments a ON a.id = s.assignment_id
        JOIN courses c ON c.id = a.course_id
        WHERE s.learner_id = $1 AND s.graded_at IS NOT NULL
        ORDER BY s.graded_at DESC LIMIT %d`, limit)
	var details []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &details, query, learnerID); err != nil {
		return nil, fmt.Errorf("list recent graded submissions: %w", err)
	}
	return details, nil
}

// ListDetailsByCourse returns every submission for the course's assignments,
// ordered for the gradebook (learner name, then due date).
func (r *SubmissionRepository) ListDetailsByCourse(ctx context.Context, courseID string) ([]models.SubmissionDetail, error) {
	const query = `SELECT s.id, s.assignment_id, s.learner_id, s.submission_text, s.submission_link,
        s.status, s.late, s.score, s.feedback_text, s.submitted_at, s.graded_at, s.feedback_updated_at,
        u.name AS learner_name, a.title AS assignment_title, a.due_at AS assignment_due_at,
        a.score_weight AS assignment_score_weight, c.id AS course_id, c.title AS course_title
        FROM assignment_submissions s
        JOIN users u ON u.id = s.learner_id
        JOIN assignments a ON a.id = s.assignment_id
        JOIN courses c ON c.id = a.course_id
        WHERE a.course_id = $1
        ORDER BY u.name, a.due_at`
	var details []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &details, query, courseID); err != nil {
		return nil, fmt.Errorf("list course submissions: %w", err)
	}
	return details, nil
}

// CountPendingByCourse returns the ungraded submission count per course for
// the instructor dashboard.
func (r *SubmissionRepository) CountPendingByCourse(ctx context.Context, courseID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assignment_submissions s
        JOIN assignments a ON a.id = s.assignment_id
        WHERE a.course_id = $1 AND s.status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, courseID, models.SubmissionStatusSubmitted); err != nil {
		return 0, err
	}
	return count, nil
}
