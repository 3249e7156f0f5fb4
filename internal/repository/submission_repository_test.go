package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestSubmissionRepositoryFindByAssignmentAndLearner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	rows := sqlmock.NewRows([]string{"id", "assignment_id", "learner_id", "submission_text",
		"submission_link", "status", "late", "score", "feedback_text", "submitted_at",
		"graded_at", "feedback_updated_at"}).
		AddRow("sub-1", "asg-1", "lrn-1", "my essay", nil, models.SubmissionStatusSubmitted,
			false, nil, nil, time.Now(), nil, nil)
	mock.ExpectQuery("SELECT .+ FROM assignment_submissions WHERE assignment_id = \\$1 AND learner_id = \\$2").
		WithArgs("asg-1", "lrn-1").
		WillReturnRows(rows)

	submission, err := repo.FindByAssignmentAndLearner(context.Background(), "asg-1", "lrn-1")
	require.NoError(t, err)
	require.Equal(t, "sub-1", submission.ID)
	require.False(t, submission.Late)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryResubmitClearsGrading(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	submittedAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE assignment_submissions SET submission_text = $2, submission_link = $3,")).
		WithArgs("sub-1", "second try", nil, models.SubmissionStatusSubmitted, true, submittedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Resubmit(context.Background(), &models.Submission{
		ID:             "sub-1",
		SubmissionText: "second try",
		Status:         models.SubmissionStatusSubmitted,
		Late:           true,
		SubmittedAt:    submittedAt,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryGrade(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	gradedAt := time.Now().UTC()
	feedback := "well argued"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE assignment_submissions SET status = $2, score = $3, feedback_text = $4,")).
		WithArgs("sub-1", models.SubmissionStatusGraded, 95.0, &feedback, gradedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Grade(context.Background(), "sub-1", models.SubmissionStatusGraded, 95, &feedback, gradedAt)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryCountPendingByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM assignment_submissions s").
		WithArgs("crs-1", models.SubmissionStatusSubmitted).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountPendingByCourse(context.Background(), "crs-1")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
