package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-api/internal/models"
)

func TestEnrollmentRepositoryFindByLearnerAndCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "learner_id", "course_id", "status", "created_at", "updated_at"}).
		AddRow("enr-1", "lrn-1", "crs-1", models.EnrollmentStatusCancelled, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM enrollments WHERE learner_id = \\$1 AND course_id = \\$2").
		WithArgs("lrn-1", "crs-1").
		WillReturnRows(rows)

	enrollment, err := repo.FindByLearnerAndCourse(context.Background(), "lrn-1", "crs-1")
	require.NoError(t, err)
	require.Equal(t, models.EnrollmentStatusCancelled, enrollment.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE enrollments SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("enr-1", models.EnrollmentStatusActive, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateStatus(context.Background(), "enr-1", models.EnrollmentStatusActive)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListActiveByLearner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "learner_id", "course_id", "status", "created_at", "updated_at"}).
		AddRow("enr-1", "lrn-1", "crs-1", models.EnrollmentStatusActive, time.Now(), time.Now()).
		AddRow("enr-2", "lrn-1", "crs-2", models.EnrollmentStatusActive, time.Now(), time.Now())
	mock.ExpectQuery("SELECT .+ FROM enrollments WHERE learner_id = \\$1 AND status = \\$2").
		WithArgs("lrn-1", models.EnrollmentStatusActive).
		WillReturnRows(rows)

	enrollments, err := repo.ListActiveByLearner(context.Background(), "lrn-1")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}
