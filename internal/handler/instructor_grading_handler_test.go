package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/middleware"
	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/service"
)

type gradesEnrollmentFake struct{}

func (gradesEnrollmentFake) ListActiveByLearner(context.Context, string) ([]models.Enrollment, error) {
	return nil, nil
}

func (gradesEnrollmentFake) FindByLearnerAndCourse(context.Context, string, string) (*models.Enrollment, error) {
	return nil, sql.ErrNoRows
}

type gradesAssignmentFake struct{}

func (gradesAssignmentFake) ListPublishedByCourse(context.Context, string) ([]models.Assignment, error) {
	return nil, nil
}

type gradesSubmissionFake struct {
	details []models.SubmissionDetail
}

func (gradesSubmissionFake) ListByAssignments(context.Context, string, []string) ([]models.Submission, error) {
	return nil, nil
}

func (f gradesSubmissionFake) ListDetailsByCourse(context.Context, string) ([]models.SubmissionDetail, error) {
	return f.details, nil
}

func newExportTestHandler(instructorID string) *InstructorGradingHandler {
	score := 85.0
	courses := &courseReaderFake{courses: map[string]*models.Course{
		"course-1": {ID: "course-1", InstructorID: instructorID, Title: "Intro to Go", Status: models.CourseStatusPublished},
	}}
	submissions := gradesSubmissionFake{details: []models.SubmissionDetail{
		{
			Submission: models.Submission{
				Status:      models.SubmissionStatusGraded,
				Score:       &score,
				SubmittedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
			},
			LearnerName:     "Ana",
			AssignmentTitle: "Essay",
		},
	}}
	grades := service.NewGradesService(gradesEnrollmentFake{}, courses, gradesAssignmentFake{}, submissions, nil, 0, 0, zap.NewNop())
	return NewInstructorGradingHandler(nil, grades)
}

func TestExportGradebookCSVHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newExportTestHandler("instructor-1")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/instructor/courses/course-1/grades/export?format=csv", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}
	c.Set(middleware.ContextUserKey, &models.Identity{UserID: "instructor-1", Role: models.RoleInstructor})

	handler.ExportGradebook(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gradebook-course-1.csv")
	assert.Contains(t, rec.Body.String(), "Ana")
}

func TestExportGradebookDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newExportTestHandler("instructor-1")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/instructor/courses/course-1/grades/export", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}
	c.Set(middleware.ContextUserKey, &models.Identity{UserID: "instructor-1", Role: models.RoleInstructor})

	handler.ExportGradebook(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestExportGradebookUnsupportedFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newExportTestHandler("instructor-1")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/instructor/courses/course-1/grades/export?format=xlsx", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}
	c.Set(middleware.ContextUserKey, &models.Identity{UserID: "instructor-1", Role: models.RoleInstructor})

	handler.ExportGradebook(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportGradebookForeignCourse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newExportTestHandler("someone-else")

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/instructor/courses/course-1/grades/export?format=csv", nil)
	c.Params = gin.Params{{Key: "courseId", Value: "course-1"}}
	c.Set(middleware.ContextUserKey, &models.Identity{UserID: "instructor-1", Role: models.RoleInstructor})

	handler.ExportGradebook(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
