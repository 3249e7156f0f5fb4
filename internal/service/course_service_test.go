package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type courseRepoStub struct {
	course       *models.Course
	listItem     *models.CourseListItem
	listResult   []models.CourseListItem
	listTotal    int
	listFilter   models.CourseFilter
	statusWrites []models.CourseStatus
	updateCalls  int
	createCalls  int
}

func (r *courseRepoStub) List(_ context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error) {
	r.listFilter = filter
	return r.listResult, r.listTotal, nil
}

func (r *courseRepoStub) FindByID(_ context.Context, id string) (*models.Course, error) {
	if r.course == nil || r.course.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *r.course
	return &copy, nil
}

func (r *courseRepoStub) FindListItemByID(_ context.Context, id string) (*models.CourseListItem, error) {
	if r.listItem == nil || r.listItem.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *r.listItem
	return &copy, nil
}

func (r *courseRepoStub) Create(_ context.Context, _ *models.Course) error {
	r.createCalls++
	return nil
}

func (r *courseRepoStub) Update(_ context.Context, _ *models.Course) error {
	r.updateCalls++
	return nil
}

func (r *courseRepoStub) UpdateStatus(_ context.Context, _ string, status models.CourseStatus) error {
	r.statusWrites = append(r.statusWrites, status)
	return nil
}

func TestCourseServiceBrowseForcesPublishedFilter(t *testing.T) {
	repo := &courseRepoStub{listResult: []models.CourseListItem{}, listTotal: 0}
	svc := NewCourseService(repo, &enrollmentReaderStub{}, nil, nil, zap.NewNop())

	_, pagination, err := svc.Browse(context.Background(), models.CourseFilter{Status: models.CourseStatusDraft})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPublished, repo.listFilter.Status)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
}

func TestCourseServiceDetailHidesDrafts(t *testing.T) {
	repo := &courseRepoStub{listItem: &models.CourseListItem{
		Course: models.Course{ID: "course-1", Status: models.CourseStatusDraft},
	}}
	svc := NewCourseService(repo, &enrollmentReaderStub{}, nil, nil, zap.NewNop())

	_, err := svc.Detail(context.Background(), "course-1", "learner-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "COURSE_NOT_FOUND", appErr.Code)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErr.Status)
}

func TestCourseServiceDetailAttachesEnrollment(t *testing.T) {
	repo := &courseRepoStub{listItem: &models.CourseListItem{
		Course: models.Course{ID: "course-1", Status: models.CourseStatusPublished},
	}}
	enrollments := &enrollmentReaderStub{enrollment: &models.Enrollment{
		ID: "enrollment-1", LearnerID: "learner-1", CourseID: "course-1",
		Status: models.EnrollmentStatusActive,
	}}
	svc := NewCourseService(repo, enrollments, nil, nil, zap.NewNop())

	detail, err := svc.Detail(context.Background(), "course-1", "learner-1")
	require.NoError(t, err)
	require.NotNil(t, detail.EnrollmentID)
	assert.Equal(t, "enrollment-1", *detail.EnrollmentID)
	require.NotNil(t, detail.EnrollmentStatus)
	assert.Equal(t, models.EnrollmentStatusActive, *detail.EnrollmentStatus)
}

func TestCourseServiceCreateStartsAsDraft(t *testing.T) {
	repo := &courseRepoStub{}
	svc := NewCourseService(repo, &enrollmentReaderStub{}, nil, nil, zap.NewNop())

	course, err := svc.Create(context.Background(), "instructor-1", CreateCourseRequest{Title: "Intro to Go"})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusDraft, course.Status)
	assert.Equal(t, "instructor-1", course.InstructorID)
	assert.Equal(t, 1, repo.createCalls)
}

func TestCourseServiceChangeStatusValidTransition(t *testing.T) {
	repo := &courseRepoStub{course: &models.Course{
		ID: "course-1", InstructorID: "instructor-1", Status: models.CourseStatusDraft,
	}}
	svc := NewCourseService(repo, &enrollmentReaderStub{}, nil, nil, zap.NewNop())

	course, err := svc.ChangeStatus(context.Background(), "instructor-1", "course-1", models.CourseStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusPublished, course.Status)
	assert.Equal(t, []models.CourseStatus{models.CourseStatusPublished}, repo.statusWrites)
}

func TestCourseServiceChangeStatusRejectsBackwards(t *testing.T) {
	repo := &courseRepoStub{course: &models.Course{
		ID: "course-1", InstructorID: "instructor-1", Status: models.CourseStatusArchived,
	}}
	svc := NewCourseService(repo, &enrollmentReaderStub{}, nil, nil, zap.NewNop())

	_, err := svc.ChangeStatus(context.Background(), "instructor-1", "course-1", models.CourseStatusPublished)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrInvalidStatusTransition.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrInvalidStatusTransition.Status, appErr.Status)
	assert.Empty(t, repo.statusWrites)
}

func TestCourseServiceChangeStatusForeignCourseForbidden(t *testing.T) {
	repo := &courseRepoStub{course: &models.Course{
		ID: "course-1", InstructorID: "instructor-1", Status: models.CourseStatusDraft,
	}}
	svc := NewCourseService(repo, &enrollmentReaderStub{}, nil, nil, zap.NewNop())

	_, err := svc.ChangeStatus(context.Background(), "instructor-2", "course-1", models.CourseStatusPublished)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
