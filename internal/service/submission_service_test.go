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

type submissionRepoStub struct {
	existing    *models.Submission
	detail      *models.SubmissionDetail
	createCalls int
	resubmits   int
	gradeCalls  int
	gradedWith  struct {
		status   models.SubmissionStatus
		score    float64
		feedback *string
	}
}

func (r *submissionRepoStub) FindByAssignmentAndLearner(_ context.Context, _, _ string) (*models.Submission, error) {
	if r.existing == nil {
		return nil, sql.ErrNoRows
	}
	copy := *r.existing
	return &copy, nil
}

func (r *submissionRepoStub) FindDetailByID(_ context.Context, id string) (*models.SubmissionDetail, error) {
	if r.detail == nil || r.detail.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *r.detail
	return &copy, nil
}

func (r *submissionRepoStub) Create(_ context.Context, _ *models.Submission) error {
	r.createCalls++
	return nil
}

func (r *submissionRepoStub) Resubmit(_ context.Context, _ *models.Submission) error {
	r.resubmits++
	return nil
}

func (r *submissionRepoStub) Grade(_ context.Context, _ string, status models.SubmissionStatus, score float64, feedback *string, _ time.Time) error {
	r.gradeCalls++
	r.gradedWith.status = status
	r.gradedWith.score = score
	r.gradedWith.feedback = feedback
	return nil
}

type assignmentReaderStub struct {
	assignment *models.Assignment
}

func (r *assignmentReaderStub) FindByID(_ context.Context, id string) (*models.Assignment, error) {
	if r.assignment == nil || r.assignment.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *r.assignment
	return &copy, nil
}

type courseReaderStub struct {
	course *models.Course
}

func (r *courseReaderStub) FindByID(_ context.Context, id string) (*models.Course, error) {
	if r.course == nil || r.course.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *r.course
	return &copy, nil
}

type enrollmentReaderStub struct {
	enrollment *models.Enrollment
}

func (r *enrollmentReaderStub) FindByLearnerAndCourse(_ context.Context, _, _ string) (*models.Enrollment, error) {
	if r.enrollment == nil {
		return nil, sql.ErrNoRows
	}
	copy := *r.enrollment
	return &copy, nil
}

func newSubmissionFixture(dueAt time.Time, lateAllowed bool) (*submissionRepoStub, *assignmentReaderStub, *courseReaderStub, *enrollmentReaderStub) {
	repo := &submissionRepoStub{}
	assignments := &assignmentReaderStub{assignment: &models.Assignment{
		ID:                    "assignment-1",
		CourseID:              "course-1",
		Title:                 "Week 1 Essay",
		Status:                models.AssignmentStatusPublished,
		DueAt:                 dueAt,
		ScoreWeight:           20,
		LateSubmissionAllowed: lateAllowed,
	}}
	courses := &courseReaderStub{course: &models.Course{
		ID:           "course-1",
		InstructorID: "instructor-1",
		Title:        "Intro to Go",
		Status:       models.CourseStatusPublished,
	}}
	enrollments := &enrollmentReaderStub{enrollment: &models.Enrollment{
		ID:        "enrollment-1",
		LearnerID: "learner-1",
		CourseID:  "course-1",
		Status:    models.EnrollmentStatusActive,
	}}
	return repo, assignments, courses, enrollments
}

func TestSubmissionServiceSubmitOnTime(t *testing.T) {
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, assignments, courses, enrollments := newSubmissionFixture(dueAt, false)
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return dueAt.Add(-time.Second) }

	result, err := svc.Submit(context.Background(), "learner-1", "assignment-1", SubmitRequest{SubmissionText: "my essay"})
	require.NoError(t, err)
	assert.False(t, result.Late)
	assert.Equal(t, models.SubmissionStatusSubmitted, result.Status)
	assert.Nil(t, result.PreviousStatus)
	assert.Equal(t, 1, repo.createCalls)
}

func TestSubmissionServiceSubmitExactlyAtDueIsNotLate(t *testing.T) {
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, assignments, courses, enrollments := newSubmissionFixture(dueAt, false)
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return dueAt }

	result, err := svc.Submit(context.Background(), "learner-1", "assignment-1", SubmitRequest{SubmissionText: "on the wire"})
	require.NoError(t, err)
	assert.False(t, result.Late)
}

func TestSubmissionServiceLateRejectedWithoutWrite(t *testing.T) {
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, assignments, courses, enrollments := newSubmissionFixture(dueAt, false)
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return dueAt.Add(time.Second) }

	_, err := svc.Submit(context.Background(), "learner-1", "assignment-1", SubmitRequest{SubmissionText: "too late"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrLateSubmissionNotAllowed.Code, appErr.Code)
	assert.Equal(t, 0, repo.createCalls)
	assert.Equal(t, 0, repo.resubmits)
}

func TestSubmissionServiceLateFlaggedWhenAllowed(t *testing.T) {
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, assignments, courses, enrollments := newSubmissionFixture(dueAt, true)
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return dueAt.Add(time.Second) }

	result, err := svc.Submit(context.Background(), "learner-1", "assignment-1", SubmitRequest{SubmissionText: "late but allowed"})
	require.NoError(t, err)
	assert.True(t, result.Late)
	assert.Equal(t, 1, repo.createCalls)
}

func TestSubmissionServiceResubmissionOverwritesAndEchoesPreviousStatus(t *testing.T) {
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, assignments, courses, enrollments := newSubmissionFixture(dueAt, true)
	score := 40.0
	feedback := "needs work"
	gradedAt := dueAt.Add(-time.Hour)
	repo.existing = &models.Submission{
		ID:             "submission-1",
		AssignmentID:   "assignment-1",
		LearnerID:      "learner-1",
		SubmissionText: "first try",
		Status:         models.SubmissionStatusResubmissionRequired,
		Score:          &score,
		FeedbackText:   &feedback,
		GradedAt:       &gradedAt,
		SubmittedAt:    dueAt.Add(-2 * time.Hour),
	}
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return dueAt.Add(-time.Minute) }

	result, err := svc.Submit(context.Background(), "learner-1", "assignment-1", SubmitRequest{SubmissionText: "second try"})
	require.NoError(t, err)
	require.NotNil(t, result.PreviousStatus)
	assert.Equal(t, models.SubmissionStatusResubmissionRequired, *result.PreviousStatus)
	assert.Equal(t, models.SubmissionStatusSubmitted, result.Status)
	assert.Equal(t, "submission-1", result.ID)
	assert.Nil(t, result.Score)
	assert.Nil(t, result.FeedbackText)
	assert.Nil(t, result.GradedAt)
	assert.Equal(t, 1, repo.resubmits)
	assert.Equal(t, 0, repo.createCalls)
}

func TestSubmissionServiceSubmitRequiresActiveEnrollment(t *testing.T) {
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, assignments, courses, enrollments := newSubmissionFixture(dueAt, false)
	enrollments.enrollment.Status = models.EnrollmentStatusCancelled
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())
	svc.now = func() time.Time { return dueAt.Add(-time.Hour) }

	_, err := svc.Submit(context.Background(), "learner-1", "assignment-1", SubmitRequest{SubmissionText: "hello"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "ASSIGNMENT_NOT_ACCESSIBLE", appErr.Code)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErr.Status)
}

func TestSubmissionServiceSubmitRejectsDraftAssignment(t *testing.T) {
	dueAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo, assignments, courses, enrollments := newSubmissionFixture(dueAt, false)
	assignments.assignment.Status = models.AssignmentStatusDraft
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), "learner-1", "assignment-1", SubmitRequest{SubmissionText: "hello"})
	require.Error(t, err)
	assert.Equal(t, "ASSIGNMENT_NOT_ACCESSIBLE", appErrors.FromError(err).Code)
}

func newGradingFixture() (*submissionRepoStub, *SubmissionService) {
	repo, assignments, courses, enrollments := newSubmissionFixture(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), true)
	repo.detail = &models.SubmissionDetail{
		Submission: models.Submission{
			ID:           "submission-1",
			AssignmentID: "assignment-1",
			LearnerID:    "learner-1",
			Status:       models.SubmissionStatusSubmitted,
			SubmittedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		LearnerName:     "Ana",
		AssignmentTitle: "Week 1 Essay",
		CourseID:        "course-1",
		CourseTitle:     "Intro to Go",
	}
	svc := NewSubmissionService(repo, assignments, courses, enrollments, nil, nil, zap.NewNop())
	return repo, svc
}

func TestSubmissionServiceGradeMarksGraded(t *testing.T) {
	repo, svc := newGradingFixture()

	detail, err := svc.Grade(context.Background(), "instructor-1", "assignment-1", "submission-1", GradeRequest{
		Score:        85,
		FeedbackText: "solid work",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusGraded, detail.Status)
	require.NotNil(t, detail.Score)
	assert.Equal(t, 85.0, *detail.Score)
	require.NotNil(t, detail.GradedAt)
	assert.Equal(t, detail.GradedAt, detail.FeedbackUpdatedAt)
	assert.Equal(t, 1, repo.gradeCalls)
	assert.Equal(t, models.SubmissionStatusGraded, repo.gradedWith.status)
}

func TestSubmissionServiceGradeResubmissionRequiresFeedback(t *testing.T) {
	repo, svc := newGradingFixture()

	_, err := svc.Grade(context.Background(), "instructor-1", "assignment-1", "submission-1", GradeRequest{
		Score:               40,
		FeedbackText:        "   ",
		RequireResubmission: true,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrResubmissionFeedbackRequired.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.gradeCalls)
}

func TestSubmissionServiceGradeResubmissionForcesStatus(t *testing.T) {
	repo, svc := newGradingFixture()

	detail, err := svc.Grade(context.Background(), "instructor-1", "assignment-1", "submission-1", GradeRequest{
		Score:               40,
		FeedbackText:        "please redo section two",
		RequireResubmission: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusResubmissionRequired, detail.Status)
	assert.Equal(t, models.SubmissionStatusResubmissionRequired, repo.gradedWith.status)
}

func TestSubmissionServiceGradeRejectsOutOfRangeScore(t *testing.T) {
	repo, svc := newGradingFixture()

	_, err := svc.Grade(context.Background(), "instructor-1", "assignment-1", "submission-1", GradeRequest{Score: 101})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.gradeCalls)
}

func TestSubmissionServiceGradeForeignCourseForbidden(t *testing.T) {
	_, svc := newGradingFixture()

	_, err := svc.Grade(context.Background(), "instructor-2", "assignment-1", "submission-1", GradeRequest{Score: 50})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
