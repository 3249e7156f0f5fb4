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

type assignmentRepoStub struct {
	assignment   *models.Assignment
	listResult   []models.Assignment
	statusWrites []models.AssignmentStatus
	createCalls  int
	updateCalls  int
}

func (r *assignmentRepoStub) FindByID(_ context.Context, id string) (*models.Assignment, error) {
	if r.assignment == nil || r.assignment.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *r.assignment
	return &copy, nil
}

func (r *assignmentRepoStub) ListByCourse(_ context.Context, _ string) ([]models.Assignment, error) {
	return r.listResult, nil
}

func (r *assignmentRepoStub) Create(_ context.Context, _ *models.Assignment) error {
	r.createCalls++
	return nil
}

func (r *assignmentRepoStub) Update(_ context.Context, _ *models.Assignment) error {
	r.updateCalls++
	return nil
}

func (r *assignmentRepoStub) UpdateStatus(_ context.Context, _ string, status models.AssignmentStatus) error {
	r.statusWrites = append(r.statusWrites, status)
	return nil
}

type submissionReaderStub struct {
	submission *models.Submission
}

func (r *submissionReaderStub) FindByAssignmentAndLearner(_ context.Context, _, _ string) (*models.Submission, error) {
	if r.submission == nil {
		return nil, sql.ErrNoRows
	}
	copy := *r.submission
	return &copy, nil
}

func publishableAssignment() *models.Assignment {
	return &models.Assignment{
		ID:                     "assignment-1",
		CourseID:               "course-1",
		Title:                  "Week 1 Essay",
		Description:            "Write about interfaces",
		DueAt:                  time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
		ScoreWeight:            25,
		Instructions:           "At least 500 words",
		SubmissionRequirements: "Plain text or link",
		Status:                 models.AssignmentStatusDraft,
	}
}

func newAssignmentFixture() (*assignmentRepoStub, *courseReaderStub, *enrollmentReaderStub, *submissionReaderStub) {
	repo := &assignmentRepoStub{assignment: publishableAssignment()}
	courses := &courseReaderStub{course: &models.Course{
		ID: "course-1", InstructorID: "instructor-1", Title: "Intro to Go",
		Status: models.CourseStatusPublished,
	}}
	enrollments := &enrollmentReaderStub{enrollment: &models.Enrollment{
		ID: "enrollment-1", LearnerID: "learner-1", CourseID: "course-1",
		Status: models.EnrollmentStatusActive,
	}}
	return repo, courses, enrollments, &submissionReaderStub{}
}

func TestAssignmentServicePublishValidDraft(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	assignment, err := svc.ChangeStatus(context.Background(), "instructor-1", "course-1", "assignment-1", models.AssignmentStatusPublished)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusPublished, assignment.Status)
	assert.Equal(t, []models.AssignmentStatus{models.AssignmentStatusPublished}, repo.statusWrites)
}

func TestAssignmentServicePublishIncompleteDraftListsMissingFields(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	repo.assignment.Instructions = "   "
	repo.assignment.SubmissionRequirements = ""
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	_, err := svc.ChangeStatus(context.Background(), "instructor-1", "course-1", "assignment-1", models.AssignmentStatusPublished)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPublishRequirementsIncomplete.Code, appErr.Code)
	details, ok := appErr.Details.(map[string][]string)
	require.True(t, ok)
	assert.ElementsMatch(t, []string{"instructions", "submissionRequirements"}, details["missing"])
	assert.Empty(t, repo.statusWrites)
}

func TestAssignmentServiceCloseSkipsReadinessCheck(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	repo.assignment.Status = models.AssignmentStatusPublished
	repo.assignment.Instructions = ""
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	assignment, err := svc.ChangeStatus(context.Background(), "instructor-1", "course-1", "assignment-1", models.AssignmentStatusClosed)
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusClosed, assignment.Status)
}

func TestAssignmentServiceReopenClosedRejected(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	repo.assignment.Status = models.AssignmentStatusClosed
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	_, err := svc.ChangeStatus(context.Background(), "instructor-1", "course-1", "assignment-1", models.AssignmentStatusPublished)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidStatusTransition.Code, appErrors.FromError(err).Code)
}

func TestAssignmentServiceLearnerDetailHidesDrafts(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	_, err := svc.LearnerDetail(context.Background(), "learner-1", "course-1", "assignment-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "ASSIGNMENT_NOT_ACCESSIBLE", appErr.Code)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErr.Status)
}

func TestAssignmentServiceLearnerDetailAttachesOwnSubmission(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	repo.assignment.Status = models.AssignmentStatusPublished
	submissions.submission = &models.Submission{
		ID: "submission-1", AssignmentID: "assignment-1", LearnerID: "learner-1",
		Status: models.SubmissionStatusSubmitted,
	}
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	detail, err := svc.LearnerDetail(context.Background(), "learner-1", "course-1", "assignment-1")
	require.NoError(t, err)
	assert.Equal(t, "Intro to Go", detail.CourseTitle)
	require.NotNil(t, detail.Submission)
	assert.Equal(t, "submission-1", detail.Submission.ID)
}

func TestAssignmentServiceLearnerDetailRequiresActiveEnrollment(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	repo.assignment.Status = models.AssignmentStatusPublished
	enrollments.enrollment = nil
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	_, err := svc.LearnerDetail(context.Background(), "learner-1", "course-1", "assignment-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, "ASSIGNMENT_NOT_ACCESSIBLE", appErr.Code)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErr.Status)
}

func TestAssignmentServiceCreateRejectsBadDueAt(t *testing.T) {
	repo, courses, enrollments, submissions := newAssignmentFixture()
	svc := NewAssignmentService(repo, courses, enrollments, submissions, nil, nil, zap.NewNop())

	_, err := svc.Create(context.Background(), "instructor-1", "course-1", AssignmentInput{
		Title: "Week 2", DueAt: "tomorrow", ScoreWeight: 10,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, 0, repo.createCalls)
}
