package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type submissionRepository interface {
	FindByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID string) (*models.Submission, error)
	FindDetailByID(ctx context.Context, id string) (*models.SubmissionDetail, error)
	Create(ctx context.Context, submission *models.Submission) error
	Resubmit(ctx context.Context, submission *models.Submission) error
	Grade(ctx context.Context, id string, status models.SubmissionStatus, score float64, feedback *string, gradedAt time.Time) error
}

type assignmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
}

// SubmitRequest carries a learner's submission content.
type SubmitRequest struct {
	SubmissionText string  `json:"submissionText" validate:"required,max=50000"`
	SubmissionLink *string `json:"submissionLink" validate:"omitempty,url"`
}

// GradeRequest carries an instructor's grading decision.
type GradeRequest struct {
	Score               float64 `json:"score" validate:"gte=0,lte=100"`
	FeedbackText        string  `json:"feedbackText" validate:"omitempty,max=20000"`
	RequireResubmission bool    `json:"requireResubmission"`
}

// SubmissionService enforces submission eligibility, lateness and grading
// rules.
type SubmissionService struct {
	repo        submissionRepository
	assignments assignmentReader
	courses     courseReader
	enrollments enrollmentReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewSubmissionService constructs SubmissionService.
func NewSubmissionService(repo submissionRepository, assignments assignmentReader, courses courseReader, enrollments enrollmentReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		repo:        repo,
		assignments: assignments,
		courses:     courses,
		enrollments: enrollments,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit accepts a first submission or a resubmission for the assignment.
// Eligibility: assignment published, enrollment active, and either before
// the due date or late submissions allowed. The late flag is computed once
// here and never recomputed; a disallowed late submission is rejected
// outright with no row written.
func (s *SubmissionService) Submit(ctx context.Context, learnerID, assignmentID string, req SubmitRequest) (*dto.SubmissionResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}

	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrNotFound.Status, "assignment not found")
		}
		return nil, appErrors.Wrap(err, "SUBMISSION_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.Status != models.AssignmentStatusPublished {
		return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrConflict.Status, "assignment is not accepting submissions")
	}

	enrollment, err := s.enrollments.FindByLearnerAndCourse(ctx, learnerID, assignment.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrForbidden.Status, "not enrolled in this course")
		}
		return nil, appErrors.Wrap(err, "SUBMISSION_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status != models.EnrollmentStatusActive {
		return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrForbidden.Status, "enrollment is not active")
	}

	submittedAt := s.now()
	late := submittedAt.After(assignment.DueAt)
	if late && !assignment.LateSubmissionAllowed {
		return nil, appErrors.Clone(appErrors.ErrLateSubmissionNotAllowed, "")
	}

	existing, err := s.repo.FindByAssignmentAndLearner(ctx, assignmentID, learnerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, "SUBMISSION_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to check prior submission")
	}

	if existing != nil {
		previous := existing.Status
		existing.SubmissionText = req.SubmissionText
		existing.SubmissionLink = req.SubmissionLink
		existing.Status = models.SubmissionStatusSubmitted
		existing.Late = late
		existing.SubmittedAt = submittedAt
		if err := s.repo.Resubmit(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, "SUBMISSION_WRITE_FAILED", appErrors.ErrInternal.Status, "failed to overwrite submission")
		}
		existing.Score = nil
		existing.FeedbackText = nil
		existing.GradedAt = nil
		existing.FeedbackUpdatedAt = nil
		s.invalidate(ctx, learnerID)
		return &dto.SubmissionResult{Submission: *existing, PreviousStatus: &previous}, nil
	}

	submission := &models.Submission{
		ID:             uuid.NewString(),
		AssignmentID:   assignmentID,
		LearnerID:      learnerID,
		SubmissionText: req.SubmissionText,
		SubmissionLink: req.SubmissionLink,
		Status:         models.SubmissionStatusSubmitted,
		Late:           late,
		SubmittedAt:    submittedAt,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, "SUBMISSION_WRITE_FAILED", appErrors.ErrInternal.Status, "failed to create submission")
	}
	s.invalidate(ctx, learnerID)
	return &dto.SubmissionResult{Submission: *submission}, nil
}

// InstructorDetail returns a submission with its learner and assignment
// context, scoped to the instructor's own courses.
func (s *SubmissionService) InstructorDetail(ctx context.Context, instructorID, assignmentID, submissionID string) (*models.SubmissionDetail, error) {
	detail, err := s.ownedSubmission(ctx, instructorID, assignmentID, submissionID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// Grade records the instructor's decision. Requesting a resubmission forces
// status resubmission_required and demands non-blank feedback; otherwise the
// submission becomes graded with timestamps stamped to now.
func (s *SubmissionService) Grade(ctx context.Context, instructorID, assignmentID, submissionID string, req GradeRequest) (*models.SubmissionDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}

	feedback := strings.TrimSpace(req.FeedbackText)
	if req.RequireResubmission && feedback == "" {
		return nil, appErrors.Clone(appErrors.ErrResubmissionFeedbackRequired, "")
	}

	detail, err := s.ownedSubmission(ctx, instructorID, assignmentID, submissionID)
	if err != nil {
		return nil, err
	}

	status := models.SubmissionStatusGraded
	if req.RequireResubmission {
		status = models.SubmissionStatusResubmissionRequired
	}

	var feedbackPtr *string
	if feedback != "" {
		feedbackPtr = &feedback
	}

	gradedAt := s.now()
	if err := s.repo.Grade(ctx, submissionID, status, req.Score, feedbackPtr, gradedAt); err != nil {
		return nil, appErrors.Wrap(err, "GRADING_WRITE_FAILED", appErrors.ErrInternal.Status, "failed to record grade")
	}

	detail.Status = status
	detail.Score = &req.Score
	detail.FeedbackText = feedbackPtr
	detail.GradedAt = &gradedAt
	detail.FeedbackUpdatedAt = &gradedAt

	s.invalidate(ctx, detail.LearnerID)
	if s.cache != nil {
		s.cache.Invalidate(ctx, "dashboard:instructor:"+instructorID)
	}
	return detail, nil
}

func (s *SubmissionService) ownedSubmission(ctx context.Context, instructorID, assignmentID, submissionID string) (*models.SubmissionDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("SUBMISSION_NOT_FOUND", appErrors.ErrNotFound.Status, "submission not found")
		}
		return nil, appErrors.Wrap(err, "SUBMISSION_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load submission")
	}
	if detail.AssignmentID != assignmentID {
		return nil, appErrors.New("SUBMISSION_NOT_FOUND", appErrors.ErrNotFound.Status, "submission not found")
	}

	course, err := s.courses.FindByID(ctx, detail.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, "SUBMISSION_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.InstructorID != instructorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "submission belongs to another instructor's course")
	}
	return detail, nil
}

func (s *SubmissionService) invalidate(ctx context.Context, learnerID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "dashboard:learner:"+learnerID, "grades:"+learnerID+":*")
	}
}
