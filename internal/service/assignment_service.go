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

type assignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	UpdateStatus(ctx context.Context, id string, status models.AssignmentStatus) error
}

type submissionReader interface {
	FindByAssignmentAndLearner(ctx context.Context, assignmentID, learnerID string) (*models.Submission, error)
}

// AssignmentInput carries the writable assignment fields for create and
// update. Validation here is shape-level; publish readiness is enforced
// separately at the status transition.
type AssignmentInput struct {
	Title                  string  `json:"title" validate:"required,max=200"`
	Description            string  `json:"description" validate:"omitempty,max=5000"`
	DueAt                  string  `json:"dueAt" validate:"required"`
	ScoreWeight            float64 `json:"scoreWeight" validate:"gte=0,lte=100"`
	Instructions           string  `json:"instructions" validate:"omitempty,max=20000"`
	SubmissionRequirements string  `json:"submissionRequirements" validate:"omitempty,max=5000"`
	LateSubmissionAllowed  bool    `json:"lateSubmissionAllowed"`
}

// AssignmentService orchestrates assignment authoring and the learner's
// assignment view.
type AssignmentService struct {
	repo        assignmentRepository
	courses     courseReader
	enrollments enrollmentReader
	submissions submissionReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(repo assignmentRepository, courses courseReader, enrollments enrollmentReader, submissions submissionReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		repo:        repo,
		courses:     courses,
		enrollments: enrollments,
		submissions: submissions,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// LearnerDetail returns the learner view of a published assignment along
// with the caller's own submission, when any. Draft assignments and courses
// the learner is not actively enrolled in look like missing resources.
func (s *AssignmentService) LearnerDetail(ctx context.Context, learnerID, courseID, assignmentID string) (*dto.AssignmentDetail, error) {
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrNotFound.Status, "assignment not found")
		}
		return nil, appErrors.Wrap(err, "ASSIGNMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.CourseID != courseID || assignment.Status == models.AssignmentStatusDraft {
		return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrNotFound.Status, "assignment not found")
	}

	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("COURSE_NOT_FOUND", appErrors.ErrNotFound.Status, "course not found")
		}
		return nil, appErrors.Wrap(err, "ASSIGNMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}

	enrollment, err := s.enrollments.FindByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrForbidden.Status, "not enrolled in this course")
		}
		return nil, appErrors.Wrap(err, "ASSIGNMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status != models.EnrollmentStatusActive {
		return nil, appErrors.New("ASSIGNMENT_NOT_ACCESSIBLE", appErrors.ErrForbidden.Status, "enrollment is not active")
	}

	detail := &dto.AssignmentDetail{Assignment: *assignment, CourseTitle: course.Title}
	submission, err := s.submissions.FindByAssignmentAndLearner(ctx, assignmentID, learnerID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, "ASSIGNMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load submission")
	}
	if submission != nil {
		detail.Submission = submission
	}
	return detail, nil
}

// ListForInstructor returns all assignments of an owned course.
func (s *AssignmentService) ListForInstructor(ctx context.Context, instructorID, courseID string) ([]models.Assignment, error) {
	if _, err := s.ownedCourse(ctx, instructorID, courseID); err != nil {
		return nil, err
	}
	assignments, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, "ASSIGNMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Create inserts a draft assignment on an owned course.
func (s *AssignmentService) Create(ctx context.Context, instructorID, courseID string, req AssignmentInput) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}
	dueAt, err := parseDueAt(req.DueAt)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dueAt must be an RFC 3339 timestamp")
	}
	if _, err := s.ownedCourse(ctx, instructorID, courseID); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		ID:                     uuid.NewString(),
		CourseID:               courseID,
		Title:                  req.Title,
		Description:            req.Description,
		DueAt:                  dueAt,
		ScoreWeight:            req.ScoreWeight,
		Instructions:           req.Instructions,
		SubmissionRequirements: req.SubmissionRequirements,
		LateSubmissionAllowed:  req.LateSubmissionAllowed,
		Status:                 models.AssignmentStatusDraft,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, "ASSIGNMENT_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// Update rewrites the writable fields of an assignment on an owned course.
func (s *AssignmentService) Update(ctx context.Context, instructorID, courseID, assignmentID string, req AssignmentInput) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}
	dueAt, err := parseDueAt(req.DueAt)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "dueAt must be an RFC 3339 timestamp")
	}

	assignment, err := s.ownedAssignment(ctx, instructorID, courseID, assignmentID)
	if err != nil {
		return nil, err
	}

	assignment.Title = req.Title
	assignment.Description = req.Description
	assignment.DueAt = dueAt
	assignment.ScoreWeight = req.ScoreWeight
	assignment.Instructions = req.Instructions
	assignment.SubmissionRequirements = req.SubmissionRequirements
	assignment.LateSubmissionAllowed = req.LateSubmissionAllowed
	if err := s.repo.Update(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, "ASSIGNMENT_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// ChangeStatus moves an assignment through draft → published → closed.
// Publishing additionally requires the candidate record to be complete.
func (s *AssignmentService) ChangeStatus(ctx context.Context, instructorID, courseID, assignmentID string, next models.AssignmentStatus) (*models.Assignment, error) {
	if !next.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown assignment status")
	}

	assignment, err := s.ownedAssignment(ctx, instructorID, courseID, assignmentID)
	if err != nil {
		return nil, err
	}

	if !assignment.Status.CanTransitionTo(next) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatusTransition,
			"assignment cannot move from "+string(assignment.Status)+" to "+string(next))
	}

	if next == models.AssignmentStatusPublished {
		if missing := assignment.MissingPublishFields(); len(missing) > 0 {
			return nil, appErrors.WithDetails(appErrors.ErrPublishRequirementsIncomplete,
				map[string][]string{"missing": missing})
		}
	}

	if err := s.repo.UpdateStatus(ctx, assignmentID, next); err != nil {
		return nil, appErrors.Wrap(err, "ASSIGNMENT_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to update assignment status")
	}
	assignment.Status = next

	if s.cache != nil {
		s.cache.Invalidate(ctx, "dashboard:instructor:"+instructorID, "dashboard:learner:*")
	}
	return assignment, nil
}

func (s *AssignmentService) ownedCourse(ctx context.Context, instructorID, courseID string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("COURSE_NOT_FOUND", appErrors.ErrNotFound.Status, "course not found")
		}
		return nil, appErrors.Wrap(err, "ASSIGNMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.InstructorID != instructorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another instructor")
	}
	return course, nil
}

func (s *AssignmentService) ownedAssignment(ctx context.Context, instructorID, courseID, assignmentID string) (*models.Assignment, error) {
	if _, err := s.ownedCourse(ctx, instructorID, courseID); err != nil {
		return nil, err
	}
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("ASSIGNMENT_NOT_FOUND", appErrors.ErrNotFound.Status, "assignment not found")
		}
		return nil, appErrors.Wrap(err, "ASSIGNMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if assignment.CourseID != courseID {
		return nil, appErrors.New("ASSIGNMENT_NOT_FOUND", appErrors.ErrNotFound.Status, "assignment not found")
	}
	return assignment, nil
}

func parseDueAt(raw string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(raw))
}
