package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type enrollmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// EnrollRequest describes enrollment creation.
type EnrollRequest struct {
	CourseID string `json:"courseId" validate:"required,uuid4"`
}

// CancelEnrollmentRequest flips an enrollment to cancelled.
type CancelEnrollmentRequest struct {
	Status string `json:"status" validate:"required,oneof=cancelled"`
}

// EnrollmentService orchestrates enroll / cancel / re-enroll flows.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, cache: cache, validator: validate, logger: logger}
}

// Enroll registers the learner on a published course. A cancelled prior
// enrollment is reactivated in place; there is never more than one row per
// (learner, course) pair.
func (s *EnrollmentService) Enroll(ctx context.Context, learnerID string, req EnrollRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("COURSE_NOT_FOUND", appErrors.ErrNotFound.Status, "course not found")
		}
		return nil, appErrors.Wrap(err, "ENROLLMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.Status != models.CourseStatusPublished {
		return nil, appErrors.New("COURSE_NOT_ENROLLABLE", appErrors.ErrConflict.Status, "course is not open for enrollment")
	}

	existing, err := s.repo.FindByLearnerAndCourse(ctx, learnerID, req.CourseID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, "ENROLLMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	if existing != nil {
		if existing.Status == models.EnrollmentStatusActive {
			return nil, appErrors.New("ENROLLMENT_ALREADY_ACTIVE", appErrors.ErrConflict.Status, "already enrolled in this course")
		}
		if err := s.repo.UpdateStatus(ctx, existing.ID, models.EnrollmentStatusActive); err != nil {
			return nil, appErrors.Wrap(err, "ENROLLMENT_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to re-enroll")
		}
		existing.Status = models.EnrollmentStatusActive
		s.invalidate(ctx, learnerID)
		return existing, nil
	}

	enrollment := &models.Enrollment{
		ID:        uuid.NewString(),
		LearnerID: learnerID,
		CourseID:  req.CourseID,
		Status:    models.EnrollmentStatusActive,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, "ENROLLMENT_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.invalidate(ctx, learnerID)
	return enrollment, nil
}

// Cancel flips the learner's own enrollment to cancelled.
func (s *EnrollmentService) Cancel(ctx context.Context, learnerID, enrollmentID string, req CancelEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}

	enrollment, err := s.repo.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("ENROLLMENT_NOT_FOUND", appErrors.ErrNotFound.Status, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, "ENROLLMENT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.LearnerID != learnerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "enrollment belongs to another learner")
	}
	if enrollment.Status == models.EnrollmentStatusCancelled {
		return nil, appErrors.New("ENROLLMENT_ALREADY_CANCELLED", appErrors.ErrConflict.Status, "enrollment is already cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, enrollmentID, models.EnrollmentStatusCancelled); err != nil {
		return nil, appErrors.Wrap(err, "ENROLLMENT_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to cancel enrollment")
	}
	enrollment.Status = models.EnrollmentStatusCancelled
	s.invalidate(ctx, learnerID)
	return enrollment, nil
}

func (s *EnrollmentService) invalidate(ctx context.Context, learnerID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "dashboard:learner:"+learnerID, "dashboard:instructor:*")
	}
}
