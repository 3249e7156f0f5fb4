package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindListItemByID(ctx context.Context, id string) (*models.CourseListItem, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	UpdateStatus(ctx context.Context, id string, status models.CourseStatus) error
}

type enrollmentReader interface {
	FindByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*models.Enrollment, error)
}

// CreateCourseRequest describes instructor course creation.
type CreateCourseRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description" validate:"omitempty,max=5000"`
	Curriculum   string  `json:"curriculum" validate:"omitempty,max=20000"`
	CategoryID   *string `json:"categoryId" validate:"omitempty,uuid4"`
	DifficultyID *string `json:"difficultyId" validate:"omitempty,uuid4"`
}

// UpdateCourseRequest rewrites the mutable course fields.
type UpdateCourseRequest struct {
	Title        string  `json:"title" validate:"required,max=200"`
	Description  string  `json:"description" validate:"omitempty,max=5000"`
	Curriculum   string  `json:"curriculum" validate:"omitempty,max=20000"`
	CategoryID   *string `json:"categoryId" validate:"omitempty,uuid4"`
	DifficultyID *string `json:"difficultyId" validate:"omitempty,uuid4"`
}

// CourseService orchestrates catalog browsing and instructor course
// authoring.
type CourseService struct {
	repo        courseRepository
	enrollments enrollmentReader
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, enrollments enrollmentReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, enrollments: enrollments, cache: cache, validator: validate, logger: logger}
}

// Browse returns the published course catalog with pagination metadata.
func (s *CourseService) Browse(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, *models.Pagination, error) {
	filter.Status = models.CourseStatusPublished
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, "COURSE_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Detail returns the course page payload including the caller's enrollment
// state. Learners only see published or archived courses.
func (s *CourseService) Detail(ctx context.Context, courseID, learnerID string) (*dto.CourseDetail, error) {
	item, err := s.repo.FindListItemByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("COURSE_NOT_FOUND", appErrors.ErrNotFound.Status, "course not found")
		}
		return nil, appErrors.Wrap(err, "COURSE_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}
	if item.Status == models.CourseStatusDraft {
		return nil, appErrors.New("COURSE_NOT_FOUND", appErrors.ErrNotFound.Status, "course not found")
	}

	detail := &dto.CourseDetail{CourseListItem: *item}
	enrollment, err := s.enrollments.FindByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, "COURSE_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load enrollment")
		}
	} else {
		detail.EnrollmentID = &enrollment.ID
		detail.EnrollmentStatus = &enrollment.Status
	}
	return detail, nil
}

// ListByInstructor returns the instructor's own courses in any status.
func (s *CourseService) ListByInstructor(ctx context.Context, instructorID string, filter models.CourseFilter) ([]models.CourseListItem, *models.Pagination, error) {
	filter.InstructorID = instructorID
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, "COURSE_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create inserts a draft course owned by the instructor.
func (s *CourseService) Create(ctx context.Context, instructorID string, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}

	course := &models.Course{
		ID:           uuid.NewString(),
		InstructorID: instructorID,
		Title:        req.Title,
		Description:  req.Description,
		Curriculum:   req.Curriculum,
		CategoryID:   req.CategoryID,
		DifficultyID: req.DifficultyID,
		Status:       models.CourseStatusDraft,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, "COURSE_CREATE_FAILED", appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update rewrites the mutable fields of a course owned by the instructor.
func (s *CourseService) Update(ctx context.Context, instructorID, courseID string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, validationDetails(err))
	}

	course, err := s.ownedCourse(ctx, instructorID, courseID)
	if err != nil {
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.Curriculum = req.Curriculum
	course.CategoryID = req.CategoryID
	course.DifficultyID = req.DifficultyID
	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, "COURSE_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// ChangeStatus moves a course through draft → published → archived.
func (s *CourseService) ChangeStatus(ctx context.Context, instructorID, courseID string, next models.CourseStatus) (*models.Course, error) {
	if !next.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown course status")
	}

	course, err := s.ownedCourse(ctx, instructorID, courseID)
	if err != nil {
		return nil, err
	}

	if !course.Status.CanTransitionTo(next) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatusTransition,
			"course cannot move from "+string(course.Status)+" to "+string(next))
	}

	if err := s.repo.UpdateStatus(ctx, courseID, next); err != nil {
		return nil, appErrors.Wrap(err, "COURSE_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to update course status")
	}
	course.Status = next

	if s.cache != nil {
		s.cache.Invalidate(ctx, "dashboard:instructor:"+instructorID, "dashboard:learner:*")
	}
	return course, nil
}

func (s *CourseService) ownedCourse(ctx context.Context, instructorID, courseID string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("COURSE_NOT_FOUND", appErrors.ErrNotFound.Status, "course not found")
		}
		return nil, appErrors.Wrap(err, "COURSE_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.InstructorID != instructorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another instructor")
	}
	return course, nil
}
