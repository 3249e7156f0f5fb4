package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/export"
)

type gradesEnrollmentReader interface {
	ListActiveByLearner(ctx context.Context, learnerID string) ([]models.Enrollment, error)
	FindByLearnerAndCourse(ctx context.Context, learnerID, courseID string) (*models.Enrollment, error)
}

type gradesCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type gradesAssignmentReader interface {
	ListPublishedByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
}

type gradesSubmissionReader interface {
	ListByAssignments(ctx context.Context, learnerID string, assignmentIDs []string) ([]models.Submission, error)
	ListDetailsByCourse(ctx context.Context, courseID string) ([]models.SubmissionDetail, error)
}

// ExportFormat selects the gradebook export renderer.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries a rendered gradebook file.
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
}

// GradesService computes learner gradebooks and renders instructor exports.
type GradesService struct {
	enrollments gradesEnrollmentReader
	courses     gradesCourseReader
	assignments gradesAssignmentReader
	submissions gradesSubmissionReader
	cache       *CacheService
	cacheTTL    time.Duration
	maxRows     int
	csv         *export.CSVExporter
	pdf         *export.PDFExporter
	logger      *zap.Logger
}

// NewGradesService constructs GradesService.
func NewGradesService(enrollments gradesEnrollmentReader, courses gradesCourseReader, assignments gradesAssignmentReader, submissions gradesSubmissionReader, cache *CacheService, cacheTTL time.Duration, maxRows int, logger *zap.Logger) *GradesService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradesService{
		enrollments: enrollments,
		courses:     courses,
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    cacheTTL,
		maxRows:     maxRows,
		csv:         export.NewCSVExporter(),
		pdf:         export.NewPDFExporter(),
		logger:      logger,
	}
}

// Overview returns per-course grade summaries for every active enrollment.
func (s *GradesService) Overview(ctx context.Context, learnerID string) (*dto.GradesOverview, bool, error) {
	cacheKey := "grades:" + learnerID + ":overview"
	if s.cache != nil {
		var cached dto.GradesOverview
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, true, nil
		}
	}

	enrollments, err := s.enrollments.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, "GRADES_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	overview := &dto.GradesOverview{Courses: []dto.CourseGradeSummary{}}
	for _, enrollment := range enrollments {
		grades, err := s.courseGrades(ctx, learnerID, enrollment.CourseID)
		if err != nil {
			return nil, false, err
		}
		overview.Courses = append(overview.Courses, dto.CourseGradeSummary{
			CourseID:      grades.CourseID,
			CourseTitle:   grades.CourseTitle,
			GradedCount:   grades.GradedCount,
			TotalCount:    len(grades.Assignments),
			WeightedTotal: grades.WeightedTotal,
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, overview, s.cacheTTL)
	}
	return overview, false, nil
}

// CourseGrades returns the learner's gradebook for one enrolled course.
func (s *GradesService) CourseGrades(ctx context.Context, learnerID, courseID string) (*dto.CourseGrades, bool, error) {
	enrollment, err := s.enrollments.FindByLearnerAndCourse(ctx, learnerID, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrForbidden, "grades are only available for enrolled courses")
		}
		return nil, false, appErrors.Wrap(err, "GRADES_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Status != models.EnrollmentStatusActive {
		return nil, false, appErrors.Clone(appErrors.ErrForbidden, "grades are only available for enrolled courses")
	}

	cacheKey := "grades:" + learnerID + ":" + courseID
	if s.cache != nil {
		var cached dto.CourseGrades
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, true, nil
		}
	}

	grades, err := s.courseGrades(ctx, learnerID, courseID)
	if err != nil {
		return nil, false, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, grades, s.cacheTTL)
	}
	return grades, false, nil
}

func (s *GradesService) courseGrades(ctx context.Context, learnerID, courseID string) (*dto.CourseGrades, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, "GRADES_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}

	assignments, err := s.assignments.ListPublishedByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, "GRADES_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load assignments")
	}

	assignmentIDs := make([]string, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}
	submissions, err := s.submissions.ListByAssignments(ctx, learnerID, assignmentIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, "GRADES_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load submissions")
	}
	byAssignment := make(map[string]models.Submission, len(submissions))
	for _, sub := range submissions {
		byAssignment[sub.AssignmentID] = sub
	}

	grades := &dto.CourseGrades{
		CourseID:    course.ID,
		CourseTitle: course.Title,
		Assignments: []dto.AssignmentGrade{},
	}
	for _, a := range assignments {
		row := dto.AssignmentGrade{
			AssignmentID: a.ID,
			Title:        a.Title,
			DueAt:        a.DueAt,
			ScoreWeight:  a.ScoreWeight,
		}
		if sub, ok := byAssignment[a.ID]; ok {
			status := sub.Status
			late := sub.Late
			submittedAt := sub.SubmittedAt
			row.Status = &status
			row.Late = &late
			row.SubmittedAt = &submittedAt
			row.Score = sub.Score
			row.FeedbackText = sub.FeedbackText
			row.GradedAt = sub.GradedAt
			if sub.Status == models.SubmissionStatusGraded && sub.Score != nil {
				grades.GradedCount++
				grades.WeightedTotal += *sub.Score * a.ScoreWeight / 100
			}
		}
		grades.Assignments = append(grades.Assignments, row)
	}
	return grades, nil
}

// Export renders the full course gradebook for the owning instructor.
func (s *GradesService) Export(ctx context.Context, instructorID, courseID string, format ExportFormat) (*ExportResult, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("COURSE_NOT_FOUND", appErrors.ErrNotFound.Status, "course not found")
		}
		return nil, appErrors.Wrap(err, "GRADES_EXPORT_FAILED", appErrors.ErrInternal.Status, "failed to load course")
	}
	if course.InstructorID != instructorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "course belongs to another instructor")
	}

	details, err := s.submissions.ListDetailsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, "GRADES_EXPORT_FAILED", appErrors.ErrInternal.Status, "failed to load submissions")
	}
	if s.maxRows > 0 && len(details) > s.maxRows {
		details = details[:s.maxRows]
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Gradebook: %s", course.Title),
		Headers: []string{"Learner", "Assignment", "Status", "Late", "Score", "Submitted At", "Graded At"},
		Rows:    make([]map[string]string, 0, len(details)),
	}
	for _, d := range details {
		row := map[string]string{
			"Learner":      d.LearnerName,
			"Assignment":   d.AssignmentTitle,
			"Status":       string(d.Status),
			"Late":         strconv.FormatBool(d.Late),
			"Submitted At": d.SubmittedAt.Format(time.RFC3339),
		}
		if d.Score != nil {
			row["Score"] = strconv.FormatFloat(*d.Score, 'f', -1, 64)
		}
		if d.GradedAt != nil {
			row["Graded At"] = d.GradedAt.Format(time.RFC3339)
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	result := &ExportResult{}
	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, "GRADES_EXPORT_FAILED", appErrors.ErrInternal.Status, "failed to render csv")
		}
		result.Content = content
		result.ContentType = "text/csv"
		result.FileName = fmt.Sprintf("gradebook-%s.csv", courseID)
	case ExportFormatPDF:
		content, err := s.pdf.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, "GRADES_EXPORT_FAILED", appErrors.ErrInternal.Status, "failed to render pdf")
		}
		result.Content = content
		result.ContentType = "application/pdf"
		result.FileName = fmt.Sprintf("gradebook-%s.pdf", courseID)
	default:
		return nil, appErrors.New("UNSUPPORTED_EXPORT_FORMAT", appErrors.ErrValidation.Status, "format must be csv or pdf")
	}
	return result, nil
}
