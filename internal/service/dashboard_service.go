package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/dto"
	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type dashboardEnrollmentReader interface {
	ListActiveByLearner(ctx context.Context, learnerID string) ([]models.Enrollment, error)
}

type dashboardCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, int, error)
}

type dashboardAssignmentReader interface {
	ListPublishedByCourse(ctx context.Context, courseID string) ([]models.Assignment, error)
}

type dashboardSubmissionReader interface {
	ListByAssignments(ctx context.Context, learnerID string, assignmentIDs []string) ([]models.Submission, error)
	ListRecentGradedByLearner(ctx context.Context, learnerID string, limit int) ([]models.SubmissionDetail, error)
	ListPendingByInstructor(ctx context.Context, instructorID string, limit int) ([]models.SubmissionDetail, error)
	CountPendingByCourse(ctx context.Context, courseID string) (int, error)
}

// DashboardService assembles learner and instructor dashboard payloads,
// cached per user under a short TTL.
type DashboardService struct {
	enrollments dashboardEnrollmentReader
	courses     dashboardCourseReader
	assignments dashboardAssignmentReader
	submissions dashboardSubmissionReader
	cache       *CacheService
	cacheTTL    time.Duration
	logger      *zap.Logger
	now         func() time.Time
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(enrollments dashboardEnrollmentReader, courses dashboardCourseReader, assignments dashboardAssignmentReader, submissions dashboardSubmissionReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		enrollments: enrollments,
		courses:     courses,
		assignments: assignments,
		submissions: submissions,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// LearnerOverview returns the learner dashboard. The second return value
// reports whether the payload came from cache.
func (s *DashboardService) LearnerOverview(ctx context.Context, learnerID string) (*dto.LearnerOverview, bool, error) {
	cacheKey := "dashboard:learner:" + learnerID
	if s.cache != nil {
		var cached dto.LearnerOverview
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, true, nil
		}
	}

	enrollments, err := s.enrollments.ListActiveByLearner(ctx, learnerID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	overview := &dto.LearnerOverview{
		EnrolledCourses:     len(enrollments),
		CourseProgress:      []dto.CourseProgress{},
		UpcomingAssignments: []dto.UpcomingAssignment{},
		RecentFeedback:      []dto.RecentFeedback{},
	}

	now := s.now()
	for _, enrollment := range enrollments {
		course, err := s.courses.FindByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load course")
		}

		assignments, err := s.assignments.ListPublishedByCourse(ctx, enrollment.CourseID)
		if err != nil {
			return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load assignments")
		}

		assignmentIDs := make([]string, 0, len(assignments))
		for _, a := range assignments {
			assignmentIDs = append(assignmentIDs, a.ID)
		}
		submissions, err := s.submissions.ListByAssignments(ctx, learnerID, assignmentIDs)
		if err != nil {
			return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load submissions")
		}
		submitted := make(map[string]models.SubmissionStatus, len(submissions))
		for _, sub := range submissions {
			submitted[sub.AssignmentID] = sub.Status
		}

		completed := 0
		for _, a := range assignments {
			status, ok := submitted[a.ID]
			if ok && status != models.SubmissionStatusResubmissionRequired {
				completed++
			}
			if !ok && a.Status == models.AssignmentStatusPublished && a.DueAt.After(now) {
				overview.UpcomingAssignments = append(overview.UpcomingAssignments, dto.UpcomingAssignment{
					AssignmentID: a.ID,
					CourseID:     course.ID,
					CourseTitle:  course.Title,
					Title:        a.Title,
					DueAt:        a.DueAt,
				})
			}
		}

		progress := dto.CourseProgress{
			CourseID:         course.ID,
			CourseTitle:      course.Title,
			TotalAssignments: len(assignments),
			Completed:        completed,
		}
		if len(assignments) > 0 {
			progress.ProgressPercent = float64(completed) / float64(len(assignments)) * 100
		}
		overview.CourseProgress = append(overview.CourseProgress, progress)
	}

	sort.Slice(overview.UpcomingAssignments, func(i, j int) bool {
		return overview.UpcomingAssignments[i].DueAt.Before(overview.UpcomingAssignments[j].DueAt)
	})
	if len(overview.UpcomingAssignments) > 5 {
		overview.UpcomingAssignments = overview.UpcomingAssignments[:5]
	}

	recent, err := s.submissions.ListRecentGradedByLearner(ctx, learnerID, 5)
	if err != nil {
		return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load feedback")
	}
	for _, item := range recent {
		overview.RecentFeedback = append(overview.RecentFeedback, dto.RecentFeedback{
			SubmissionID:    item.ID,
			AssignmentID:    item.AssignmentID,
			AssignmentTitle: item.AssignmentTitle,
			CourseTitle:     item.CourseTitle,
			Status:          item.Status,
			Score:           item.Score,
			FeedbackText:    item.FeedbackText,
			GradedAt:        item.GradedAt,
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, overview, s.cacheTTL)
	}
	return overview, false, nil
}

// InstructorDashboard returns per-course rollups and the grading queue for
// the instructor. The second return value reports a cache hit.
func (s *DashboardService) InstructorDashboard(ctx context.Context, instructorID string) (*dto.InstructorDashboard, bool, error) {
	cacheKey := "dashboard:instructor:" + instructorID
	if s.cache != nil {
		var cached dto.InstructorDashboard
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, true, nil
		}
	}

	courses, total, err := s.courses.List(ctx, models.CourseFilter{InstructorID: instructorID, PageSize: 100})
	if err != nil {
		return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load courses")
	}

	dashboard := &dto.InstructorDashboard{
		TotalCourses:      total,
		Courses:           []dto.InstructorCourseSummary{},
		RecentSubmissions: []dto.PendingSubmission{},
	}

	for _, course := range courses {
		pending, err := s.submissions.CountPendingByCourse(ctx, course.ID)
		if err != nil {
			return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to count pending submissions")
		}
		dashboard.TotalEnrollments += course.EnrollmentCount
		dashboard.PendingGradingTotal += pending
		dashboard.Courses = append(dashboard.Courses, dto.InstructorCourseSummary{
			CourseID:        course.ID,
			Title:           course.Title,
			Status:          course.Status,
			EnrollmentCount: course.EnrollmentCount,
			PendingGrading:  pending,
		})
	}

	recent, err := s.submissions.ListPendingByInstructor(ctx, instructorID, 10)
	if err != nil {
		return nil, false, appErrors.Wrap(err, "DASHBOARD_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load grading queue")
	}
	for _, item := range recent {
		dashboard.RecentSubmissions = append(dashboard.RecentSubmissions, dto.PendingSubmission{
			SubmissionID:    item.ID,
			AssignmentID:    item.AssignmentID,
			AssignmentTitle: item.AssignmentTitle,
			CourseID:        item.CourseID,
			CourseTitle:     item.CourseTitle,
			LearnerName:     item.LearnerName,
			Late:            item.Late,
			SubmittedAt:     item.SubmittedAt,
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, cacheKey, dashboard, s.cacheTTL)
	}
	return dashboard, false, nil
}
