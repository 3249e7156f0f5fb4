package dto

import (
	"time"

	"github.com/noah-isme/lms-api/internal/models"
)

// CourseProgress summarizes a learner's standing in one enrolled course.
type CourseProgress struct {
	CourseID         string  `json:"courseId"`
	CourseTitle      string  `json:"courseTitle"`
	TotalAssignments int     `json:"totalAssignments"`
	Completed        int     `json:"completed"`
	ProgressPercent  float64 `json:"progressPercent"`
}

// UpcomingAssignment is an assignment due soon for an enrolled course.
type UpcomingAssignment struct {
	AssignmentID string    `json:"assignmentId"`
	CourseID     string    `json:"courseId"`
	CourseTitle  string    `json:"courseTitle"`
	Title        string    `json:"title"`
	DueAt        time.Time `json:"dueAt"`
	Submitted    bool      `json:"submitted"`
}

// RecentFeedback is a graded submission's feedback surfaced on the overview.
type RecentFeedback struct {
	SubmissionID    string                  `json:"submissionId"`
	AssignmentID    string                  `json:"assignmentId"`
	AssignmentTitle string                  `json:"assignmentTitle"`
	CourseTitle     string                  `json:"courseTitle"`
	Status          models.SubmissionStatus `json:"status"`
	Score           *float64                `json:"score,omitempty"`
	FeedbackText    *string                 `json:"feedbackText,omitempty"`
	GradedAt        *time.Time              `json:"gradedAt,omitempty"`
}

// LearnerOverview is the learner dashboard payload.
type LearnerOverview struct {
	EnrolledCourses     int                  `json:"enrolledCourses"`
	CourseProgress      []CourseProgress     `json:"courseProgress"`
	UpcomingAssignments []UpcomingAssignment `json:"upcomingAssignments"`
	RecentFeedback      []RecentFeedback     `json:"recentFeedback"`
}

// InstructorCourseSummary aggregates per-course numbers for the instructor
// dashboard.
type InstructorCourseSummary struct {
	CourseID        string              `json:"courseId"`
	Title           string              `json:"title"`
	Status          models.CourseStatus `json:"status"`
	EnrollmentCount int                 `json:"enrollmentCount"`
	PendingGrading  int                 `json:"pendingGrading"`
}

// PendingSubmission is an ungraded submission awaiting instructor review.
type PendingSubmission struct {
	SubmissionID    string    `json:"submissionId"`
	AssignmentID    string    `json:"assignmentId"`
	AssignmentTitle string    `json:"assignmentTitle"`
	CourseID        string    `json:"courseId"`
	CourseTitle     string    `json:"courseTitle"`
	LearnerName     string    `json:"learnerName"`
	Late            bool      `json:"late"`
	SubmittedAt     time.Time `json:"submittedAt"`
}

// InstructorDashboard is the instructor dashboard payload.
type InstructorDashboard struct {
	TotalCourses        int                       `json:"totalCourses"`
	TotalEnrollments    int                       `json:"totalEnrollments"`
	PendingGradingTotal int                       `json:"pendingGradingTotal"`
	Courses             []InstructorCourseSummary `json:"courses"`
	RecentSubmissions   []PendingSubmission       `json:"recentSubmissions"`
}
