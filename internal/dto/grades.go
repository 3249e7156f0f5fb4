package dto

import (
	"time"

	"github.com/noah-isme/lms-api/internal/models"
)

// AssignmentGrade is one graded (or pending) assignment row in a course
// gradebook, seen from the learner side.
type AssignmentGrade struct {
	AssignmentID string                   `json:"assignmentId"`
	Title        string                   `json:"title"`
	DueAt        time.Time                `json:"dueAt"`
	ScoreWeight  float64                  `json:"scoreWeight"`
	Status       *models.SubmissionStatus `json:"status,omitempty"`
	Late         *bool                    `json:"late,omitempty"`
	Score        *float64                 `json:"score,omitempty"`
	FeedbackText *string                  `json:"feedbackText,omitempty"`
	SubmittedAt  *time.Time               `json:"submittedAt,omitempty"`
	GradedAt     *time.Time               `json:"gradedAt,omitempty"`
}

// CourseGrades is the per-course gradebook payload. WeightedTotal is the sum
// of score*scoreWeight/100 over graded assignments.
type CourseGrades struct {
	CourseID      string            `json:"courseId"`
	CourseTitle   string            `json:"courseTitle"`
	Assignments   []AssignmentGrade `json:"assignments"`
	GradedCount   int               `json:"gradedCount"`
	WeightedTotal float64           `json:"weightedTotal"`
}

// CourseGradeSummary is one course line on the grades overview.
type CourseGradeSummary struct {
	CourseID      string  `json:"courseId"`
	CourseTitle   string  `json:"courseTitle"`
	GradedCount   int     `json:"gradedCount"`
	TotalCount    int     `json:"totalCount"`
	WeightedTotal float64 `json:"weightedTotal"`
}

// GradesOverview is the cross-course grades payload for a learner.
type GradesOverview struct {
	Courses []CourseGradeSummary `json:"courses"`
}
