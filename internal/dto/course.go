package dto

import "github.com/noah-isme/lms-api/internal/models"

// CourseDetail is the course page payload for a learner: the catalog row
// plus the caller's own enrollment state, when any.
type CourseDetail struct {
	models.CourseListItem
	EnrollmentID     *string                  `json:"enrollmentId,omitempty"`
	EnrollmentStatus *models.EnrollmentStatus `json:"enrollmentStatus,omitempty"`
}

// AssignmentDetail is the learner view of a published assignment together
// with the caller's submission, when one exists.
type AssignmentDetail struct {
	models.Assignment
	CourseTitle string             `json:"courseTitle"`
	Submission  *models.Submission `json:"submission,omitempty"`
}

// SubmissionResult is returned after a submit or resubmit. PreviousStatus
// echoes the pre-overwrite status for resubmissions; it is never persisted.
type SubmissionResult struct {
	models.Submission
	PreviousStatus *models.SubmissionStatus `json:"previousStatus,omitempty"`
}
