package models

import "time"

// SubmissionStatus represents the grading lifecycle of a submission.
type SubmissionStatus string

const (
	SubmissionStatusSubmitted            SubmissionStatus = "submitted"
	SubmissionStatusGraded               SubmissionStatus = "graded"
	SubmissionStatusResubmissionRequired SubmissionStatus = "resubmission_required"
)

// Valid reports whether the status is a known submission status.
func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionStatusSubmitted, SubmissionStatusGraded, SubmissionStatusResubmissionRequired:
		return true
	default:
		return false
	}
}

// Submission is the single persisted row per (assignment, learner). A
// resubmission overwrites content fields in place; the late flag is fixed at
// submission time and never recomputed.
type Submission struct {
	ID                string           `db:"id" json:"id"`
	AssignmentID      string           `db:"assignment_id" json:"assignmentId"`
	LearnerID         string           `db:"learner_id" json:"learnerId"`
	SubmissionText    string           `db:"submission_text" json:"submissionText"`
	SubmissionLink    *string          `db:"submission_link" json:"submissionLink,omitempty"`
	Status            SubmissionStatus `db:"status" json:"status"`
	Late              bool             `db:"late" json:"late"`
	Score             *float64         `db:"score" json:"score,omitempty"`
	FeedbackText      *string          `db:"feedback_text" json:"feedbackText,omitempty"`
	SubmittedAt       time.Time        `db:"submitted_at" json:"submittedAt"`
	GradedAt          *time.Time       `db:"graded_at" json:"gradedAt,omitempty"`
	FeedbackUpdatedAt *time.Time       `db:"feedback_updated_at" json:"feedbackUpdatedAt,omitempty"`
}

// SubmissionDetail enriches Submission with learner and assignment context
// for instructor grading views.
type SubmissionDetail struct {
	Submission
	LearnerName           string    `db:"learner_name" json:"learnerName"`
	AssignmentTitle       string    `db:"assignment_title" json:"assignmentTitle"`
	AssignmentDueAt       time.Time `db:"assignment_due_at" json:"assignmentDueAt"`
	AssignmentScoreWeight float64   `db:"assignment_score_weight" json:"assignmentScoreWeight"`
	CourseID              string    `db:"course_id" json:"courseId"`
	CourseTitle           string    `db:"course_title" json:"courseTitle"`
}
