package models

import (
	"strings"
	"time"
)

// AssignmentStatus represents the lifecycle of an assignment. Transitions
// are monotonic: draft → published → closed, terminal at closed.
type AssignmentStatus string

const (
	AssignmentStatusDraft     AssignmentStatus = "draft"
	AssignmentStatusPublished AssignmentStatus = "published"
	AssignmentStatusClosed    AssignmentStatus = "closed"
)

// Valid reports whether the status is a known assignment status.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentStatusDraft, AssignmentStatusPublished, AssignmentStatusClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the requested transition is permitted.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	switch s {
	case AssignmentStatusDraft:
		return next == AssignmentStatusPublished
	case AssignmentStatusPublished:
		return next == AssignmentStatusClosed
	case AssignmentStatusClosed:
		return false
	default:
		return false
	}
}

// Assignment is a persisted assignment row belonging to exactly one course.
type Assignment struct {
	ID                     string           `db:"id" json:"id"`
	CourseID               string           `db:"course_id" json:"courseId"`
	Title                  string           `db:"title" json:"title"`
	Description            string           `db:"description" json:"description"`
	DueAt                  time.Time        `db:"due_at" json:"dueAt"`
	ScoreWeight            float64          `db:"score_weight" json:"scoreWeight"`
	Instructions           string           `db:"instructions" json:"instructions"`
	SubmissionRequirements string           `db:"submission_requirements" json:"submissionRequirements"`
	LateSubmissionAllowed  bool             `db:"late_submission_allowed" json:"lateSubmissionAllowed"`
	Status                 AssignmentStatus `db:"status" json:"status"`
	CreatedAt              time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt              time.Time        `db:"updated_at" json:"updatedAt"`
}

// MissingPublishFields returns the names of required fields that are blank
// on the candidate record. An assignment may only leave draft when this is
// empty and the score weight stays within [0,100].
func (a Assignment) MissingPublishFields() []string {
	var missing []string
	if strings.TrimSpace(a.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(a.Description) == "" {
		missing = append(missing, "description")
	}
	if a.DueAt.IsZero() {
		missing = append(missing, "dueAt")
	}
	if strings.TrimSpace(a.Instructions) == "" {
		missing = append(missing, "instructions")
	}
	if strings.TrimSpace(a.SubmissionRequirements) == "" {
		missing = append(missing, "submissionRequirements")
	}
	if a.ScoreWeight < 0 || a.ScoreWeight > 100 {
		missing = append(missing, "scoreWeight")
	}
	return missing
}
