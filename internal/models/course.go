package models

import "time"

// CourseStatus represents the lifecycle of a course. Transitions are
// monotonic: draft → published → archived, never backwards.
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

// Valid reports whether the status is a known course status.
func (s CourseStatus) Valid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the requested transition is permitted.
// The switch is total over the status domain; archived is terminal.
func (s CourseStatus) CanTransitionTo(next CourseStatus) bool {
	switch s {
	case CourseStatusDraft:
		return next == CourseStatusPublished
	case CourseStatusPublished:
		return next == CourseStatusArchived
	case CourseStatusArchived:
		return false
	default:
		return false
	}
}

// Course is a persisted course row owned by one instructor.
type Course struct {
	ID           string       `db:"id" json:"id"`
	InstructorID string       `db:"instructor_id" json:"instructorId"`
	Title        string       `db:"title" json:"title"`
	Description  string       `db:"description" json:"description"`
	Curriculum   string       `db:"curriculum" json:"curriculum"`
	CategoryID   *string      `db:"category_id" json:"categoryId,omitempty"`
	DifficultyID *string      `db:"difficulty_id" json:"difficultyId,omitempty"`
	Status       CourseStatus `db:"status" json:"status"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updatedAt"`
}

// CourseListItem enriches Course with catalog labels and enrollment counts
// for catalog listings.
type CourseListItem struct {
	Course
	InstructorName  string  `db:"instructor_name" json:"instructorName"`
	CategoryName    *string `db:"category_name" json:"categoryName,omitempty"`
	DifficultyName  *string `db:"difficulty_name" json:"difficultyName,omitempty"`
	EnrollmentCount int     `db:"enrollment_count" json:"enrollmentCount"`
}

// CourseFilter provides filters for the course catalog listing.
type CourseFilter struct {
	Search       string
	CategoryID   string
	DifficultyID string
	InstructorID string
	Status       CourseStatus
	Sort         string
	Page         int
	PageSize     int
}
