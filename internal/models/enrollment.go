package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment. Unlike the
// other status domains it is not monotonic: a learner may re-enroll after
// cancelling, flipping the same row back to active.
type EnrollmentStatus string

const (
	EnrollmentStatusActive    EnrollmentStatus = "active"
	EnrollmentStatusCancelled EnrollmentStatus = "cancelled"
)

// Valid reports whether the status is a known enrollment status.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusCancelled:
		return true
	default:
		return false
	}
}

// Enrollment links a learner to a course. One row per (learner, course)
// pair; status is mutated on cancel and re-enroll.
type Enrollment struct {
	ID        string           `db:"id" json:"id"`
	LearnerID string           `db:"learner_id" json:"learnerId"`
	CourseID  string           `db:"course_id" json:"courseId"`
	Status    EnrollmentStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time        `db:"updated_at" json:"updatedAt"`
}
