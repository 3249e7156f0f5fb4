package models

import "time"

// ReportStatus represents the handling lifecycle of an abuse report.
// Strictly forward: received → investigating → resolved.
type ReportStatus string

const (
	ReportStatusReceived      ReportStatus = "received"
	ReportStatusInvestigating ReportStatus = "investigating"
	ReportStatusResolved      ReportStatus = "resolved"
)

// Valid reports whether the status is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusReceived, ReportStatusInvestigating, ReportStatusResolved:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the requested transition is permitted.
func (s ReportStatus) CanTransitionTo(next ReportStatus) bool {
	switch s {
	case ReportStatusReceived:
		return next == ReportStatusInvestigating
	case ReportStatusInvestigating:
		return next == ReportStatusResolved
	case ReportStatusResolved:
		return false
	default:
		return false
	}
}

// ReportTargetType identifies what a report is filed against.
type ReportTargetType string

const (
	ReportTargetCourse     ReportTargetType = "course"
	ReportTargetAssignment ReportTargetType = "assignment"
	ReportTargetSubmission ReportTargetType = "submission"
)

// Valid reports whether the target type is known.
func (t ReportTargetType) Valid() bool {
	switch t {
	case ReportTargetCourse, ReportTargetAssignment, ReportTargetSubmission:
		return true
	default:
		return false
	}
}

// Report is a persisted abuse report handled by operators.
type Report struct {
	ID         string           `db:"id" json:"id"`
	ReporterID string           `db:"reporter_id" json:"reporterId"`
	TargetType ReportTargetType `db:"target_type" json:"targetType"`
	TargetID   string           `db:"target_id" json:"targetId"`
	Reason     string           `db:"reason" json:"reason"`
	Details    string           `db:"details" json:"details"`
	Status     ReportStatus     `db:"status" json:"status"`
	CreatedAt  time.Time        `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updatedAt"`
}

// ReportActionType identifies the remedial action taken by an operator.
type ReportActionType string

const (
	ReportActionWarning                ReportActionType = "warning"
	ReportActionSubmissionInvalidation ReportActionType = "submission_invalidation"
	ReportActionAccountSuspension      ReportActionType = "account_suspension"
)

// Valid reports whether the action type is known.
func (t ReportActionType) Valid() bool {
	switch t {
	case ReportActionWarning, ReportActionSubmissionInvalidation, ReportActionAccountSuspension:
		return true
	default:
		return false
	}
}

// ReportAction is an append-only audit row tied to a report.
type ReportAction struct {
	ID            string           `db:"id" json:"id"`
	ReportID      string           `db:"report_id" json:"reportId"`
	OperatorID    string           `db:"operator_id" json:"operatorId"`
	ActionType    ReportActionType `db:"action_type" json:"actionType"`
	ActionDetails string           `db:"action_details" json:"actionDetails"`
	CreatedAt     time.Time        `db:"created_at" json:"createdAt"`
}

// ReportFilter provides filters for the operator report queue.
type ReportFilter struct {
	Status     ReportStatus
	TargetType ReportTargetType
	Page       int
	PageSize   int
}
