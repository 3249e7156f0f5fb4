package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseStatusTransitions(t *testing.T) {
	statuses := []CourseStatus{CourseStatusDraft, CourseStatusPublished, CourseStatusArchived}
	allowed := map[CourseStatus]CourseStatus{
		CourseStatusDraft:     CourseStatusPublished,
		CourseStatusPublished: CourseStatusArchived,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from] == to && from != CourseStatusArchived
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestAssignmentStatusTransitions(t *testing.T) {
	statuses := []AssignmentStatus{AssignmentStatusDraft, AssignmentStatusPublished, AssignmentStatusClosed}
	allowed := map[AssignmentStatus]AssignmentStatus{
		AssignmentStatusDraft:     AssignmentStatusPublished,
		AssignmentStatusPublished: AssignmentStatusClosed,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from] == to && from != AssignmentStatusClosed
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestReportStatusTransitions(t *testing.T) {
	statuses := []ReportStatus{ReportStatusReceived, ReportStatusInvestigating, ReportStatusResolved}
	allowed := map[ReportStatus]ReportStatus{
		ReportStatusReceived:      ReportStatusInvestigating,
		ReportStatusInvestigating: ReportStatusResolved,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[from] == to && from != ReportStatusResolved
			assert.Equalf(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatusTransitionsRejectUnknownValues(t *testing.T) {
	assert.False(t, CourseStatus("frozen").CanTransitionTo(CourseStatusPublished))
	assert.False(t, AssignmentStatusDraft.CanTransitionTo(AssignmentStatus("reopened")))
	assert.False(t, ReportStatus("").CanTransitionTo(ReportStatusInvestigating))
}
