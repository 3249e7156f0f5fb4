package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func readyAssignment() Assignment {
	return Assignment{
		Title:                  "Week 1 Essay",
		Description:            "Write about the course themes.",
		DueAt:                  time.Date(2026, 3, 1, 23, 59, 0, 0, time.UTC),
		ScoreWeight:            20,
		Instructions:           "At least 500 words.",
		SubmissionRequirements: "Plain text or a shared link.",
	}
}

func TestMissingPublishFieldsComplete(t *testing.T) {
	assert.Empty(t, readyAssignment().MissingPublishFields())
}

func TestMissingPublishFieldsBlankValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Assignment)
		field  string
	}{
		{"title", func(a *Assignment) { a.Title = "   " }, "title"},
		{"description", func(a *Assignment) { a.Description = "" }, "description"},
		{"dueAt", func(a *Assignment) { a.DueAt = time.Time{} }, "dueAt"},
		{"instructions", func(a *Assignment) { a.Instructions = "\t\n" }, "instructions"},
		{"submissionRequirements", func(a *Assignment) { a.SubmissionRequirements = "" }, "submissionRequirements"},
		{"scoreWeight high", func(a *Assignment) { a.ScoreWeight = 101 }, "scoreWeight"},
		{"scoreWeight negative", func(a *Assignment) { a.ScoreWeight = -1 }, "scoreWeight"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := readyAssignment()
			tc.mutate(&a)
			assert.Contains(t, a.MissingPublishFields(), tc.field)
		})
	}
}

func TestMissingPublishFieldsReportsAllBlanks(t *testing.T) {
	a := Assignment{}
	missing := a.MissingPublishFields()
	assert.Len(t, missing, 5)
	assert.NotContains(t, missing, "scoreWeight")
}
