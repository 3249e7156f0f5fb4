package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

// InstructorGradingHandler covers the grading queue and gradebook export.
type InstructorGradingHandler struct {
	submissions *service.SubmissionService
	grades      *service.GradesService
}

// NewInstructorGradingHandler constructs handler.
func NewInstructorGradingHandler(submissions *service.SubmissionService, grades *service.GradesService) *InstructorGradingHandler {
	return &InstructorGradingHandler{submissions: submissions, grades: grades}
}

// SubmissionDetail godoc
// @Summary Submission detail for grading
// @Tags Instructor
// @Produce json
// @Param assignmentId path string true "Assignment ID"
// @Param submissionId path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /instructor/assignments/{assignmentId}/submissions/{submissionId} [get]
func (h *InstructorGradingHandler) SubmissionDetail(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.submissions.InstructorDetail(c.Request.Context(), identity.UserID, c.Param("assignmentId"), c.Param("submissionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Grade godoc
// @Summary Record a grading decision
// @Tags Instructor
// @Accept json
// @Produce json
// @Param assignmentId path string true "Assignment ID"
// @Param submissionId path string true "Submission ID"
// @Param payload body service.GradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /instructor/assignments/{assignmentId}/submissions/{submissionId}/grade [patch]
func (h *InstructorGradingHandler) Grade(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	detail, err := h.submissions.Grade(c.Request.Context(), identity.UserID, c.Param("assignmentId"), c.Param("submissionId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// ExportGradebook godoc
// @Summary Download the course gradebook as CSV or PDF
// @Tags Instructor
// @Produce text/csv
// @Produce application/pdf
// @Param courseId path string true "Course ID"
// @Param format query string false "Export format (csv, pdf)" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /instructor/courses/{courseId}/grades/export [get]
func (h *InstructorGradingHandler) ExportGradebook(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := service.ExportFormat(c.DefaultQuery("format", string(service.ExportFormatCSV)))
	result, err := h.grades.Export(c.Request.Context(), identity.UserID, c.Param("courseId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
