package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

// AssignmentHandler serves learner-facing assignment detail.
type AssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewAssignmentHandler constructs handler.
func NewAssignmentHandler(assignments *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// LearnerDetail godoc
// @Summary Published assignment detail with the caller's submission state
// @Tags Assignments
// @Produce json
// @Param courseId path string true "Course ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{courseId}/assignments/{assignmentId} [get]
func (h *AssignmentHandler) LearnerDetail(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.assignments.LearnerDetail(c.Request.Context(), identity.UserID, c.Param("courseId"), c.Param("assignmentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}
