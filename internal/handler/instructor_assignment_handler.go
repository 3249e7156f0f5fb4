package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

type changeAssignmentStatusRequest struct {
	Status models.AssignmentStatus `json:"status" binding:"required"`
}

// InstructorAssignmentHandler covers instructor assignment authoring.
type InstructorAssignmentHandler struct {
	assignments *service.AssignmentService
}

// NewInstructorAssignmentHandler constructs handler.
func NewInstructorAssignmentHandler(assignments *service.AssignmentService) *InstructorAssignmentHandler {
	return &InstructorAssignmentHandler{assignments: assignments}
}

// List godoc
// @Summary Assignments of an owned course, drafts included
// @Tags Instructor
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /instructor/courses/{courseId}/assignments [get]
func (h *InstructorAssignmentHandler) List(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	assignments, err := h.assignments.ListForInstructor(c.Request.Context(), identity.UserID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignments)
}

// Create godoc
// @Summary Create a draft assignment in an owned course
// @Tags Instructor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body service.AssignmentInput true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Router /instructor/courses/{courseId}/assignments [post]
func (h *InstructorAssignmentHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AssignmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	assignment, err := h.assignments.Create(c.Request.Context(), identity.UserID, c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Update godoc
// @Summary Update an assignment in an owned course
// @Tags Instructor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param assignmentId path string true "Assignment ID"
// @Param payload body service.AssignmentInput true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Router /instructor/courses/{courseId}/assignments/{assignmentId} [patch]
func (h *InstructorAssignmentHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AssignmentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	assignment, err := h.assignments.Update(c.Request.Context(), identity.UserID, c.Param("courseId"), c.Param("assignmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}

// ChangeStatus godoc
// @Summary Publish or close an assignment
// @Tags Instructor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param assignmentId path string true "Assignment ID"
// @Param payload body handler.changeAssignmentStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /instructor/courses/{courseId}/assignments/{assignmentId}/status [patch]
func (h *InstructorAssignmentHandler) ChangeStatus(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req changeAssignmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	assignment, err := h.assignments.ChangeStatus(c.Request.Context(), identity.UserID, c.Param("courseId"), c.Param("assignmentId"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, assignment)
}
