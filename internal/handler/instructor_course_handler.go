package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

type changeCourseStatusRequest struct {
	Status models.CourseStatus `json:"status" binding:"required"`
}

// InstructorCourseHandler covers instructor course authoring.
type InstructorCourseHandler struct {
	courses *service.CourseService
}

// NewInstructorCourseHandler constructs handler.
func NewInstructorCourseHandler(courses *service.CourseService) *InstructorCourseHandler {
	return &InstructorCourseHandler{courses: courses}
}

// List godoc
// @Summary Courses owned by the caller, drafts included
// @Tags Instructor
// @Produce json
// @Param status query string false "Status filter (draft, published, archived)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /instructor/courses [get]
func (h *InstructorCourseHandler) List(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.CourseFilter{Status: models.CourseStatus(c.Query("status"))}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("pageSize", "20")); err == nil {
		filter.PageSize = size
	}

	items, pagination, err := h.courses.ListByInstructor(c.Request.Context(), identity.UserID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Create godoc
// @Summary Create a draft course
// @Tags Instructor
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /instructor/courses [post]
func (h *InstructorCourseHandler) Create(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), identity.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Update godoc
// @Summary Update an owned course
// @Tags Instructor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body service.UpdateCourseRequest true "Course payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /instructor/courses/{courseId} [patch]
func (h *InstructorCourseHandler) Update(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	course, err := h.courses.Update(c.Request.Context(), identity.UserID, c.Param("courseId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}

// ChangeStatus godoc
// @Summary Move an owned course along its lifecycle
// @Tags Instructor
// @Accept json
// @Produce json
// @Param courseId path string true "Course ID"
// @Param payload body handler.changeCourseStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /instructor/courses/{courseId}/status [patch]
func (h *InstructorCourseHandler) ChangeStatus(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req changeCourseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	course, err := h.courses.ChangeStatus(c.Request.Context(), identity.UserID, c.Param("courseId"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, course)
}
