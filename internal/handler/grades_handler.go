package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

// GradesHandler serves the learner's grade views.
type GradesHandler struct {
	grades *service.GradesService
}

// NewGradesHandler constructs handler.
func NewGradesHandler(grades *service.GradesService) *GradesHandler {
	return &GradesHandler{grades: grades}
}

// Overview godoc
// @Summary Grade summaries across the caller's active enrollments
// @Tags Grades
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /grades/overview [get]
func (h *GradesHandler) Overview(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, cacheHit, err := h.grades.Overview(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, overview, nil, map[string]interface{}{"cacheHit": cacheHit})
}

// CourseGrades godoc
// @Summary Per-assignment grade breakdown for an enrolled course
// @Tags Grades
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /courses/{courseId}/grades [get]
func (h *GradesHandler) CourseGrades(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	grades, cacheHit, err := h.grades.CourseGrades(c.Request.Context(), identity.UserID, c.Param("courseId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil, map[string]interface{}{"cacheHit": cacheHit})
}
