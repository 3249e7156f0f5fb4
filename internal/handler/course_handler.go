package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/models"
	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

// CourseHandler serves the learner-facing course catalog.
type CourseHandler struct {
	courses *service.CourseService
	catalog *service.CatalogService
}

// NewCourseHandler constructs handler.
func NewCourseHandler(courses *service.CourseService, catalog *service.CatalogService) *CourseHandler {
	return &CourseHandler{courses: courses, catalog: catalog}
}

// Browse godoc
// @Summary Browse published courses
// @Tags Courses
// @Produce json
// @Param search query string false "Title or description search"
// @Param categoryId query string false "Category filter"
// @Param difficultyId query string false "Difficulty filter"
// @Param sort query string false "Sort key (popular, latest)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) Browse(c *gin.Context) {
	filter := models.CourseFilter{
		Search:       strings.TrimSpace(c.Query("search")),
		CategoryID:   c.Query("categoryId"),
		DifficultyID: c.Query("difficultyId"),
		Sort:         c.Query("sort"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("pageSize", "20")); err == nil {
		filter.PageSize = size
	}

	items, pagination, err := h.courses.Browse(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Detail godoc
// @Summary Published course detail with the caller's enrollment state
// @Tags Courses
// @Produce json
// @Param courseId path string true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{courseId} [get]
func (h *CourseHandler) Detail(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	detail, err := h.courses.Detail(c.Request.Context(), c.Param("courseId"), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// Categories godoc
// @Summary Active categories for the catalog filter bar
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CourseHandler) Categories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context(), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}

// DifficultyLevels godoc
// @Summary Active difficulty levels for the catalog filter bar
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /difficulty-levels [get]
func (h *CourseHandler) DifficultyLevels(c *gin.Context) {
	levels, err := h.catalog.DifficultyLevels(c.Request.Context(), true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, levels)
}
