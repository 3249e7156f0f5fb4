package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lms-api/internal/service"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
	"github.com/noah-isme/lms-api/pkg/response"
)

// OperatorCatalogHandler covers category and difficulty level administration.
type OperatorCatalogHandler struct {
	catalog *service.CatalogService
}

// NewOperatorCatalogHandler constructs handler.
func NewOperatorCatalogHandler(catalog *service.CatalogService) *OperatorCatalogHandler {
	return &OperatorCatalogHandler{catalog: catalog}
}

// ListCategories godoc
// @Summary All categories, inactive included
// @Tags Operator
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /operator/categories [get]
func (h *OperatorCatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context(), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, categories)
}

// CreateCategory godoc
// @Summary Create a category
// @Tags Operator
// @Accept json
// @Produce json
// @Param payload body service.CategoryInput true "Category payload"
// @Success 201 {object} response.Envelope
// @Router /operator/categories [post]
func (h *OperatorCatalogHandler) CreateCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	category, err := h.catalog.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, category)
}

// UpdateCategory godoc
// @Summary Rename or toggle a category
// @Tags Operator
// @Accept json
// @Produce json
// @Param categoryId path string true "Category ID"
// @Param payload body service.CategoryInput true "Category payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /operator/categories/{categoryId} [patch]
func (h *OperatorCatalogHandler) UpdateCategory(c *gin.Context) {
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	category, err := h.catalog.UpdateCategory(c.Request.Context(), c.Param("categoryId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, category)
}

// ListDifficultyLevels godoc
// @Summary All difficulty levels, inactive included
// @Tags Operator
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /operator/difficulty-levels [get]
func (h *OperatorCatalogHandler) ListDifficultyLevels(c *gin.Context) {
	levels, err := h.catalog.DifficultyLevels(c.Request.Context(), false)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, levels)
}

// CreateDifficultyLevel godoc
// @Summary Create a difficulty level
// @Tags Operator
// @Accept json
// @Produce json
// @Param payload body service.DifficultyLevelInput true "Difficulty level payload"
// @Success 201 {object} response.Envelope
// @Router /operator/difficulty-levels [post]
func (h *OperatorCatalogHandler) CreateDifficultyLevel(c *gin.Context) {
	var req service.DifficultyLevelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	level, err := h.catalog.CreateDifficultyLevel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, level)
}

// UpdateDifficultyLevel godoc
// @Summary Rename, reorder or toggle a difficulty level
// @Tags Operator
// @Accept json
// @Produce json
// @Param levelId path string true "Difficulty level ID"
// @Param payload body service.DifficultyLevelInput true "Difficulty level payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /operator/difficulty-levels/{levelId} [patch]
func (h *OperatorCatalogHandler) UpdateDifficultyLevel(c *gin.Context) {
	var req service.DifficultyLevelInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	level, err := h.catalog.UpdateDifficultyLevel(c.Request.Context(), c.Param("levelId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, level)
}
