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

// OperatorReportHandler covers the moderation report queue.
type OperatorReportHandler struct {
	reports *service.ReportService
}

// NewOperatorReportHandler constructs handler.
func NewOperatorReportHandler(reports *service.ReportService) *OperatorReportHandler {
	return &OperatorReportHandler{reports: reports}
}

// List godoc
// @Summary Report queue with status and target filters
// @Tags Operator
// @Produce json
// @Param status query string false "Status filter (received, investigating, resolved)"
// @Param targetType query string false "Target filter (course, assignment, submission)"
// @Param page query int false "Page number"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /operator/reports [get]
func (h *OperatorReportHandler) List(c *gin.Context) {
	filter := models.ReportFilter{
		Status:     models.ReportStatus(c.Query("status")),
		TargetType: models.ReportTargetType(c.Query("targetType")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("pageSize", "20")); err == nil {
		filter.PageSize = size
	}

	reports, pagination, err := h.reports.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// Detail godoc
// @Summary Report detail with its action audit trail
// @Tags Operator
// @Produce json
// @Param reportId path string true "Report ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /operator/reports/{reportId} [get]
func (h *OperatorReportHandler) Detail(c *gin.Context) {
	detail, err := h.reports.Detail(c.Request.Context(), c.Param("reportId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, detail)
}

// ChangeStatus godoc
// @Summary Move a report through its triage lifecycle
// @Tags Operator
// @Accept json
// @Produce json
// @Param reportId path string true "Report ID"
// @Param payload body service.ChangeReportStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /operator/reports/{reportId} [patch]
func (h *OperatorReportHandler) ChangeStatus(c *gin.Context) {
	var req service.ChangeReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	report, err := h.reports.ChangeStatus(c.Request.Context(), c.Param("reportId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, report)
}

// RecordAction godoc
// @Summary Record a remedial action against a report
// @Tags Operator
// @Accept json
// @Produce json
// @Param reportId path string true "Report ID"
// @Param payload body service.CreateReportActionRequest true "Action payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /operator/reports/{reportId}/actions [post]
func (h *OperatorReportHandler) RecordAction(c *gin.Context) {
	identity := identityFromContext(c)
	if identity == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateReportActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	action, err := h.reports.RecordAction(c.Request.Context(), identity.UserID, c.Param("reportId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, action)
}
