package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-api/internal/models"
	appErrors "github.com/noah-isme/lms-api/pkg/errors"
)

type reportRepository interface {
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
	UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error
	CreateAction(ctx context.Context, action *models.ReportAction) error
	ListActions(ctx context.Context, reportID string) ([]models.ReportAction, error)
}

// ReportService handles the operator report queue.
type ReportService struct {
	repo     reportRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewReportService constructs ReportService.
func NewReportService(repo reportRepository, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, validate: validate, logger: logger}
}

// ReportDetail is a report together with its audit trail.
type ReportDetail struct {
	models.Report
	Actions []models.ReportAction `json:"actions"`
}

// ChangeReportStatusRequest moves a report through its lifecycle.
type ChangeReportStatusRequest struct {
	Status models.ReportStatus `json:"status" validate:"required,oneof=received investigating resolved"`
}

// CreateReportActionRequest records a remedial action on a report.
type CreateReportActionRequest struct {
	ActionType    models.ReportActionType `json:"actionType" validate:"required,oneof=warning submission_invalidation account_suspension"`
	ActionDetails string                  `json:"actionDetails" validate:"omitempty,max=2000"`
}

// List returns the report queue with optional status and target filters.
func (s *ReportService) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, *models.Pagination, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, appErrors.New("INVALID_REPORT_FILTER", appErrors.ErrValidation.Status, "unknown report status")
	}
	if filter.TargetType != "" && !filter.TargetType.Valid() {
		return nil, nil, appErrors.New("INVALID_REPORT_FILTER", appErrors.ErrValidation.Status, "unknown target type")
	}

	reports, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, "REPORT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to list reports")
	}
	if reports == nil {
		reports = []models.Report{}
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return reports, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Detail returns one report with its actions.
func (s *ReportService) Detail(ctx context.Context, reportID string) (*ReportDetail, error) {
	report, err := s.findReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	actions, err := s.repo.ListActions(ctx, reportID)
	if err != nil {
		return nil, appErrors.Wrap(err, "REPORT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load report actions")
	}
	if actions == nil {
		actions = []models.ReportAction{}
	}
	return &ReportDetail{Report: *report, Actions: actions}, nil
}

// ChangeStatus advances the report strictly forward through
// received, investigating, resolved. Resolving requires at least one
// recorded action with non-empty details.
func (s *ReportService) ChangeStatus(ctx context.Context, reportID string, req ChangeReportStatusRequest) (*models.Report, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid status payload"), validationDetails(err))
	}

	report, err := s.findReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if !report.Status.CanTransitionTo(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatusTransition,
			"cannot move report from "+string(report.Status)+" to "+string(req.Status))
	}

	if req.Status == models.ReportStatusResolved {
		actions, err := s.repo.ListActions(ctx, reportID)
		if err != nil {
			return nil, appErrors.Wrap(err, "REPORT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load report actions")
		}
		documented := false
		for _, action := range actions {
			if strings.TrimSpace(action.ActionDetails) != "" {
				documented = true
				break
			}
		}
		if !documented {
			return nil, appErrors.Clone(appErrors.ErrActionDetailsRequired, "")
		}
	}

	if err := s.repo.UpdateStatus(ctx, reportID, req.Status); err != nil {
		return nil, appErrors.Wrap(err, "REPORT_UPDATE_FAILED", appErrors.ErrInternal.Status, "failed to update report status")
	}
	report.Status = req.Status
	s.logger.Info("report status changed",
		zap.String("reportId", reportID), zap.String("status", string(req.Status)))
	return report, nil
}

// RecordAction appends an audit action to an open report. Resolution later
// requires at least one action with non-empty details.
func (s *ReportService) RecordAction(ctx context.Context, operatorID, reportID string, req CreateReportActionRequest) (*models.ReportAction, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "invalid action payload"), validationDetails(err))
	}

	report, err := s.findReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report.Status == models.ReportStatusResolved {
		return nil, appErrors.New("REPORT_ALREADY_RESOLVED", appErrors.ErrConflict.Status, "resolved reports no longer accept actions")
	}

	action := &models.ReportAction{
		ID:            uuid.NewString(),
		ReportID:      reportID,
		OperatorID:    operatorID,
		ActionType:    req.ActionType,
		ActionDetails: strings.TrimSpace(req.ActionDetails),
	}
	if err := s.repo.CreateAction(ctx, action); err != nil {
		return nil, appErrors.Wrap(err, "REPORT_ACTION_FAILED", appErrors.ErrInternal.Status, "failed to record action")
	}
	s.logger.Info("report action recorded",
		zap.String("reportId", reportID), zap.String("actionType", string(req.ActionType)))
	return action, nil
}

func (s *ReportService) findReport(ctx context.Context, reportID string) (*models.Report, error) {
	report, err := s.repo.FindByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.New("REPORT_NOT_FOUND", appErrors.ErrNotFound.Status, "report not found")
		}
		return nil, appErrors.Wrap(err, "REPORT_FETCH_FAILED", appErrors.ErrInternal.Status, "failed to load report")
	}
	return report, nil
}
