package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-api/internal/models"
)

// ReportRepository handles persistence of abuse reports and their actions.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = `id, reporter_id, target_type, target_id, reason, details, status, created_at, updated_at`

// List returns reports filtered by status and target type, newest first.
func (r *ReportRepository) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.TargetType != "" {
		conditions = append(conditions, fmt.Sprintf("target_type = $%d", len(args)+1))
		args = append(args, filter.TargetType)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM reports%s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		reportColumns, clause, size, offset)

	var reports []models.Report
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reports: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM reports%s", clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reports: %w", err)
	}
	return reports, total, nil
}

// FindByID returns a report row.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.Report, error) {
	query := fmt.Sprintf(`SELECT %s FROM reports WHERE id = $1`, reportColumns)
	var report models.Report
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateStatus moves a report through its lifecycle.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status models.ReportStatus) error {
	const query = `UPDATE reports SET status = $2, updated_at = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	return err
}

// CreateAction appends an audit row for the report.
func (r *ReportRepository) CreateAction(ctx context.Context, action *models.ReportAction) error {
	const query = `INSERT INTO report_actions (id, report_id, operator_id, action_type, action_details, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	action.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query, action.ID, action.ReportID, action.OperatorID,
		action.ActionType, action.ActionDetails, action.CreatedAt)
	return err
}

// ListActions returns the audit trail for a report, oldest first.
func (r *ReportRepository) ListActions(ctx context.Context, reportID string) ([]models.ReportAction, error) {
	const query = `SELECT id, report_id, operator_id, action_type, action_details, created_at
        FROM report_actions WHERE report_id = $1 ORDER BY created_at ASC`
	var actions []models.ReportAction
	if err := r.db.SelectContext(ctx, &actions, query, reportID); err != nil {
		return nil, fmt.Errorf("list report actions: %w", err)
	}
	return actions, nil
}
