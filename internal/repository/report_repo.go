package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var pendingTaskStatuses = []model.TaskStatus{
	model.TaskDikirim,
	model.TaskDiterima,
	model.TaskDalamPengerjaan,
}

// ReportRepository defines data access for citizen reports.
type ReportRepository interface {
	Create(ctx context.Context, report *model.Report) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error)
	FindByIDWithAssignments(ctx context.Context, id uuid.UUID) (*model.Report, error)
	List(ctx context.Context, status model.ReportStatus, page, limit int) ([]model.Report, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Report, int64, error)
	ListUnassigned(ctx context.Context) ([]model.Report, error)
	ListInProgress(ctx context.Context) ([]model.Report, error)
	Update(ctx context.Context, report *model.Report) error
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Create(report).Error
}

func (r *reportRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	if err := GetDB(ctx, r.db).First(&report, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) FindByIDWithAssignments(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var report model.Report
	err := GetDB(ctx, r.db).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("waktu_dikirim DESC")
		}).
		Preload("Assignments.Staff").
		First(&report, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, status model.ReportStatus, page, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Model(&model.Report{})
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) ListByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Report, int64, error) {
	var reports []model.Report
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Report{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

// ListUnassigned returns validated reports with no open assignment, newest first.
func (r *reportRepository) ListUnassigned(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := GetDB(ctx, r.db).
		Where("status = ?", model.StatusTervalidasi).
		Where(`NOT EXISTS (SELECT 1 FROM assignments a
			WHERE a.report_id = reports.id AND a.is_active = ? AND a.status_penugasan IN ?)`,
			true, pendingTaskStatuses).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

// ListInProgress returns reports being worked on: status Dalam Proses and an
// open assignment, newest first.
func (r *reportRepository) ListInProgress(ctx context.Context) ([]model.Report, error) {
	var reports []model.Report
	err := GetDB(ctx, r.db).
		Where("status = ?", model.StatusDalamProses).
		Where(`EXISTS (SELECT 1 FROM assignments a
			WHERE a.report_id = reports.id AND a.is_active = ? AND a.status_penugasan IN ?)`,
			true, pendingTaskStatuses).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) Update(ctx context.Context, report *model.Report) error {
	return GetDB(ctx, r.db).Save(report).Error
}
