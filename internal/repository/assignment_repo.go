package repository

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssignmentRepository defines data access for report-staff assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	FindActivePair(ctx context.Context, reportID, staffID uuid.UUID) (*model.Assignment, error)
	CountActivePending(ctx context.Context, reportID uuid.UUID) (int64, error)
	ListByReport(ctx context.Context, reportID uuid.UUID) ([]model.Assignment, error)
	ListActivePendingByReport(ctx context.Context, reportID uuid.UUID) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	ReleaseAllActive(ctx context.Context, reportID uuid.UUID, note string) error
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *model.Assignment) error {
	return GetDB(ctx, r.db).Create(assignment).Error
}

// FindActivePair returns the most recent still-active assignment linking the
// report and the staff member.
func (r *assignmentRepository) FindActivePair(ctx context.Context, reportID, staffID uuid.UUID) (*model.Assignment, error) {
	var assignment model.Assignment
	err := GetDB(ctx, r.db).
		Where("report_id = ? AND staff_id = ? AND is_active = ?", reportID, staffID, true).
		Order("waktu_dikirim DESC").
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CountActivePending counts assignments that still claim the report: active
// and not yet finished.
func (r *assignmentRepository) CountActivePending(ctx context.Context, reportID uuid.UUID) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.Assignment{}).
		Where("report_id = ? AND is_active = ? AND status_penugasan IN ?",
			reportID, true, pendingTaskStatuses).
		Count(&count).Error
	return count, err
}

// ListByReport returns the full assignment history for a report, most recent
// dispatch first, with staff loaded.
func (r *assignmentRepository) ListByReport(ctx context.Context, reportID uuid.UUID) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := GetDB(ctx, r.db).
		Preload("Staff").
		Where("report_id = ?", reportID).
		Order("waktu_dikirim DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) ListActivePendingByReport(ctx context.Context, reportID uuid.UUID) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := GetDB(ctx, r.db).
		Preload("Staff").
		Where("report_id = ? AND is_active = ? AND status_penugasan IN ?",
			reportID, true, pendingTaskStatuses).
		Order("waktu_dikirim DESC").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *model.Assignment) error {
	return GetDB(ctx, r.db).Save(assignment).Error
}

// ReleaseAllActive force-closes every active assignment on the report: task
// status Selesai, is_active cleared, note replaced with the given marker.
func (r *assignmentRepository) ReleaseAllActive(ctx context.Context, reportID uuid.UUID, note string) error {
	return GetDB(ctx, r.db).Model(&model.Assignment{}).
		Where("report_id = ? AND is_active = ?", reportID, true).
		Updates(map[string]interface{}{
			"status_penugasan": model.TaskSelesai,
			"is_active":        false,
			"catatan":          note,
		}).Error
}
