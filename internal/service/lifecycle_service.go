package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/notification"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type UpdateStatusRequest struct {
	Status          string `json:"status" binding:"required"`
	AlasanPenolakan string `json:"alasan_penolakan"`
}

type AssignStaffRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
	Catatan string `json:"catatan"`
}

type ReleaseStaffRequest struct {
	StaffID string `json:"staff_id" binding:"required"`
	Catatan string `json:"catatan"`
}

type UpdateAssignmentStatusRequest struct {
	StaffID         string `json:"staff_id" binding:"required"`
	StatusPenugasan string `json:"status_penugasan" binding:"required"`
	Catatan         string `json:"catatan"`
}

type AssignmentResponse struct {
	ID              string `json:"id"`
	StaffID         string `json:"staff_id"`
	NamaPetugas     string `json:"nama_petugas"`
	StatusPenugasan string `json:"status_penugasan"`
	Catatan         string `json:"catatan"`
	WaktuDikirim    string `json:"waktu_dikirim"`
	IsActive        bool   `json:"is_active"`
}

// --- Interface ---

// LifecycleService is the single writer of report status, rejection reason and
// assignment state. Everything else edits reports around it.
type LifecycleService interface {
	Validate(ctx context.Context, reportID string) (*ReportResponse, error)
	UpdateStatus(ctx context.Context, reportID string, req UpdateStatusRequest) (*ReportResponse, error)
	AssignStaff(ctx context.Context, reportID string, req AssignStaffRequest) (*ReportResponse, error)
	ReleaseStaff(ctx context.Context, reportID string, req ReleaseStaffRequest) (*ReportResponse, error)
	UpdateAssignmentStatus(ctx context.Context, reportID string, req UpdateAssignmentStatusRequest) (*ReportResponse, error)
	ListUnassigned(ctx context.Context) ([]ReportResponse, error)
	ListInProgress(ctx context.Context) ([]ReportResponse, error)
	StaffForReport(ctx context.Context, reportID string) ([]AssignmentResponse, error)
}

type lifecycleService struct {
	reports     repository.ReportRepository
	staff       repository.StaffRepository
	assignments repository.AssignmentRepository
	txm         repository.TransactionManager
	sink        notification.Sink
}

func NewLifecycleService(
	reports repository.ReportRepository,
	staff repository.StaffRepository,
	assignments repository.AssignmentRepository,
	txm repository.TransactionManager,
	sink notification.Sink,
) LifecycleService {
	return &lifecycleService{
		reports:     reports,
		staff:       staff,
		assignments: assignments,
		txm:         txm,
		sink:        sink,
	}
}

// --- Implementation ---

// Validate marks the report Tervalidasi regardless of its current status and
// notifies the reporter. Calling it twice re-notifies.
func (s *lifecycleService) Validate(ctx context.Context, reportID string) (*ReportResponse, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", reportID)
	}

	var report *model.Report
	var oldStatus model.ReportStatus
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.reports.FindByID(txCtx, id)
		if err != nil {
			return loadErr("report", err)
		}

		oldStatus = r.Status
		r.Status = model.StatusTervalidasi
		r.AlasanPenolakan = ""
		if err := s.reports.Update(txCtx, r); err != nil {
			return apperror.Storagef("failed to update report status", err)
		}

		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, report, oldStatus, model.StatusTervalidasi, "")
	return toReportResponse(report), nil
}

// UpdateStatus sets the report to any of the five statuses. Rejection requires
// a reason; every other status clears it. Landing on a terminal status
// force-releases all active assignments, but only when the status actually
// changed.
func (s *lifecycleService) UpdateStatus(ctx context.Context, reportID string, req UpdateStatusRequest) (*ReportResponse, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", reportID)
	}

	newStatus := model.ReportStatus(req.Status)
	if !newStatus.Valid() {
		return nil, apperror.Validationf("unknown report status %q", req.Status)
	}

	reason := strings.TrimSpace(req.AlasanPenolakan)
	if newStatus == model.StatusDitolak && reason == "" {
		return nil, apperror.Validationf("rejection reason is required when rejecting a report")
	}
	if newStatus != model.StatusDitolak {
		reason = ""
	}

	var report *model.Report
	var oldStatus model.ReportStatus
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.reports.FindByID(txCtx, id)
		if err != nil {
			return loadErr("report", err)
		}

		oldStatus = r.Status
		r.Status = newStatus
		r.AlasanPenolakan = reason
		if err := s.reports.Update(txCtx, r); err != nil {
			return apperror.Storagef("failed to update report status", err)
		}

		if newStatus.Terminal() && oldStatus != newStatus {
			if err := s.assignments.ReleaseAllActive(txCtx, r.ID, model.AutoReleaseNote); err != nil {
				return apperror.Storagef("failed to release assignments", err)
			}
		}

		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(ctx, report, oldStatus, newStatus, reason)
	return toReportResponse(report), nil
}

// AssignStaff dispatches a staff member to a validated report. At most one
// assignment may be open per report; a second attempt is a conflict.
func (s *lifecycleService) AssignStaff(ctx context.Context, reportID string, req AssignStaffRequest) (*ReportResponse, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", reportID)
	}
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, apperror.Validationf("invalid staff id %q", req.StaffID)
	}

	var oldStatus model.ReportStatus
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.reports.FindByID(txCtx, id)
		if err != nil {
			return loadErr("report", err)
		}
		if r.Status.Terminal() {
			return apperror.Conflictf("report is already %s", r.Status)
		}

		staff, err := s.staff.FindByID(txCtx, staffID)
		if err != nil {
			return loadErr("staff", err)
		}
		if staff.StatusKetersediaan != model.StaffAktif {
			return apperror.Validationf("staff %s is not active", staff.Nama)
		}

		count, err := s.assignments.CountActivePending(txCtx, r.ID)
		if err != nil {
			return apperror.Storagef("failed to count assignments", err)
		}
		if count > 0 {
			return apperror.Conflictf("report already has an active assignment")
		}

		assignment := model.Assignment{
			ReportID:        r.ID,
			StaffID:         staff.ID,
			StatusPenugasan: model.TaskDikirim,
			Catatan:         req.Catatan,
			WaktuDikirim:    time.Now(),
			IsActive:        true,
		}
		if err := s.assignments.Create(txCtx, &assignment); err != nil {
			// A concurrent admin may have won the partial unique index race.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflictf("report already has an active assignment")
			}
			return apperror.Storagef("failed to create assignment", err)
		}

		oldStatus = r.Status
		r.Status = model.StatusDalamProses
		r.AlasanPenolakan = ""
		if err := s.reports.Update(txCtx, r); err != nil {
			return apperror.Storagef("failed to update report status", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	report, err := s.reports.FindByIDWithAssignments(ctx, id)
	if err != nil {
		return nil, loadErr("report", err)
	}

	s.emit(ctx, report, oldStatus, model.StatusDalamProses, "")
	return toReportResponse(report), nil
}

// ReleaseStaff closes the staff member's open assignment. When it was the last
// one, the report itself completes and the reporter is notified.
func (s *lifecycleService) ReleaseStaff(ctx context.Context, reportID string, req ReleaseStaffRequest) (*ReportResponse, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", reportID)
	}
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, apperror.Validationf("invalid staff id %q", req.StaffID)
	}

	var report *model.Report
	var oldStatus model.ReportStatus
	var completed bool
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.reports.FindByID(txCtx, id)
		if err != nil {
			return loadErr("report", err)
		}

		assignment, err := s.assignments.FindActivePair(txCtx, r.ID, staffID)
		if err != nil {
			return loadErr("assignment", err)
		}

		finishAssignment(assignment, req.Catatan)
		if err := s.assignments.Update(txCtx, assignment); err != nil {
			return apperror.Storagef("failed to update assignment", err)
		}

		remaining, err := s.assignments.CountActivePending(txCtx, r.ID)
		if err != nil {
			return apperror.Storagef("failed to count assignments", err)
		}

		oldStatus = r.Status
		if remaining == 0 {
			r.Status = model.StatusSelesai
			r.AlasanPenolakan = ""
			if err := s.reports.Update(txCtx, r); err != nil {
				return apperror.Storagef("failed to update report status", err)
			}
			completed = oldStatus != model.StatusSelesai
		}

		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.emit(ctx, report, oldStatus, model.StatusSelesai, "")
	}
	return toReportResponse(report), nil
}

// UpdateAssignmentStatus advances the staff member's task status. Finishing
// the last open assignment completes the report.
func (s *lifecycleService) UpdateAssignmentStatus(ctx context.Context, reportID string, req UpdateAssignmentStatusRequest) (*ReportResponse, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", reportID)
	}
	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		return nil, apperror.Validationf("invalid staff id %q", req.StaffID)
	}

	taskStatus := model.TaskStatus(req.StatusPenugasan)
	if !taskStatus.Valid() {
		return nil, apperror.Validationf("unknown task status %q", req.StatusPenugasan)
	}

	var report *model.Report
	var oldStatus model.ReportStatus
	var completed bool
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		r, err := s.reports.FindByID(txCtx, id)
		if err != nil {
			return loadErr("report", err)
		}

		assignment, err := s.assignments.FindActivePair(txCtx, r.ID, staffID)
		if err != nil {
			return loadErr("assignment", err)
		}

		if taskStatus == model.TaskSelesai {
			finishAssignment(assignment, req.Catatan)
		} else {
			assignment.StatusPenugasan = taskStatus
			if req.Catatan != "" {
				assignment.Catatan = req.Catatan
			}
		}
		if err := s.assignments.Update(txCtx, assignment); err != nil {
			return apperror.Storagef("failed to update assignment", err)
		}

		if taskStatus == model.TaskSelesai {
			remaining, err := s.assignments.CountActivePending(txCtx, r.ID)
			if err != nil {
				return apperror.Storagef("failed to count assignments", err)
			}
			if remaining == 0 {
				oldStatus = r.Status
				r.Status = model.StatusSelesai
				r.AlasanPenolakan = ""
				if err := s.reports.Update(txCtx, r); err != nil {
					return apperror.Storagef("failed to update report status", err)
				}
				completed = oldStatus != model.StatusSelesai
			}
		}

		report = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.emit(ctx, report, oldStatus, model.StatusSelesai, "")
	}
	return toReportResponse(report), nil
}

func (s *lifecycleService) ListUnassigned(ctx context.Context) ([]ReportResponse, error) {
	reports, err := s.reports.ListUnassigned(ctx)
	if err != nil {
		return nil, apperror.Storagef("failed to list unassigned reports", err)
	}
	return toReportResponses(reports), nil
}

func (s *lifecycleService) ListInProgress(ctx context.Context) ([]ReportResponse, error) {
	reports, err := s.reports.ListInProgress(ctx)
	if err != nil {
		return nil, apperror.Storagef("failed to list in-progress reports", err)
	}
	return toReportResponses(reports), nil
}

// StaffForReport returns the full assignment history once the report is
// Selesai, otherwise only the open assignments.
func (s *lifecycleService) StaffForReport(ctx context.Context, reportID string) ([]AssignmentResponse, error) {
	id, err := uuid.Parse(reportID)
	if err != nil {
		return nil, apperror.Validationf("invalid report id %q", reportID)
	}

	report, err := s.reports.FindByID(ctx, id)
	if err != nil {
		return nil, loadErr("report", err)
	}

	var assignments []model.Assignment
	if report.Status == model.StatusSelesai {
		assignments, err = s.assignments.ListByReport(ctx, report.ID)
	} else {
		assignments, err = s.assignments.ListActivePendingByReport(ctx, report.ID)
	}
	if err != nil {
		return nil, apperror.Storagef("failed to list assignments", err)
	}

	result := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		result = append(result, toAssignmentResponse(a))
	}
	return result, nil
}

// --- Helpers ---

// finishAssignment is the single routine closing an assignment, used by the
// explicit release path and the task-status path alike.
func finishAssignment(a *model.Assignment, note string) {
	a.StatusPenugasan = model.TaskSelesai
	a.IsActive = false
	if note != "" {
		a.Catatan = note
	}
}

// emit delivers the status change notification. Failures are logged and
// deliberately dropped; a lost notification never fails the operation.
func (s *lifecycleService) emit(ctx context.Context, report *model.Report, oldStatus, newStatus model.ReportStatus, reason string) {
	if err := s.sink.Notify(ctx, report, oldStatus, newStatus, reason); err != nil {
		log.Printf("WARNING: notification for report %s dropped: %v", report.ID, err)
	}
}

// loadErr classifies a repository read error.
func loadErr(entity string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFoundf("%s not found", entity)
	}
	return apperror.Storagef("failed to load "+entity, err)
}

func toAssignmentResponse(a model.Assignment) AssignmentResponse {
	resp := AssignmentResponse{
		ID:              a.ID.String(),
		StaffID:         a.StaffID.String(),
		StatusPenugasan: string(a.StatusPenugasan),
		Catatan:         a.Catatan,
		WaktuDikirim:    a.WaktuDikirim.Format(time.RFC3339),
		IsActive:        a.IsActive,
	}
	if a.Staff != nil {
		resp.NamaPetugas = a.Staff.Nama
	}
	return resp
}
