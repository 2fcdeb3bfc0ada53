package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"backend/internal/model"
	"backend/internal/notification"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db          *gorm.DB
	reports     repository.ReportRepository
	staff       repository.StaffRepository
	assignments repository.AssignmentRepository
	sink        *notification.MemorySink
	lifecycle   LifecycleService
	reportSvc   ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Staff{},
		&model.Report{},
		&model.Assignment{},
		&model.Notification{},
	))

	f := &fixture{
		db:          db,
		reports:     repository.NewReportRepository(db),
		staff:       repository.NewStaffRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		sink:        notification.NewMemorySink(),
	}
	f.lifecycle = NewLifecycleService(f.reports, f.staff, f.assignments, repository.NewTransactionManager(db), f.sink)
	f.reportSvc = NewReportService(f.reports)
	return f
}

func (f *fixture) seedReport(t *testing.T, status model.ReportStatus) *model.Report {
	t.Helper()
	report := &model.Report{
		Judul:        "Lampu jalan mati",
		Lokasi:       "Jl. Melati No. 3",
		Deskripsi:    "Lampu penerangan jalan tidak menyala sejak semalam",
		Kategori:     "penerangan",
		NamaPelapor:  "Budi Santoso",
		EmailPelapor: "budi@example.com",
		Status:       status,
	}
	require.NoError(t, f.reports.Create(context.Background(), report))
	return report
}

func (f *fixture) seedStaff(t *testing.T, availability model.StaffAvailability) *model.Staff {
	t.Helper()
	staff := &model.Staff{
		Nama:               "Agus Wijaya",
		Telepon:            "081234567890",
		StatusKetersediaan: availability,
	}
	require.NoError(t, f.staff.Create(context.Background(), staff))
	return staff
}

func (f *fixture) seedAssignment(t *testing.T, reportID, staffID uuid.UUID, status model.TaskStatus, active bool) *model.Assignment {
	t.Helper()
	assignment := &model.Assignment{
		ReportID:        reportID,
		StaffID:         staffID,
		StatusPenugasan: status,
		WaktuDikirim:    time.Now(),
		IsActive:        active,
	}
	require.NoError(t, f.assignments.Create(context.Background(), assignment))
	return assignment
}

func TestValidate(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusValidasi)

	resp, err := f.lifecycle.Validate(context.Background(), report.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusTervalidasi), resp.Status)

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.StatusValidasi, events[0].StatusLama)
	assert.Equal(t, model.StatusTervalidasi, events[0].StatusBaru)
	assert.Equal(t, "Laporan Anda telah divalidasi dan akan segera ditangani", events[0].Pesan)

	// Validating again lands on the same status but re-notifies the reporter.
	resp, err = f.lifecycle.Validate(context.Background(), report.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusTervalidasi), resp.Status)
	assert.Len(t, f.sink.Events(), 2)
}

func TestValidateClearsRejectionReason(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDitolak)
	report.AlasanPenolakan = "foto tidak jelas"
	require.NoError(t, f.reports.Update(context.Background(), report))

	resp, err := f.lifecycle.Validate(context.Background(), report.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusTervalidasi), resp.Status)
	assert.Empty(t, resp.AlasanPenolakan)
}

func TestValidateUnknownReport(t *testing.T) {
	f := newFixture(t)

	_, err := f.lifecycle.Validate(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.lifecycle.Validate(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateStatusRejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusValidasi)

	_, err := f.lifecycle.UpdateStatus(context.Background(), report.ID.String(), UpdateStatusRequest{
		Status: string(model.StatusDitolak),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = f.lifecycle.UpdateStatus(context.Background(), report.ID.String(), UpdateStatusRequest{
		Status:          string(model.StatusDitolak),
		AlasanPenolakan: "   ",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	resp, err := f.lifecycle.UpdateStatus(context.Background(), report.ID.String(), UpdateStatusRequest{
		Status:          string(model.StatusDitolak),
		AlasanPenolakan: "bukan fasilitas umum",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDitolak), resp.Status)
	assert.Equal(t, "bukan fasilitas umum", resp.AlasanPenolakan)

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "Mohon maaf, laporan Anda ditolak. Alasan: bukan fasilitas umum", events[0].Pesan)
}

func TestUpdateStatusClearsReasonOutsideRejection(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDitolak)
	report.AlasanPenolakan = "bukan fasilitas umum"
	require.NoError(t, f.reports.Update(context.Background(), report))

	resp, err := f.lifecycle.UpdateStatus(context.Background(), report.ID.String(), UpdateStatusRequest{
		Status:          string(model.StatusTervalidasi),
		AlasanPenolakan: "should be ignored",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusTervalidasi), resp.Status)
	assert.Empty(t, resp.AlasanPenolakan)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusValidasi)

	_, err := f.lifecycle.UpdateStatus(context.Background(), report.ID.String(), UpdateStatusRequest{
		Status: "Hilang",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateStatusTerminalReleasesAssignments(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	staff := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, staff.ID, model.TaskDalamPengerjaan, true)

	_, err := f.lifecycle.UpdateStatus(context.Background(), report.ID.String(), UpdateStatusRequest{
		Status:          string(model.StatusDitolak),
		AlasanPenolakan: "laporan ganda",
	})
	require.NoError(t, err)

	assignments, err := f.assignments.ListByReport(context.Background(), report.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, model.TaskSelesai, assignments[0].StatusPenugasan)
	assert.False(t, assignments[0].IsActive)
	assert.Equal(t, model.AutoReleaseNote, assignments[0].Catatan)
}

func TestUpdateStatusSameTerminalStatusKeepsAssignments(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusSelesai)
	staff := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, staff.ID, model.TaskDikirim, true)

	_, err := f.lifecycle.UpdateStatus(context.Background(), report.ID.String(), UpdateStatusRequest{
		Status: string(model.StatusSelesai),
	})
	require.NoError(t, err)

	count, err := f.assignments.CountActivePending(context.Background(), report.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// The reporter is still notified even though nothing changed.
	assert.Len(t, f.sink.Events(), 1)
}

func TestAssignStaff(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusTervalidasi)
	staff := f.seedStaff(t, model.StaffAktif)

	resp, err := f.lifecycle.AssignStaff(context.Background(), report.ID.String(), AssignStaffRequest{
		StaffID: staff.ID.String(),
		Catatan: "bawa tangga",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDalamProses), resp.Status)
	require.Len(t, resp.Petugas, 1)
	assert.Equal(t, staff.ID.String(), resp.Petugas[0].StaffID)
	assert.Equal(t, string(model.TaskDikirim), resp.Petugas[0].StatusPenugasan)
	assert.True(t, resp.Petugas[0].IsActive)

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.StatusTervalidasi, events[0].StatusLama)
	assert.Equal(t, model.StatusDalamProses, events[0].StatusBaru)
}

func TestAssignStaffSecondAssignmentConflicts(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusTervalidasi)
	first := f.seedStaff(t, model.StaffAktif)
	second := f.seedStaff(t, model.StaffAktif)

	_, err := f.lifecycle.AssignStaff(context.Background(), report.ID.String(), AssignStaffRequest{
		StaffID: first.ID.String(),
	})
	require.NoError(t, err)

	_, err = f.lifecycle.AssignStaff(context.Background(), report.ID.String(), AssignStaffRequest{
		StaffID: second.ID.String(),
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	assignments, err := f.assignments.ListByReport(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Len(t, assignments, 1)
}

func TestAssignStaffGuards(t *testing.T) {
	f := newFixture(t)

	t.Run("inactive staff", func(t *testing.T) {
		report := f.seedReport(t, model.StatusTervalidasi)
		staff := f.seedStaff(t, model.StaffNonaktif)
		_, err := f.lifecycle.AssignStaff(context.Background(), report.ID.String(), AssignStaffRequest{
			StaffID: staff.ID.String(),
		})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("terminal report", func(t *testing.T) {
		report := f.seedReport(t, model.StatusDitolak)
		staff := f.seedStaff(t, model.StaffAktif)
		_, err := f.lifecycle.AssignStaff(context.Background(), report.ID.String(), AssignStaffRequest{
			StaffID: staff.ID.String(),
		})
		assert.ErrorIs(t, err, apperror.ErrConflict)
	})

	t.Run("unknown staff", func(t *testing.T) {
		report := f.seedReport(t, model.StatusTervalidasi)
		_, err := f.lifecycle.AssignStaff(context.Background(), report.ID.String(), AssignStaffRequest{
			StaffID: uuid.NewString(),
		})
		assert.ErrorIs(t, err, apperror.ErrNotFound)
	})
}

func TestReleaseStaffCompletesReport(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	staff := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, staff.ID, model.TaskDalamPengerjaan, true)

	resp, err := f.lifecycle.ReleaseStaff(context.Background(), report.ID.String(), ReleaseStaffRequest{
		StaffID: staff.ID.String(),
		Catatan: "perbaikan selesai",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusSelesai), resp.Status)

	assignment, err := f.assignments.FindActivePair(context.Background(), report.ID, staff.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, assignment)

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.StatusSelesai, events[0].StatusBaru)
}

func TestReleaseStaffKeepsReportOpenWhileOthersPending(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	first := f.seedStaff(t, model.StaffAktif)
	second := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, first.ID, model.TaskDalamPengerjaan, true)
	f.seedAssignment(t, report.ID, second.ID, model.TaskDiterima, true)

	resp, err := f.lifecycle.ReleaseStaff(context.Background(), report.ID.String(), ReleaseStaffRequest{
		StaffID: first.ID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDalamProses), resp.Status)
	assert.Empty(t, f.sink.Events())

	count, err := f.assignments.CountActivePending(context.Background(), report.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestReleaseStaffWithoutActiveAssignment(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	staff := f.seedStaff(t, model.StaffAktif)

	_, err := f.lifecycle.ReleaseStaff(context.Background(), report.ID.String(), ReleaseStaffRequest{
		StaffID: staff.ID.String(),
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdateAssignmentStatusProgress(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	staff := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, staff.ID, model.TaskDikirim, true)

	resp, err := f.lifecycle.UpdateAssignmentStatus(context.Background(), report.ID.String(), UpdateAssignmentStatusRequest{
		StaffID:         staff.ID.String(),
		StatusPenugasan: string(model.TaskDiterima),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDalamProses), resp.Status)

	assignment, err := f.assignments.FindActivePair(context.Background(), report.ID, staff.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskDiterima, assignment.StatusPenugasan)
	assert.True(t, assignment.IsActive)
	assert.Empty(t, f.sink.Events())
}

func TestUpdateAssignmentStatusFinishingLastCompletesReport(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	staff := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, staff.ID, model.TaskDalamPengerjaan, true)

	resp, err := f.lifecycle.UpdateAssignmentStatus(context.Background(), report.ID.String(), UpdateAssignmentStatusRequest{
		StaffID:         staff.ID.String(),
		StatusPenugasan: string(model.TaskSelesai),
		Catatan:         "lampu sudah menyala",
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusSelesai), resp.Status)

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.StatusDalamProses, events[0].StatusLama)
	assert.Equal(t, model.StatusSelesai, events[0].StatusBaru)
}

func TestUpdateAssignmentStatusFinishingNonLastKeepsReportOpen(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	first := f.seedStaff(t, model.StaffAktif)
	second := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, first.ID, model.TaskDalamPengerjaan, true)
	f.seedAssignment(t, report.ID, second.ID, model.TaskDikirim, true)

	resp, err := f.lifecycle.UpdateAssignmentStatus(context.Background(), report.ID.String(), UpdateAssignmentStatusRequest{
		StaffID:         first.ID.String(),
		StatusPenugasan: string(model.TaskSelesai),
	})
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusDalamProses), resp.Status)
	assert.Empty(t, f.sink.Events())
}

func TestUpdateAssignmentStatusUnknownTaskStatus(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	staff := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, staff.ID, model.TaskDikirim, true)

	_, err := f.lifecycle.UpdateAssignmentStatus(context.Background(), report.ID.String(), UpdateAssignmentStatusRequest{
		StaffID:         staff.ID.String(),
		StatusPenugasan: "Mampir",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestListUnassignedAndInProgress(t *testing.T) {
	f := newFixture(t)
	staff := f.seedStaff(t, model.StaffAktif)

	waiting := f.seedReport(t, model.StatusTervalidasi)
	f.seedReport(t, model.StatusValidasi)
	assigned := f.seedReport(t, model.StatusTervalidasi)

	_, err := f.lifecycle.AssignStaff(context.Background(), assigned.ID.String(), AssignStaffRequest{
		StaffID: staff.ID.String(),
	})
	require.NoError(t, err)

	unassigned, err := f.lifecycle.ListUnassigned(context.Background())
	require.NoError(t, err)
	require.Len(t, unassigned, 1)
	assert.Equal(t, waiting.ID.String(), unassigned[0].ID)

	inProgress, err := f.lifecycle.ListInProgress(context.Background())
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, assigned.ID.String(), inProgress[0].ID)
}

func TestStaffForReport(t *testing.T) {
	f := newFixture(t)
	report := f.seedReport(t, model.StatusDalamProses)
	first := f.seedStaff(t, model.StaffAktif)
	second := f.seedStaff(t, model.StaffAktif)
	f.seedAssignment(t, report.ID, first.ID, model.TaskSelesai, false)
	f.seedAssignment(t, report.ID, second.ID, model.TaskDalamPengerjaan, true)

	// While the report is open only the pending assignment is visible.
	open, err := f.lifecycle.StaffForReport(context.Background(), report.ID.String())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, second.ID.String(), open[0].StaffID)

	report.Status = model.StatusSelesai
	require.NoError(t, f.reports.Update(context.Background(), report))

	history, err := f.lifecycle.StaffForReport(context.Background(), report.ID.String())
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestNotificationFailureDoesNotFailOperation(t *testing.T) {
	f := newFixture(t)
	f.sink.Err = assert.AnError
	report := f.seedReport(t, model.StatusValidasi)

	resp, err := f.lifecycle.Validate(context.Background(), report.ID.String())
	require.NoError(t, err)
	assert.Equal(t, string(model.StatusTervalidasi), resp.Status)

	stored, err := f.reports.FindByID(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusTervalidasi, stored.Status)
}
