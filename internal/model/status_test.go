package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportStatusValid(t *testing.T) {
	for _, s := range []ReportStatus{StatusValidasi, StatusTervalidasi, StatusDalamProses, StatusSelesai, StatusDitolak} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, ReportStatus("").Valid())
	assert.False(t, ReportStatus("Hilang").Valid())
	assert.False(t, ReportStatus("validasi").Valid(), "statuses are case sensitive")
}

func TestReportStatusTerminal(t *testing.T) {
	assert.True(t, StatusSelesai.Terminal())
	assert.True(t, StatusDitolak.Terminal())
	for _, s := range []ReportStatus{StatusValidasi, StatusTervalidasi, StatusDalamProses} {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestTaskStatusValid(t *testing.T) {
	for _, s := range []TaskStatus{TaskDikirim, TaskDiterima, TaskDalamPengerjaan, TaskSelesai} {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, TaskStatus("").Valid())
	assert.False(t, TaskStatus("Mampir").Valid())
}

func TestTaskStatusPending(t *testing.T) {
	for _, s := range []TaskStatus{TaskDikirim, TaskDiterima, TaskDalamPengerjaan} {
		assert.True(t, s.Pending(), string(s))
	}
	assert.False(t, TaskSelesai.Pending())
	assert.False(t, TaskStatus("Mampir").Pending())
}

func TestStaffAvailabilityValid(t *testing.T) {
	assert.True(t, StaffAktif.Valid())
	assert.True(t, StaffNonaktif.Valid())
	assert.False(t, StaffAvailability("").Valid())
	assert.False(t, StaffAvailability("Cuti").Valid())
}
