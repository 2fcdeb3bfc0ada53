package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is the per-assignment progress state, distinct from the parent
// report's own status.
type TaskStatus string

const (
	TaskDikirim         TaskStatus = "Dikirim"
	TaskDiterima        TaskStatus = "Diterima"
	TaskDalamPengerjaan TaskStatus = "Dalam Pengerjaan"
	TaskSelesai         TaskStatus = "Selesai"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskDikirim, TaskDiterima, TaskDalamPengerjaan, TaskSelesai:
		return true
	}
	return false
}

// Pending reports whether the assignment still counts as open work.
func (s TaskStatus) Pending() bool {
	switch s {
	case TaskDikirim, TaskDiterima, TaskDalamPengerjaan:
		return true
	}
	return false
}

// AutoReleaseNote marks assignments that were closed by the system because the
// parent report reached a terminal status, not by the staff member.
const AutoReleaseNote = "Penugasan ditutup otomatis oleh sistem"

// Assignment links one staff member to one report (penugasan). A report has at
// most one assignment that is both active and pending at a time; the storage
// layer enforces this with a partial unique index.
type Assignment struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"report_id"`
	Report          *Report    `gorm:"foreignKey:ReportID" json:"report,omitempty"`
	StaffID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"staff_id"`
	Staff           *Staff     `gorm:"foreignKey:StaffID" json:"staff,omitempty"`
	StatusPenugasan TaskStatus `gorm:"type:varchar(20);not null;default:'Dikirim';index" json:"status_penugasan"`
	Catatan         string     `gorm:"type:text" json:"catatan"`
	WaktuDikirim    time.Time  `gorm:"not null" json:"waktu_dikirim"`
	IsActive        bool       `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
