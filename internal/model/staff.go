package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StaffAvailability is the administrative enable flag for a field technician.
// It is distinct from per-assignment busy state: a staff member with an open
// assignment is still Aktif.
type StaffAvailability string

const (
	StaffAktif    StaffAvailability = "Aktif"
	StaffNonaktif StaffAvailability = "Nonaktif"
)

// Valid reports whether a is a known availability value.
func (a StaffAvailability) Valid() bool {
	return a == StaffAktif || a == StaffNonaktif
}

// Staff represents a field technician (petugas) who can be assigned to reports.
type Staff struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Nama               string            `gorm:"type:varchar(255);not null" json:"nama"`
	Alamat             string            `gorm:"type:text" json:"alamat"`
	Telepon            string            `gorm:"type:varchar(20);not null" json:"telepon"`
	Email              *string           `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	StatusKetersediaan StaffAvailability `gorm:"type:varchar(10);not null;default:'Aktif';index" json:"status_ketersediaan"`
	Assignments        []Assignment      `gorm:"foreignKey:StaffID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	DeletedAt          gorm.DeletedAt    `gorm:"index" json:"-"`
}

func (s *Staff) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
