package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ReportStatus is the lifecycle status of a citizen report.
type ReportStatus string

const (
	StatusValidasi    ReportStatus = "Validasi"
	StatusTervalidasi ReportStatus = "Tervalidasi"
	StatusDalamProses ReportStatus = "Dalam Proses"
	StatusSelesai     ReportStatus = "Selesai"
	StatusDitolak     ReportStatus = "Ditolak"
)

// Valid reports whether s is one of the five known report statuses.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusValidasi, StatusTervalidasi, StatusDalamProses, StatusSelesai, StatusDitolak:
		return true
	}
	return false
}

// Terminal reports whether the lifecycle never transitions out of s.
func (s ReportStatus) Terminal() bool {
	return s == StatusSelesai || s == StatusDitolak
}

// Report represents one citizen facility complaint (laporan).
// Status and AlasanPenolakan are only written through the lifecycle service;
// AlasanPenolakan is non-empty exactly when Status is Ditolak.
type Report struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Judul           string          `gorm:"type:varchar(255);not null" json:"judul"`
	Lokasi          string          `gorm:"type:varchar(255);not null" json:"lokasi"`
	Deskripsi       string          `gorm:"type:text" json:"deskripsi"`
	Kategori        string          `gorm:"type:varchar(100);index" json:"kategori"`
	NamaPelapor     string          `gorm:"type:varchar(255);not null" json:"nama_pelapor"`
	EmailPelapor    string          `gorm:"type:varchar(255)" json:"email_pelapor"`
	TeleponPelapor  string          `gorm:"type:varchar(20)" json:"telepon_pelapor"`
	FotoLaporan     datatypes.JSON  `gorm:"type:jsonb" json:"foto_laporan"`   // ordered list of submitted photo URLs
	FotoPerbaikan   datatypes.JSON  `gorm:"type:jsonb" json:"foto_perbaikan"` // ordered list of repair evidence URLs
	RincianBiayaURL string          `gorm:"type:varchar(512)" json:"rincian_biaya_url"`
	BiayaPerbaikan  decimal.Decimal `gorm:"type:decimal(18,2);default:0" json:"biaya_perbaikan"`
	Status          ReportStatus    `gorm:"type:varchar(20);not null;default:'Validasi';index" json:"status"`
	AlasanPenolakan string          `gorm:"type:text" json:"alasan_penolakan"`
	Rating          *int            `json:"rating"` // 1-5, settable only once the report is Selesai
	Ulasan          string          `gorm:"type:text" json:"ulasan"`
	UserID          *uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Assignments     []Assignment    `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE" json:"assignments,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
