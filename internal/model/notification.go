package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is one durable record of a report status change addressed to
// the citizen who filed the report. Records are append-only: nothing in the
// system updates or deletes them, clients poll for new rows.
type Notification struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID    `gorm:"type:uuid;not null;index" json:"user_id"`
	User       *User        `gorm:"foreignKey:UserID" json:"-"`
	ReportID   uuid.UUID    `gorm:"type:uuid;not null;index" json:"report_id"`
	StatusLama ReportStatus `gorm:"type:varchar(20);not null" json:"status_lama"`
	StatusBaru ReportStatus `gorm:"type:varchar(20);not null" json:"status_baru"`
	Alasan     string       `gorm:"type:text" json:"alasan"`
	Pesan      string       `gorm:"type:text;not null" json:"pesan"`
	CreatedAt  time.Time    `gorm:"index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
