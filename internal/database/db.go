package database

import (
	"log"

	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Staff{},
		&model.Report{},
		&model.Assignment{},
		&model.Notification{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	// A report is claimed by at most one active, still-pending assignment.
	// AutoMigrate cannot express a partial index, so create it directly; this
	// is what serializes concurrent assignment attempts on the same report.
	err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS uniq_active_pending_assignment_per_report
		ON assignments (report_id)
		WHERE is_active AND status_penugasan IN ('Dikirim', 'Diterima', 'Dalam Pengerjaan')`).Error
	if err != nil {
		log.Println("WARNING: Failed to create active-assignment index:", err)
	}

	return db, nil
}
