package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
)

// StoreSink persists each notification as a database row and mirrors it as one
// JSON line in an append-only log file. The database row backs the polling
// endpoint, the log file survives it.
type StoreSink struct {
	users   UserDirectory
	records repository.NotificationRepository
	logPath string
}

// NewStoreSink returns a sink writing to the notification table and, when
// logPath is non-empty, to the append-only log file at that path.
func NewStoreSink(users UserDirectory, records repository.NotificationRepository, logPath string) *StoreSink {
	return &StoreSink{users: users, records: records, logPath: logPath}
}

// logRecord is the JSONL shape appended to the log file.
type logRecord struct {
	UserID     string    `json:"user_id"`
	ReportID   string    `json:"report_id"`
	StatusLama string    `json:"status_lama"`
	StatusBaru string    `json:"status_baru"`
	Alasan     string    `json:"alasan,omitempty"`
	Pesan      string    `json:"pesan"`
	Timestamp  time.Time `json:"timestamp"`
}

func (s *StoreSink) Notify(ctx context.Context, report *model.Report, oldStatus, newStatus model.ReportStatus, reason string) error {
	user, err := s.users.FindByEmailOrName(ctx, report.EmailPelapor, report.NamaPelapor)
	if err != nil {
		// No matching account is normal for walk-in reports; nothing to deliver.
		log.Printf("WARNING: no account found for reporter of report %s, notification skipped", report.ID)
		return nil
	}

	record := model.Notification{
		UserID:     user.ID,
		ReportID:   report.ID,
		StatusLama: oldStatus,
		StatusBaru: newStatus,
		Alasan:     reason,
		Pesan:      MessageFor(newStatus, reason),
		CreatedAt:  time.Now(),
	}
	if err := s.records.Create(ctx, &record); err != nil {
		return fmt.Errorf("failed to store notification for report %s: %w", report.ID, err)
	}

	if s.logPath != "" {
		if err := s.appendToLog(record); err != nil {
			return fmt.Errorf("failed to append notification log for report %s: %w", report.ID, err)
		}
	}

	return nil
}

func (s *StoreSink) appendToLog(record model.Notification) error {
	line, err := json.Marshal(logRecord{
		UserID:     record.UserID.String(),
		ReportID:   record.ReportID.String(),
		StatusLama: string(record.StatusLama),
		StatusBaru: string(record.StatusBaru),
		Alasan:     record.Alasan,
		Pesan:      record.Pesan,
		Timestamp:  record.CreatedAt,
	})
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(line, '\n'))
	return err
}
