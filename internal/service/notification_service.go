package service

import (
	"context"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID         string `json:"id"`
	ReportID   string `json:"report_id"`
	StatusLama string `json:"status_lama"`
	StatusBaru string `json:"status_baru"`
	Alasan     string `json:"alasan,omitempty"`
	Pesan      string `json:"pesan"`
	CreatedAt  string `json:"created_at"`
}

// NotificationService serves the polling endpoint: a citizen reads their own
// status change records, newest first.
type NotificationService interface {
	ListMyNotifications(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) ListMyNotifications(ctx context.Context, userID string, page, limit int) ([]NotificationResponse, int64, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, apperror.Validationf("invalid user id %q", userID)
	}

	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	notifications, total, err := s.repo.ListByUser(ctx, id, page, limit)
	if err != nil {
		return nil, 0, apperror.Storagef("failed to list notifications", err)
	}

	result := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		result = append(result, toNotificationResponse(n))
	}

	return result, total, nil
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID.String(),
		ReportID:   n.ReportID.String(),
		StatusLama: string(n.StatusLama),
		StatusBaru: string(n.StatusBaru),
		Alasan:     n.Alasan,
		Pesan:      n.Pesan,
		CreatedAt:  n.CreatedAt.Format(time.RFC3339),
	}
}
