// Package notification delivers report status changes to the citizen who
// filed the report. Delivery is best effort: the lifecycle service logs and
// discards every error returned from here, a failed notification must never
// undo a status change.
package notification

import (
	"context"

	"backend/internal/model"
)

// Sink receives one event per report status change.
type Sink interface {
	Notify(ctx context.Context, report *model.Report, oldStatus, newStatus model.ReportStatus, reason string) error
}

// UserDirectory resolves the account behind a report's reporter fields.
type UserDirectory interface {
	FindByEmailOrName(ctx context.Context, email, nama string) (*model.User, error)
}
