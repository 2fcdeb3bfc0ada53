package notification

import (
	"context"
	"sync"

	"backend/internal/model"
)

// Event is one captured Notify call.
type Event struct {
	ReportID   string
	StatusLama model.ReportStatus
	StatusBaru model.ReportStatus
	Alasan     string
	Pesan      string
}

// MemorySink collects events in memory. Used by tests as a Sink fake.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
	// Err, when set, is returned from every Notify call.
	Err error
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Notify(_ context.Context, report *model.Report, oldStatus, newStatus model.ReportStatus, reason string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, Event{
		ReportID:   report.ID.String(),
		StatusLama: oldStatus,
		StatusBaru: newStatus,
		Alasan:     reason,
		Pesan:      MessageFor(newStatus, reason),
	})
	return nil
}

// Events returns a copy of the captured events in emission order.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
