package service

import (
	"context"
	"time"

	"confreg/internal/logger"
	"confreg/internal/models"
	"confreg/internal/repository"
)

type reminderStore interface {
	DueReminders(ctx context.Context, from, to time.Time) ([]repository.DueReminder, error)
}

// ReminderService emits reminders for confirmed registrations whose event
// starts within the window. It reads registration state, never writes it,
// and a failed run is simply re-run: the same date-bounded query yields the
// same due set.
type ReminderService struct {
	regs   reminderStore
	nats   Publisher
	window time.Duration
	now    func() time.Time
}

func NewReminderService(regs reminderStore, nats Publisher, window time.Duration) *ReminderService {
	return &ReminderService{
		regs:   regs,
		nats:   nats,
		window: window,
		now:    time.Now,
	}
}

// Scan publishes a reminder event for each due registration and returns how
// many were emitted.
func (s *ReminderService) Scan(ctx context.Context) (int, error) {
	from := s.now()
	to := from.Add(s.window)

	due, err := s.regs.DueReminders(ctx, from, to)
	if err != nil {
		return 0, err
	}

	for _, d := range due {
		publish(ctx, s.nats, models.EventReminderDue, models.ReminderDueEvent{
			RegistrationID: d.RegistrationID,
			UserID:         d.UserID,
			EventID:        d.EventID,
			EventTitle:     d.EventTitle,
			StartsAt:       d.StartsAt,
			Timestamp:      s.now(),
		})
	}

	if len(due) > 0 {
		logger.WithContext(ctx).Info("Reminder scan completed", "due", len(due))
	}
	return len(due), nil
}
