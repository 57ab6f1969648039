package jobs

import (
	"context"
	"log/slog"
	"time"

	"confreg/internal/service"
)

// ReminderJob periodically scans for confirmed registrations whose event
// starts within the reminder window and publishes a reminder.due event for
// each. The scan is read-only, so overlapping or repeated runs are harmless.
type ReminderJob struct {
	reminders *service.ReminderService
	interval  time.Duration
	ticker    *time.Ticker
	done      chan bool
}

func NewReminderJob(reminders *service.ReminderService, interval time.Duration) *ReminderJob {
	return &ReminderJob{
		reminders: reminders,
		interval:  interval,
		done:      make(chan bool),
	}
}

// Start begins the background scan loop. An initial scan runs immediately so
// a restarted consumer does not wait a full interval.
func (j *ReminderJob) Start(ctx context.Context) {
	slog.Info("Starting reminder job", "interval", j.interval.String())

	j.ticker = time.NewTicker(j.interval)

	go j.scan(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.scan(ctx)
			case <-j.done:
				slog.Info("Reminder job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job.
func (j *ReminderJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *ReminderJob) scan(ctx context.Context) {
	count, err := j.reminders.Scan(ctx)
	if err != nil {
		slog.Error("Reminder scan failed", "error", err)
		return
	}

	if count == 0 {
		slog.Debug("No reminders due")
		return
	}

	slog.Info("Reminder scan emitted events", "count", count)
}
