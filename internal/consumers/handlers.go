package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"confreg/internal/models"
	"confreg/internal/repository"

	"github.com/nats-io/stan.go"
)

// registrationLookup and userLookup are the read surfaces the notification
// handlers need from the repositories.
type registrationLookup interface {
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
}

type userLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Handlers react to committed domain events. They never change engine state;
// the API side has already finished its transaction by the time an event
// arrives here. Everything in this package is notification and bookkeeping.
//
// A referenced row can be gone by the time a durable subscription redelivers
// an event. A missing row is acked and dropped; redelivery cannot bring the
// row back.
type Handlers struct {
	regs  registrationLookup
	users userLookup
}

func NewHandlers(repos *repository.Repositories) *Handlers {
	return &Handlers{regs: repos.Registrations, users: repos.Users}
}

func (h *Handlers) HandleRegistrationCreated(m *stan.Msg) {
	var event models.RegistrationCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration created event", "error", err)
		return
	}

	slog.Info("Processing registration created event",
		"registration_id", event.RegistrationID,
		"event_id", event.EventID,
		"payment_status", event.PaymentStatus)

	// Welcome email would go out here once a mail provider is wired in.

	m.Ack()
}

func (h *Handlers) HandleRegistrationConfirmed(m *stan.Msg) {
	var event models.RegistrationStatusEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration confirmed event", "error", err)
		return
	}

	ctx := context.Background()
	reg, err := h.regs.GetByID(ctx, event.RegistrationID)
	if err != nil {
		slog.Error("Failed to load confirmed registration", "registration_id", event.RegistrationID, "error", err)
		return
	}
	if reg == nil {
		slog.Warn("Confirmed registration no longer exists, dropping event",
			"registration_id", event.RegistrationID)
		m.Ack()
		return
	}

	user, err := h.users.GetByID(ctx, reg.UserID)
	if err != nil {
		slog.Error("Failed to load registrant", "user_id", reg.UserID, "error", err)
		return
	}
	if user == nil {
		slog.Warn("Registrant no longer exists, dropping event", "user_id", reg.UserID)
		m.Ack()
		return
	}

	slog.Info("Registration confirmed, notifying registrant",
		"registration_id", reg.ID,
		"event_id", reg.EventID,
		"email", user.Email)

	m.Ack()
}

func (h *Handlers) HandleRegistrationCancelled(m *stan.Msg) {
	var event models.RegistrationStatusEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration cancelled event", "error", err)
		return
	}

	slog.Info("Processing registration cancelled event",
		"registration_id", event.RegistrationID,
		"event_id", event.EventID)

	m.Ack()
}

func (h *Handlers) HandleRegistrationCheckedIn(m *stan.Msg) {
	var event models.RegistrationStatusEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration checked in event", "error", err)
		return
	}

	slog.Info("Processing registration checked in event",
		"registration_id", event.RegistrationID,
		"event_id", event.EventID)

	m.Ack()
}

func (h *Handlers) HandlePaymentCompleted(m *stan.Msg) {
	var event models.PaymentCompletedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal payment completed event", "error", err)
		return
	}

	slog.Info("Processing payment completed event",
		"payment_id", event.PaymentID,
		"registration_confirmed", event.RegistrationConfirmed)

	// Receipt delivery would go here. The confirmation itself happened in the
	// same transaction that settled the payment, so nothing to reconcile.

	m.Ack()
}

func (h *Handlers) HandleAccommodationDecided(m *stan.Msg) {
	var event models.AccommodationDecidedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal accommodation decided event", "error", err)
		return
	}

	ctx := context.Background()
	user, err := h.users.GetByID(ctx, event.UserID)
	if err != nil {
		slog.Error("Failed to load requester", "user_id", event.UserID, "error", err)
		return
	}
	if user == nil {
		slog.Warn("Requester no longer exists, dropping event", "user_id", event.UserID)
		m.Ack()
		return
	}

	slog.Info("Accommodation request decided, notifying requester",
		"request_id", event.RequestID,
		"status", event.Status,
		"email", user.Email)

	m.Ack()
}

func (h *Handlers) HandleReminderDue(m *stan.Msg) {
	var event models.ReminderDueEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal reminder due event", "error", err)
		return
	}

	ctx := context.Background()
	user, err := h.users.GetByID(ctx, event.UserID)
	if err != nil {
		slog.Error("Failed to load reminder recipient", "user_id", event.UserID, "error", err)
		return
	}
	if user == nil {
		slog.Warn("Reminder recipient no longer exists, dropping event", "user_id", event.UserID)
		m.Ack()
		return
	}

	slog.Info("Sending event reminder",
		"registration_id", event.RegistrationID,
		"event_title", event.EventTitle,
		"starts_at", event.StartsAt,
		"email", user.Email)

	m.Ack()
}
