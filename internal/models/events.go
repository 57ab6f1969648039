package models

import "time"

// NATS subjects published by the engine.
const (
	EventRegistrationCreated   = "registration.created"
	EventRegistrationConfirmed = "registration.confirmed"
	EventRegistrationCancelled = "registration.cancelled"
	EventRegistrationCheckedIn = "registration.checked_in"
	EventPaymentRecorded       = "payment.recorded"
	EventPaymentCompleted      = "payment.completed"
	EventAccommodationRequest  = "accommodation.requested"
	EventAccommodationDecided  = "accommodation.processed"
	EventReminderDue           = "reminder.due"
)

// RegistrationCreatedEvent announces a new registration.
type RegistrationCreatedEvent struct {
	RegistrationID int64     `json:"registration_id"`
	UserID         int64     `json:"user_id"`
	EventID        int64     `json:"event_id"`
	PaymentStatus  string    `json:"payment_status"`
	Timestamp      time.Time `json:"timestamp"`
}

// RegistrationStatusEvent announces a lifecycle transition.
type RegistrationStatusEvent struct {
	RegistrationID int64     `json:"registration_id"`
	EventID        int64     `json:"event_id"`
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
}

// PaymentRecordedEvent announces a new payment row.
type PaymentRecordedEvent struct {
	PaymentID int64     `json:"payment_id"`
	Amount    int64     `json:"amount"`
	OrderRef  string    `json:"order_ref"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentCompletedEvent announces a settled payment and whether the
// reconciliation confirmed a registration as a result.
type PaymentCompletedEvent struct {
	PaymentID             int64     `json:"payment_id"`
	RegistrationID        *int64    `json:"registration_id,omitempty"`
	ContractID            *int64    `json:"contract_id,omitempty"`
	RegistrationConfirmed bool      `json:"registration_confirmed"`
	Timestamp             time.Time `json:"timestamp"`
}

// AccommodationRequestedEvent announces a newly filed lodging request.
type AccommodationRequestedEvent struct {
	RequestID      int64     `json:"request_id"`
	UserID         int64     `json:"user_id"`
	NumberOfPeople int       `json:"number_of_people"`
	CheckIn        time.Time `json:"check_in"`
	CheckOut       time.Time `json:"check_out"`
	Timestamp      time.Time `json:"timestamp"`
}

// AccommodationDecidedEvent announces the solver's verdict on a request.
type AccommodationDecidedEvent struct {
	RequestID       int64     `json:"request_id"`
	UserID          int64     `json:"user_id"`
	Status          string    `json:"status"`
	AccommodationID *int64    `json:"accommodation_id,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// ReminderDueEvent is emitted by the daily reminder scan for each confirmed
// registration whose event starts soon.
type ReminderDueEvent struct {
	RegistrationID int64     `json:"registration_id"`
	UserID         int64     `json:"user_id"`
	EventID        int64     `json:"event_id"`
	EventTitle     string    `json:"event_title"`
	StartsAt       time.Time `json:"starts_at"`
	Timestamp      time.Time `json:"timestamp"`
}
