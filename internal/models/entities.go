package models

import (
	"time"
)

// Registration statuses. The set is closed: anything else in the column is
// data corruption, not a state.
const (
	RegistrationPending    = "pending"
	RegistrationConfirmed  = "confirmed"
	RegistrationCancelled  = "cancelled"
	RegistrationWaitlisted = "waitlisted"
	RegistrationCheckedIn  = "checked_in"
)

// Payment statuses of a registration's fee.
const (
	FeePending     = "pending"
	FeePaid        = "paid"
	FeeFailed      = "failed"
	FeeRefunded    = "refunded"
	FeeNotRequired = "not_required"
)

// Payment record statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Team statuses.
const (
	TeamActive       = "active"
	TeamInactive     = "inactive"
	TeamDisqualified = "disqualified"
)

// Team member roles and statuses.
const (
	MemberRoleLeader   = "Leader"
	MemberRoleCoLeader = "Co-Leader"
	MemberRoleMember   = "Member"

	MemberActive        = "active"
	MemberInactive      = "inactive"
	MemberPendingInvite = "pending_invite"
)

// MaxActiveTeamMembers bounds steady-state team size, leader included.
const MaxActiveTeamMembers = 3

// Contract statuses.
const (
	ContractNegotiation = "negotiation"
	ContractActive      = "active"
	ContractCompleted   = "completed"
	ContractCancelled   = "cancelled"
)

// Accommodation availability.
const (
	AccommodationAvailable   = "Available"
	AccommodationUnavailable = "Unavailable"
	AccommodationMaintenance = "Maintenance"
)

// Accommodation request statuses.
const (
	RequestPending    = "Pending"
	RequestApproved   = "Approved"
	RequestRejected   = "Rejected"
	RequestCancelled  = "Cancelled"
	RequestWaitlisted = "Waitlisted"
)

// Event types from the catalog.
const (
	EventTypeIndividual = "Individual"
	EventTypeTeam       = "Team"
	EventTypeBoth       = "Both"
)

// User represents an account in the identity registry.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Event is a catalog entry consumed, not owned, by the engine.
type Event struct {
	ID                   int64     `json:"id" db:"id"`
	Title                string    `json:"title" db:"title"`
	Type                 string    `json:"type" db:"type"`
	Fee                  int64     `json:"fee" db:"fee"`
	MaxParticipants      int       `json:"max_participants" db:"max_participants"`
	RegistrationDeadline time.Time `json:"registration_deadline" db:"registration_deadline"`
	StartsAt             time.Time `json:"starts_at" db:"starts_at"`
	Status               string    `json:"status" db:"status"`
}

// RequiresTeam reports whether registering for the event needs a team.
func (e *Event) RequiresTeam() bool {
	return e.Type == EventTypeTeam
}

// Registrable reports whether the catalog allows new registrations.
func (e *Event) Registrable() bool {
	return e.Status == "published"
}

// Registration is a user's claim on an event slot, coupled to a fee status.
type Registration struct {
	ID                  int64     `json:"id" db:"id"`
	UserID              int64     `json:"user_id" db:"user_id"`
	EventID             int64     `json:"event_id" db:"event_id"`
	TeamID              *int64    `json:"team_id" db:"team_id"`
	Status              string    `json:"status" db:"status"`
	PaymentStatus       string    `json:"payment_status" db:"payment_status"`
	SpecialRequirements *string   `json:"special_requirements" db:"special_requirements"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Team groups registrants for team events.
type Team struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	EventID   int64     `json:"event_id" db:"event_id"`
	LeaderID  int64     `json:"leader_id" db:"leader_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TeamMember links a user to a team.
type TeamMember struct {
	TeamID    int64     `json:"team_id" db:"team_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Role      string    `json:"role" db:"role"`
	Status    string    `json:"status" db:"status"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Payment is a financial transaction tied to exactly one of a registration
// or a sponsorship contract.
type Payment struct {
	ID                    int64     `json:"id" db:"id"`
	Amount                int64     `json:"amount" db:"amount"`
	Method                string    `json:"method" db:"method"`
	Status                string    `json:"status" db:"status"`
	RelatedRegistrationID *int64    `json:"related_registration_id" db:"related_registration_id"`
	RelatedContractID     *int64    `json:"related_contract_id" db:"related_contract_id"`
	OrderRef              string    `json:"order_ref" db:"order_ref"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

// SponsorshipContract ties a sponsor to a package or a custom level.
type SponsorshipContract struct {
	ID            int64     `json:"id" db:"id"`
	SponsorID     int64     `json:"sponsor_id" db:"sponsor_id"`
	PackageID     *int64    `json:"package_id" db:"package_id"`
	CustomLevelID *int64    `json:"custom_level_id" db:"custom_level_id"`
	Amount        int64     `json:"amount" db:"amount"`
	StartDate     time.Time `json:"start_date" db:"start_date"`
	EndDate       time.Time `json:"end_date" db:"end_date"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// Accommodation is a date-bounded lodging resource.
type Accommodation struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Capacity     int       `json:"capacity" db:"capacity"`
	Availability string    `json:"availability" db:"availability"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// AccommodationRequest is a user's lodging request over [CheckIn, CheckOut).
type AccommodationRequest struct {
	ID                       int64     `json:"id" db:"id"`
	UserID                   int64     `json:"user_id" db:"user_id"`
	CheckIn                  time.Time `json:"check_in" db:"check_in"`
	CheckOut                 time.Time `json:"check_out" db:"check_out"`
	NumberOfPeople           int       `json:"number_of_people" db:"number_of_people"`
	Status                   string    `json:"status" db:"status"`
	AssignedAccommodationID  *int64    `json:"assigned_accommodation_id" db:"assigned_accommodation_id"`
	Note                     *string   `json:"note" db:"note"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time `json:"updated_at" db:"updated_at"`
}
