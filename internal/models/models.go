package models

import "time"

// CreateRegistrationRequest creates a claim on an event slot.
type CreateRegistrationRequest struct {
	EventID             int64   `json:"event_id" binding:"required"`
	TeamID              *int64  `json:"team_id"`
	SpecialRequirements *string `json:"special_requirements"`
}

// CreateRegistrationResponse carries the new registration's state.
type CreateRegistrationResponse struct {
	ID            int64  `json:"id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// CancelRegistrationRequest cancels a registration on behalf of an actor.
type CancelRegistrationRequest struct {
	RegistrationID int64 `json:"registration_id" binding:"required"`
}

// CheckInRequest marks a confirmed registration as checked in.
type CheckInRequest struct {
	RegistrationID int64 `json:"registration_id" binding:"required"`
}

// ConfirmFreeRegistrationRequest is the explicit confirmation path for
// registrations whose event charges no fee.
type ConfirmFreeRegistrationRequest struct {
	RegistrationID int64 `json:"registration_id" binding:"required"`
}

// ListRegistrationsResponseItem is one row of a user's registrations.
type ListRegistrationsResponseItem struct {
	ID            int64  `json:"id"`
	EventID       int64  `json:"event_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// ListRegistrationsResponse lists a user's registrations.
type ListRegistrationsResponse []ListRegistrationsResponseItem

// RecordPaymentRequest records a transaction against exactly one target.
type RecordPaymentRequest struct {
	Amount         int64  `json:"amount" binding:"required"`
	Method         string `json:"method" binding:"required"`
	RegistrationID *int64 `json:"registration_id"`
	ContractID     *int64 `json:"contract_id"`
}

// RecordPaymentResponse carries the new payment's id and order reference.
type RecordPaymentResponse struct {
	ID       int64  `json:"id"`
	Status   string `json:"status"`
	OrderRef string `json:"order_ref"`
}

// UpdatePaymentTargetRequest re-points a payment at a different target.
type UpdatePaymentTargetRequest struct {
	PaymentID      int64  `json:"payment_id" binding:"required"`
	RegistrationID *int64 `json:"registration_id"`
	ContractID     *int64 `json:"contract_id"`
}

// CompletePaymentRequest settles a pending payment.
type CompletePaymentRequest struct {
	PaymentID int64 `json:"payment_id" binding:"required"`
}

// CompletePaymentResponse reports the reconciliation outcome.
type CompletePaymentResponse struct {
	Status                string `json:"status"`
	RegistrationConfirmed bool   `json:"registration_confirmed"`
}

// CreateTeamRequest creates a team; the caller becomes the leader.
type CreateTeamRequest struct {
	Name    string `json:"name" binding:"required"`
	EventID int64  `json:"event_id" binding:"required"`
}

// CreateTeamResponse carries the new team's id.
type CreateTeamResponse struct {
	ID int64 `json:"id"`
}

// AddTeamMemberRequest adds a user to a team roster.
type AddTeamMemberRequest struct {
	TeamID int64  `json:"team_id" binding:"required"`
	UserID int64  `json:"user_id" binding:"required"`
	Role   string `json:"role"`
}

// CreateContractRequest opens a sponsorship contract in negotiation.
type CreateContractRequest struct {
	SponsorID     int64     `json:"sponsor_id" binding:"required"`
	PackageID     *int64    `json:"package_id"`
	CustomLevelID *int64    `json:"custom_level_id"`
	Amount        int64     `json:"amount" binding:"required"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	EndDate       time.Time `json:"end_date" binding:"required"`
}

// CreateContractResponse carries the new contract's id.
type CreateContractResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// ActivateContractRequest moves a contract from negotiation to active.
type ActivateContractRequest struct {
	ContractID int64 `json:"contract_id" binding:"required"`
}

// RequestAccommodationRequest files a lodging request over [CheckIn, CheckOut).
type RequestAccommodationRequest struct {
	CheckIn        time.Time `json:"check_in" binding:"required"`
	CheckOut       time.Time `json:"check_out" binding:"required"`
	NumberOfPeople int       `json:"number_of_people" binding:"required"`
}

// RequestAccommodationResponse carries the new request's id.
type RequestAccommodationResponse struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

// ProcessAccommodationRequestRequest runs the allocation solver on a
// pending request.
type ProcessAccommodationRequestRequest struct {
	RequestID int64 `json:"request_id" binding:"required"`
}

// ProcessAccommodationRequestResponse reports the solver's decision.
type ProcessAccommodationRequestResponse struct {
	Status                  string `json:"status"`
	AssignedAccommodationID *int64 `json:"assigned_accommodation_id,omitempty"`
	Note                    string `json:"note"`
}

// ListAccommodationsResponseItem is one lodging resource.
type ListAccommodationsResponseItem struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Capacity     int    `json:"capacity"`
	Availability string `json:"availability"`
}

// ListAccommodationsResponse lists lodging resources.
type ListAccommodationsResponse []ListAccommodationsResponseItem
