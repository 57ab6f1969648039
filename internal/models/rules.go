package models

import (
	"confreg/internal/apperrors"
)

// registrationTransitions is the full transition table of the registration
// lifecycle. checked_in and cancelled are terminal for the normal flow.
var registrationTransitions = map[string][]string{
	RegistrationPending:    {RegistrationConfirmed, RegistrationCancelled, RegistrationWaitlisted},
	RegistrationWaitlisted: {RegistrationConfirmed, RegistrationCancelled},
	RegistrationConfirmed:  {RegistrationCheckedIn, RegistrationCancelled},
	RegistrationCheckedIn:  {},
	RegistrationCancelled:  {},
}

// CanTransition reports whether the registration state machine allows
// moving from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range registrationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidRegistrationStatus reports whether s belongs to the closed status set.
func ValidRegistrationStatus(s string) bool {
	_, ok := registrationTransitions[s]
	return ok
}

// ValidateTarget enforces the payment XOR invariant: exactly one of the
// registration and contract references must be set. It is called on every
// insert and every update of a payment row.
func (p *Payment) ValidateTarget() error {
	hasReg := p.RelatedRegistrationID != nil
	hasContract := p.RelatedContractID != nil
	if hasReg == hasContract {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeAmbiguousTarget,
			"payment must reference exactly one of a registration or a contract")
	}
	return nil
}

// Validate checks the payment's scalar fields and its target.
func (p *Payment) Validate() error {
	if p.Amount <= 0 {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeInvalidAmount,
			"payment amount must be positive")
	}
	if p.Method == "" {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeMissingField,
			"payment method is required")
	}
	return p.ValidateTarget()
}

// Validate checks the contract's level reference and date range.
func (c *SponsorshipContract) Validate() error {
	if c.PackageID == nil && c.CustomLevelID == nil {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeMissingField,
			"contract must reference a package or a custom level")
	}
	if c.Amount <= 0 {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeInvalidAmount,
			"contract amount must be positive")
	}
	if c.EndDate.Before(c.StartDate) {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeInvalidDateRange,
			"contract end date precedes start date")
	}
	return nil
}

// ReconcileResult describes what ApplyPaymentCompleted decided. The caller
// persists payment and registration only when the corresponding flag is set,
// inside the same transaction.
type ReconcileResult struct {
	AlreadyCompleted      bool
	RegistrationConfirmed bool
}

// ApplyPaymentCompleted marks the payment completed and, when it targets a
// registration still awaiting confirmation, advances that registration to
// confirmed/paid. Completing an already-completed payment is a no-op and
// never re-fires the registration side effect. A cancelled or checked-in
// registration is left untouched.
func ApplyPaymentCompleted(p *Payment, reg *Registration) ReconcileResult {
	if p.Status == PaymentCompleted {
		return ReconcileResult{AlreadyCompleted: true}
	}
	p.Status = PaymentCompleted

	if p.RelatedRegistrationID == nil || reg == nil {
		return ReconcileResult{}
	}
	if reg.Status != RegistrationPending && reg.Status != RegistrationWaitlisted {
		return ReconcileResult{}
	}
	reg.Status = RegistrationConfirmed
	reg.PaymentStatus = FeePaid
	return ReconcileResult{RegistrationConfirmed: true}
}

// CanAddTeamMember is the steady-state bound check for a team roster.
func CanAddTeamMember(activeMembers int) bool {
	return activeMembers < MaxActiveTeamMembers
}
