package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"confreg/internal/apperrors"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(RegistrationPending, RegistrationConfirmed))
	assert.True(t, CanTransition(RegistrationPending, RegistrationCancelled))
	assert.True(t, CanTransition(RegistrationPending, RegistrationWaitlisted))
	assert.True(t, CanTransition(RegistrationWaitlisted, RegistrationConfirmed))
	assert.True(t, CanTransition(RegistrationWaitlisted, RegistrationCancelled))
	assert.True(t, CanTransition(RegistrationConfirmed, RegistrationCheckedIn))
	assert.True(t, CanTransition(RegistrationConfirmed, RegistrationCancelled))

	// Terminal states admit nothing.
	assert.False(t, CanTransition(RegistrationCheckedIn, RegistrationCancelled))
	assert.False(t, CanTransition(RegistrationCheckedIn, RegistrationConfirmed))
	assert.False(t, CanTransition(RegistrationCancelled, RegistrationConfirmed))
	assert.False(t, CanTransition(RegistrationCancelled, RegistrationPending))

	// Skipping confirmation is not allowed.
	assert.False(t, CanTransition(RegistrationPending, RegistrationCheckedIn))
	assert.False(t, CanTransition(RegistrationWaitlisted, RegistrationCheckedIn))

	assert.False(t, CanTransition("bogus", RegistrationConfirmed))
}

func TestValidRegistrationStatus(t *testing.T) {
	for _, s := range []string{
		RegistrationPending, RegistrationConfirmed, RegistrationCancelled,
		RegistrationWaitlisted, RegistrationCheckedIn,
	} {
		assert.True(t, ValidRegistrationStatus(s), s)
	}
	assert.False(t, ValidRegistrationStatus("approved"))
	assert.False(t, ValidRegistrationStatus(""))
}

func TestPaymentValidateTarget(t *testing.T) {
	regID := int64(10)
	contractID := int64(20)

	p := &Payment{RelatedRegistrationID: &regID}
	assert.NoError(t, p.ValidateTarget())

	p = &Payment{RelatedContractID: &contractID}
	assert.NoError(t, p.ValidateTarget())

	p = &Payment{}
	err := p.ValidateTarget()
	assert.Error(t, err)
	assert.Equal(t, apperrors.CodeAmbiguousTarget, apperrors.CodeOf(err))

	p = &Payment{RelatedRegistrationID: &regID, RelatedContractID: &contractID}
	err = p.ValidateTarget()
	assert.Error(t, err)
	assert.Equal(t, apperrors.CodeAmbiguousTarget, apperrors.CodeOf(err))
}

func TestPaymentValidate(t *testing.T) {
	regID := int64(10)

	p := &Payment{Amount: 5000, Method: "card", RelatedRegistrationID: &regID}
	assert.NoError(t, p.Validate())

	p = &Payment{Amount: 0, Method: "card", RelatedRegistrationID: &regID}
	assert.Equal(t, apperrors.CodeInvalidAmount, apperrors.CodeOf(p.Validate()))

	p = &Payment{Amount: -100, Method: "card", RelatedRegistrationID: &regID}
	assert.Equal(t, apperrors.CodeInvalidAmount, apperrors.CodeOf(p.Validate()))

	p = &Payment{Amount: 5000, RelatedRegistrationID: &regID}
	assert.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(p.Validate()))
}

func TestContractValidate(t *testing.T) {
	pkgID := int64(1)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	c := &SponsorshipContract{PackageID: &pkgID, Amount: 100000, StartDate: start, EndDate: end}
	assert.NoError(t, c.Validate())

	c = &SponsorshipContract{Amount: 100000, StartDate: start, EndDate: end}
	assert.Equal(t, apperrors.CodeMissingField, apperrors.CodeOf(c.Validate()))

	c = &SponsorshipContract{PackageID: &pkgID, Amount: 0, StartDate: start, EndDate: end}
	assert.Equal(t, apperrors.CodeInvalidAmount, apperrors.CodeOf(c.Validate()))

	c = &SponsorshipContract{PackageID: &pkgID, Amount: 100000, StartDate: end, EndDate: start}
	assert.Equal(t, apperrors.CodeInvalidDateRange, apperrors.CodeOf(c.Validate()))
}

func TestApplyPaymentCompletedConfirmsRegistration(t *testing.T) {
	regID := int64(1)
	p := &Payment{ID: 7, Status: PaymentPending, RelatedRegistrationID: &regID}
	reg := &Registration{ID: regID, Status: RegistrationPending, PaymentStatus: FeePending}

	res := ApplyPaymentCompleted(p, reg)

	assert.False(t, res.AlreadyCompleted)
	assert.True(t, res.RegistrationConfirmed)
	assert.Equal(t, PaymentCompleted, p.Status)
	assert.Equal(t, RegistrationConfirmed, reg.Status)
	assert.Equal(t, FeePaid, reg.PaymentStatus)
}

func TestApplyPaymentCompletedFromWaitlist(t *testing.T) {
	regID := int64(1)
	p := &Payment{Status: PaymentPending, RelatedRegistrationID: &regID}
	reg := &Registration{ID: regID, Status: RegistrationWaitlisted, PaymentStatus: FeePending}

	res := ApplyPaymentCompleted(p, reg)

	assert.True(t, res.RegistrationConfirmed)
	assert.Equal(t, RegistrationConfirmed, reg.Status)
}

func TestApplyPaymentCompletedIsIdempotent(t *testing.T) {
	regID := int64(1)
	p := &Payment{Status: PaymentPending, RelatedRegistrationID: &regID}
	reg := &Registration{ID: regID, Status: RegistrationPending, PaymentStatus: FeePending}

	first := ApplyPaymentCompleted(p, reg)
	assert.True(t, first.RegistrationConfirmed)

	// Simulate the user cancelling after the first completion.
	reg.Status = RegistrationCancelled

	second := ApplyPaymentCompleted(p, reg)
	assert.True(t, second.AlreadyCompleted)
	assert.False(t, second.RegistrationConfirmed)
	assert.Equal(t, RegistrationCancelled, reg.Status)
}

func TestApplyPaymentCompletedLeavesCancelledRegistration(t *testing.T) {
	regID := int64(1)
	p := &Payment{Status: PaymentPending, RelatedRegistrationID: &regID}
	reg := &Registration{ID: regID, Status: RegistrationCancelled, PaymentStatus: FeePending}

	res := ApplyPaymentCompleted(p, reg)

	assert.False(t, res.RegistrationConfirmed)
	assert.Equal(t, PaymentCompleted, p.Status)
	assert.Equal(t, RegistrationCancelled, reg.Status)
	assert.Equal(t, FeePending, reg.PaymentStatus)
}

func TestApplyPaymentCompletedContractTarget(t *testing.T) {
	contractID := int64(5)
	p := &Payment{Status: PaymentPending, RelatedContractID: &contractID}

	res := ApplyPaymentCompleted(p, nil)

	assert.False(t, res.AlreadyCompleted)
	assert.False(t, res.RegistrationConfirmed)
	assert.Equal(t, PaymentCompleted, p.Status)
}

func TestCanAddTeamMember(t *testing.T) {
	assert.True(t, CanAddTeamMember(0))
	assert.True(t, CanAddTeamMember(1))
	assert.True(t, CanAddTeamMember(2))
	assert.False(t, CanAddTeamMember(3))
	assert.False(t, CanAddTeamMember(4))
}
