package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confreg/internal/apperrors"
	"confreg/internal/models"
)

func newPaymentService(payments *fakePaymentStore, authz Authorizer, pub Publisher) *PaymentService {
	s := NewPaymentService(payments, authz, pub)
	s.now = fixedNow
	return s
}

func seedRegistration(t *testing.T, regs *fakeRegStore, status string) int64 {
	t.Helper()
	reg := &models.Registration{
		UserID:        42,
		EventID:       1,
		Status:        status,
		PaymentStatus: models.FeePending,
	}
	require.NoError(t, regs.Create(context.Background(), reg))
	return reg.ID
}

func TestRecordPayment(t *testing.T) {
	regs := newFakeRegStore()
	regID := seedRegistration(t, regs, models.RegistrationPending)
	payments := newFakePaymentStore(regs)
	pub := &fakePublisher{}
	s := newPaymentService(payments, newFakeAuthz(7), pub)

	resp, err := s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount:         5000,
		Method:         "card",
		RegistrationID: &regID,
	})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentPending, resp.Status)
	assert.NotEmpty(t, resp.OrderRef)
	assert.Contains(t, pub.subjects, models.EventPaymentRecorded)
}

func TestRecordPaymentRequiresPrivilege(t *testing.T) {
	regs := newFakeRegStore()
	regID := seedRegistration(t, regs, models.RegistrationPending)
	s := newPaymentService(newFakePaymentStore(regs), newFakeAuthz(), &fakePublisher{})

	_, err := s.Record(context.Background(), 42, &models.RecordPaymentRequest{
		Amount:         5000,
		Method:         "card",
		RegistrationID: &regID,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestRecordPaymentRejectsAmbiguousTarget(t *testing.T) {
	regs := newFakeRegStore()
	regID := seedRegistration(t, regs, models.RegistrationPending)
	contractID := int64(3)
	payments := newFakePaymentStore(regs)
	s := newPaymentService(payments, newFakeAuthz(7), &fakePublisher{})

	// Both targets set.
	_, err := s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount:         5000,
		Method:         "card",
		RegistrationID: &regID,
		ContractID:     &contractID,
	})
	assert.Equal(t, apperrors.CodeAmbiguousTarget, apperrors.CodeOf(err))

	// Neither target set.
	_, err = s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount: 5000,
		Method: "card",
	})
	assert.Equal(t, apperrors.CodeAmbiguousTarget, apperrors.CodeOf(err))

	// Nothing was persisted on either rejection.
	assert.Empty(t, payments.payments)
}

func TestUpdatePaymentTarget(t *testing.T) {
	regs := newFakeRegStore()
	regID := seedRegistration(t, regs, models.RegistrationPending)
	payments := newFakePaymentStore(regs)
	s := newPaymentService(payments, newFakeAuthz(7), &fakePublisher{})

	recorded, err := s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount:         5000,
		Method:         "card",
		RegistrationID: &regID,
	})
	require.NoError(t, err)

	// Re-point to a contract.
	contractID := int64(3)
	err = s.UpdateTarget(context.Background(), 7, &models.UpdatePaymentTargetRequest{
		PaymentID:  recorded.ID,
		ContractID: &contractID,
	})
	require.NoError(t, err)
	assert.Nil(t, payments.payments[recorded.ID].RelatedRegistrationID)

	// A violating update is rejected and leaves the row untouched.
	err = s.UpdateTarget(context.Background(), 7, &models.UpdatePaymentTargetRequest{
		PaymentID:      recorded.ID,
		RegistrationID: &regID,
		ContractID:     &contractID,
	})
	assert.Equal(t, apperrors.CodeAmbiguousTarget, apperrors.CodeOf(err))
	require.NotNil(t, payments.payments[recorded.ID].RelatedContractID)
	assert.Equal(t, contractID, *payments.payments[recorded.ID].RelatedContractID)
}

func TestCompletePaymentConfirmsRegistration(t *testing.T) {
	regs := newFakeRegStore()
	regID := seedRegistration(t, regs, models.RegistrationPending)
	payments := newFakePaymentStore(regs)
	pub := &fakePublisher{}
	s := newPaymentService(payments, newFakeAuthz(7), pub)

	recorded, err := s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount:         5000,
		Method:         "card",
		RegistrationID: &regID,
	})
	require.NoError(t, err)

	resp, err := s.Complete(context.Background(), 7, &models.CompletePaymentRequest{PaymentID: recorded.ID})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCompleted, resp.Status)
	assert.True(t, resp.RegistrationConfirmed)

	reg := regs.regs[regID]
	assert.Equal(t, models.RegistrationConfirmed, reg.Status)
	assert.Equal(t, models.FeePaid, reg.PaymentStatus)
	assert.Contains(t, pub.subjects, models.EventPaymentCompleted)
}

func TestCompletePaymentIdempotent(t *testing.T) {
	regs := newFakeRegStore()
	regID := seedRegistration(t, regs, models.RegistrationPending)
	payments := newFakePaymentStore(regs)
	pub := &fakePublisher{}
	s := newPaymentService(payments, newFakeAuthz(7), pub)

	recorded, err := s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount:         5000,
		Method:         "card",
		RegistrationID: &regID,
	})
	require.NoError(t, err)

	_, err = s.Complete(context.Background(), 7, &models.CompletePaymentRequest{PaymentID: recorded.ID})
	require.NoError(t, err)
	eventsAfterFirst := len(pub.subjects)

	// The user cancels, then the completion is retried.
	regs.regs[regID].Status = models.RegistrationCancelled

	resp, err := s.Complete(context.Background(), 7, &models.CompletePaymentRequest{PaymentID: recorded.ID})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCompleted, resp.Status)
	assert.False(t, resp.RegistrationConfirmed)
	assert.Equal(t, models.RegistrationCancelled, regs.regs[regID].Status)
	// The retry emitted nothing.
	assert.Len(t, pub.subjects, eventsAfterFirst)
}

func TestCompletePaymentLeavesCancelledRegistration(t *testing.T) {
	regs := newFakeRegStore()
	regID := seedRegistration(t, regs, models.RegistrationCancelled)
	payments := newFakePaymentStore(regs)
	s := newPaymentService(payments, newFakeAuthz(7), &fakePublisher{})

	recorded, err := s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount:         5000,
		Method:         "card",
		RegistrationID: &regID,
	})
	require.NoError(t, err)

	resp, err := s.Complete(context.Background(), 7, &models.CompletePaymentRequest{PaymentID: recorded.ID})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCompleted, resp.Status)
	assert.False(t, resp.RegistrationConfirmed)
	assert.Equal(t, models.RegistrationCancelled, regs.regs[regID].Status)
}

func TestCompleteContractPayment(t *testing.T) {
	regs := newFakeRegStore()
	payments := newFakePaymentStore(regs)
	s := newPaymentService(payments, newFakeAuthz(7), &fakePublisher{})

	contractID := int64(3)
	recorded, err := s.Record(context.Background(), 7, &models.RecordPaymentRequest{
		Amount:     250000,
		Method:     "transfer",
		ContractID: &contractID,
	})
	require.NoError(t, err)

	resp, err := s.Complete(context.Background(), 7, &models.CompletePaymentRequest{PaymentID: recorded.ID})
	require.NoError(t, err)

	assert.Equal(t, models.PaymentCompleted, resp.Status)
	assert.False(t, resp.RegistrationConfirmed)
}

func TestCompleteUnknownPayment(t *testing.T) {
	s := newPaymentService(newFakePaymentStore(newFakeRegStore()), newFakeAuthz(7), &fakePublisher{})

	_, err := s.Complete(context.Background(), 7, &models.CompletePaymentRequest{PaymentID: 404})
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
