package service

import (
	"context"
	"time"

	"confreg/internal/identity"
	"confreg/internal/models"

	"github.com/google/uuid"
)

// PaymentService is the reconciliation unit: it records transactions and
// keeps payment and registration state mutually consistent.
type PaymentService struct {
	payments paymentStore
	authz    Authorizer
	nats     Publisher
	now      func() time.Time
}

func NewPaymentService(payments paymentStore, authz Authorizer, nats Publisher) *PaymentService {
	return &PaymentService{
		payments: payments,
		authz:    authz,
		nats:     nats,
		now:      time.Now,
	}
}

// Record inserts a pending payment against exactly one target. A malformed
// target is rejected before anything touches the store.
func (s *PaymentService) Record(ctx context.Context, actorID int64, req *models.RecordPaymentRequest) (*models.RecordPaymentResponse, error) {
	if err := s.authz.Require(ctx, actorID, identity.ResourcePayment, identity.ActionRecord); err != nil {
		return nil, err
	}

	p := &models.Payment{
		Amount:                req.Amount,
		Method:                req.Method,
		Status:                models.PaymentPending,
		RelatedRegistrationID: req.RegistrationID,
		RelatedContractID:     req.ContractID,
		OrderRef:              uuid.New().String(),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	if err := s.payments.Create(ctx, p); err != nil {
		return nil, err
	}

	publish(ctx, s.nats, models.EventPaymentRecorded, models.PaymentRecordedEvent{
		PaymentID: p.ID,
		Amount:    p.Amount,
		OrderRef:  p.OrderRef,
		Timestamp: s.now(),
	})

	return &models.RecordPaymentResponse{
		ID:       p.ID,
		Status:   p.Status,
		OrderRef: p.OrderRef,
	}, nil
}

// UpdateTarget re-points a payment at a different registration or contract.
// The exclusive-target invariant is re-validated on the way in; a violating
// update never reaches the store.
func (s *PaymentService) UpdateTarget(ctx context.Context, actorID int64, req *models.UpdatePaymentTargetRequest) error {
	if err := s.authz.Require(ctx, actorID, identity.ResourcePayment, identity.ActionRecord); err != nil {
		return err
	}
	return s.payments.UpdateTarget(ctx, req.PaymentID, req.RegistrationID, req.ContractID)
}

// Complete settles a payment. When the payment targets a registration still
// pending or waitlisted, the registration is confirmed in the same
// transaction; completing an already-completed payment is a no-op and emits
// nothing. A contract payment never moves contract status from here.
func (s *PaymentService) Complete(ctx context.Context, actorID int64, req *models.CompletePaymentRequest) (*models.CompletePaymentResponse, error) {
	if err := s.authz.Require(ctx, actorID, identity.ResourcePayment, identity.ActionComplete); err != nil {
		return nil, err
	}

	p, result, err := s.payments.Complete(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	if !result.AlreadyCompleted {
		publish(ctx, s.nats, models.EventPaymentCompleted, models.PaymentCompletedEvent{
			PaymentID:             p.ID,
			RegistrationID:        p.RelatedRegistrationID,
			ContractID:            p.RelatedContractID,
			RegistrationConfirmed: result.RegistrationConfirmed,
			Timestamp:             s.now(),
		})
	}

	return &models.CompletePaymentResponse{
		Status:                p.Status,
		RegistrationConfirmed: result.RegistrationConfirmed,
	}, nil
}
