package service

import (
	"context"
	"time"

	"confreg/internal/apperrors"
	"confreg/internal/identity"
	"confreg/internal/models"
)

// RegistrationService owns the registration lifecycle.
type RegistrationService struct {
	regs   registrationStore
	events eventCatalog
	teams  teamStore
	authz  Authorizer
	nats   Publisher
	now    func() time.Time
}

func NewRegistrationService(regs registrationStore, events eventCatalog, teams teamStore, authz Authorizer, nats Publisher) *RegistrationService {
	return &RegistrationService{
		regs:   regs,
		events: events,
		teams:  teams,
		authz:  authz,
		nats:   nats,
		now:    time.Now,
	}
}

// Create registers a user for an event. A zero-fee event produces a pending
// registration with payment_status=not_required; confirmation happens
// through the explicit ConfirmFree path, never implicitly at creation.
func (s *RegistrationService) Create(ctx context.Context, userID int64, req *models.CreateRegistrationRequest) (*models.CreateRegistrationResponse, error) {
	event, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil || !event.Registrable() {
		return nil, apperrors.E(apperrors.KindNotFound, apperrors.CodeEventNotFound,
			"event not found or not open for registration")
	}

	if s.now().After(event.RegistrationDeadline) {
		return nil, apperrors.E(apperrors.KindValidation, apperrors.CodeDeadlinePassed,
			"registration deadline has passed")
	}

	if err := s.checkTeamMembership(ctx, userID, event, req.TeamID); err != nil {
		return nil, err
	}

	paymentStatus := models.FeePending
	if event.Fee == 0 {
		paymentStatus = models.FeeNotRequired
	}

	reg := &models.Registration{
		UserID:              userID,
		EventID:             req.EventID,
		TeamID:              req.TeamID,
		Status:              models.RegistrationPending,
		PaymentStatus:       paymentStatus,
		SpecialRequirements: req.SpecialRequirements,
	}

	if err := s.regs.Create(ctx, reg); err != nil {
		return nil, err
	}

	publish(ctx, s.nats, models.EventRegistrationCreated, models.RegistrationCreatedEvent{
		RegistrationID: reg.ID,
		UserID:         reg.UserID,
		EventID:        reg.EventID,
		PaymentStatus:  reg.PaymentStatus,
		Timestamp:      s.now(),
	})

	return &models.CreateRegistrationResponse{
		ID:            reg.ID,
		Status:        reg.Status,
		PaymentStatus: reg.PaymentStatus,
	}, nil
}

func (s *RegistrationService) checkTeamMembership(ctx context.Context, userID int64, event *models.Event, teamID *int64) error {
	if event.RequiresTeam() && teamID == nil {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeTeamMembershipRequired,
			"event requires registering as a team member")
	}
	if teamID == nil {
		return nil
	}

	team, err := s.teams.GetByID(ctx, *teamID)
	if err != nil {
		return err
	}
	if team == nil || team.EventID != event.ID {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeTeamMembershipRequired,
			"team does not exist for this event")
	}

	member, err := s.teams.IsActiveMember(ctx, *teamID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.E(apperrors.KindValidation, apperrors.CodeTeamMembershipRequired,
			"caller is not an active member of the team")
	}
	return nil
}

// Cancel moves a registration to cancelled. Only the registrant or a
// privileged actor may cancel; a checked-in registration cannot be.
func (s *RegistrationService) Cancel(ctx context.Context, actorID int64, req *models.CancelRegistrationRequest) error {
	reg, err := s.regs.GetByID(ctx, req.RegistrationID)
	if err != nil {
		return err
	}
	if reg == nil {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "registration not found")
	}

	if reg.UserID != actorID {
		if err := s.authz.Require(ctx, actorID, identity.ResourceRegistration, identity.ActionCancel); err != nil {
			return err
		}
	}

	updated, err := s.regs.Transition(ctx, req.RegistrationID, func(r *models.Registration) error {
		if r.Status == models.RegistrationCheckedIn {
			return apperrors.E(apperrors.KindInvalidTransition, apperrors.CodeInvalidTransition,
				"a checked-in registration cannot be cancelled")
		}
		r.Status = models.RegistrationCancelled
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.nats, models.EventRegistrationCancelled, models.RegistrationStatusEvent{
		RegistrationID: updated.ID,
		EventID:        updated.EventID,
		Status:         updated.Status,
		Timestamp:      s.now(),
	})
	return nil
}

// CheckIn marks a confirmed registration as checked in.
func (s *RegistrationService) CheckIn(ctx context.Context, actorID int64, req *models.CheckInRequest) error {
	if err := s.authz.Require(ctx, actorID, identity.ResourceRegistration, identity.ActionCheckIn); err != nil {
		return err
	}

	updated, err := s.regs.Transition(ctx, req.RegistrationID, func(r *models.Registration) error {
		if !models.CanTransition(r.Status, models.RegistrationCheckedIn) {
			return apperrors.E(apperrors.KindInvalidTransition, apperrors.CodeInvalidTransition,
				"only a confirmed registration can be checked in")
		}
		r.Status = models.RegistrationCheckedIn
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.nats, models.EventRegistrationCheckedIn, models.RegistrationStatusEvent{
		RegistrationID: updated.ID,
		EventID:        updated.EventID,
		Status:         updated.Status,
		Timestamp:      s.now(),
	})
	return nil
}

// ConfirmFree confirms a registration whose event charges no fee. It is the
// same completion rule a paid registration goes through, driven by "no
// payment required" instead of a settled payment.
func (s *RegistrationService) ConfirmFree(ctx context.Context, actorID int64, req *models.ConfirmFreeRegistrationRequest) error {
	reg, err := s.regs.GetByID(ctx, req.RegistrationID)
	if err != nil {
		return err
	}
	if reg == nil {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "registration not found")
	}

	if reg.UserID != actorID {
		if err := s.authz.Require(ctx, actorID, identity.ResourceRegistration, identity.ActionConfirm); err != nil {
			return err
		}
	}

	updated, err := s.regs.Transition(ctx, req.RegistrationID, func(r *models.Registration) error {
		if r.PaymentStatus != models.FeeNotRequired {
			return apperrors.E(apperrors.KindValidation, apperrors.CodePaymentRequired,
				"registration requires a payment to confirm")
		}
		if !models.CanTransition(r.Status, models.RegistrationConfirmed) {
			return apperrors.E(apperrors.KindInvalidTransition, apperrors.CodeInvalidTransition,
				"registration cannot be confirmed from its current status")
		}
		r.Status = models.RegistrationConfirmed
		return nil
	})
	if err != nil {
		return err
	}

	publish(ctx, s.nats, models.EventRegistrationConfirmed, models.RegistrationStatusEvent{
		RegistrationID: updated.ID,
		EventID:        updated.EventID,
		Status:         updated.Status,
		Timestamp:      s.now(),
	})
	return nil
}

// List returns a user's registrations.
func (s *RegistrationService) List(ctx context.Context, userID int64) (models.ListRegistrationsResponse, error) {
	regs, err := s.regs.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make(models.ListRegistrationsResponse, len(regs))
	for i, reg := range regs {
		result[i] = models.ListRegistrationsResponseItem{
			ID:            reg.ID,
			EventID:       reg.EventID,
			Status:        reg.Status,
			PaymentStatus: reg.PaymentStatus,
		}
	}
	return result, nil
}
