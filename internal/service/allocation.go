package service

import (
	"context"
	"time"

	"confreg/internal/apperrors"
	"confreg/internal/identity"
	"confreg/internal/models"
)

// AllocationService matches lodging requests to accommodations.
type AllocationService struct {
	accs  accommodationStore
	authz Authorizer
	nats  Publisher
	now   func() time.Time
}

func NewAllocationService(accs accommodationStore, authz Authorizer, nats Publisher) *AllocationService {
	return &AllocationService{
		accs:  accs,
		authz: authz,
		nats:  nats,
		now:   time.Now,
	}
}

// Request files a pending lodging request for the caller.
func (s *AllocationService) Request(ctx context.Context, userID int64, req *models.RequestAccommodationRequest) (*models.RequestAccommodationResponse, error) {
	if !req.CheckOut.After(req.CheckIn) {
		return nil, apperrors.E(apperrors.KindValidation, apperrors.CodeInvalidDateRange,
			"check-out must be after check-in")
	}
	if req.NumberOfPeople <= 0 {
		return nil, apperrors.E(apperrors.KindValidation, apperrors.CodeMissingField,
			"number of people must be positive")
	}

	r := &models.AccommodationRequest{
		UserID:         userID,
		CheckIn:        req.CheckIn,
		CheckOut:       req.CheckOut,
		NumberOfPeople: req.NumberOfPeople,
		Status:         models.RequestPending,
	}
	if err := s.accs.CreateRequest(ctx, r); err != nil {
		return nil, err
	}

	publish(ctx, s.nats, models.EventAccommodationRequest, models.AccommodationRequestedEvent{
		RequestID:      r.ID,
		UserID:         r.UserID,
		NumberOfPeople: r.NumberOfPeople,
		CheckIn:        r.CheckIn,
		CheckOut:       r.CheckOut,
		Timestamp:      s.now(),
	})

	return &models.RequestAccommodationResponse{ID: r.ID, Status: r.Status}, nil
}

// Process runs the solver on one pending request. The decision is atomic
// with respect to other allocation attempts and leaves the request either
// Approved with an assignment or Rejected with a note.
func (s *AllocationService) Process(ctx context.Context, actorID int64, req *models.ProcessAccommodationRequestRequest) (*models.ProcessAccommodationRequestResponse, error) {
	if err := s.authz.Require(ctx, actorID, identity.ResourceAccommodation, identity.ActionProcess); err != nil {
		return nil, err
	}

	processed, err := s.accs.ProcessRequest(ctx, req.RequestID, models.DecideAllocation)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.nats, models.EventAccommodationDecided, models.AccommodationDecidedEvent{
		RequestID:       processed.ID,
		UserID:          processed.UserID,
		Status:          processed.Status,
		AccommodationID: processed.AssignedAccommodationID,
		Timestamp:       s.now(),
	})

	note := ""
	if processed.Note != nil {
		note = *processed.Note
	}
	return &models.ProcessAccommodationRequestResponse{
		Status:                  processed.Status,
		AssignedAccommodationID: processed.AssignedAccommodationID,
		Note:                    note,
	}, nil
}

// Cancel withdraws a request. Only the requester or a privileged actor may
// cancel.
func (s *AllocationService) Cancel(ctx context.Context, actorID, requestID int64) error {
	req, err := s.accs.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return apperrors.E(apperrors.KindNotFound, apperrors.CodeNotFound, "accommodation request not found")
	}

	if req.UserID != actorID {
		if err := s.authz.Require(ctx, actorID, identity.ResourceAccommodation, identity.ActionProcess); err != nil {
			return err
		}
	}

	_, err = s.accs.CancelRequest(ctx, requestID)
	return err
}

// ListAccommodations returns the lodging inventory.
func (s *AllocationService) ListAccommodations(ctx context.Context) (models.ListAccommodationsResponse, error) {
	accs, err := s.accs.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make(models.ListAccommodationsResponse, len(accs))
	for i, acc := range accs {
		result[i] = models.ListAccommodationsResponseItem{
			ID:           acc.ID,
			Name:         acc.Name,
			Capacity:     acc.Capacity,
			Availability: acc.Availability,
		}
	}
	return result, nil
}
