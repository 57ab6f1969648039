package service

import (
	"context"

	"confreg/internal/identity"
	"confreg/internal/logger"
	"confreg/internal/messaging"
	"confreg/internal/models"
	"confreg/internal/repository"
)

// Publisher emits domain events. Publish failures are logged and swallowed;
// the state change has already committed by the time an event goes out.
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Authorizer is the identity collaborator's verdict surface. The engine
// never implements authorization logic itself.
type Authorizer interface {
	HasPrivilege(ctx context.Context, userID int64, resource, action string) (bool, error)
	Require(ctx context.Context, userID int64, resource, action string) error
}

type registrationStore interface {
	Create(ctx context.Context, reg *models.Registration) error
	GetByID(ctx context.Context, id int64) (*models.Registration, error)
	GetByUserID(ctx context.Context, userID int64) ([]models.Registration, error)
	Transition(ctx context.Context, id int64, apply func(*models.Registration) error) (*models.Registration, error)
}

type eventCatalog interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

type teamStore interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	AddMember(ctx context.Context, teamID, userID int64, role string) error
	IsActiveMember(ctx context.Context, teamID, userID int64) (bool, error)
	RemoveMember(ctx context.Context, teamID, userID int64) error
}

type paymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	UpdateTarget(ctx context.Context, id int64, registrationID, contractID *int64) error
	Complete(ctx context.Context, paymentID int64) (*models.Payment, models.ReconcileResult, error)
}

type contractStore interface {
	Create(ctx context.Context, c *models.SponsorshipContract) error
	GetByID(ctx context.Context, id int64) (*models.SponsorshipContract, error)
	Activate(ctx context.Context, id int64) (*models.SponsorshipContract, error)
}

type accommodationStore interface {
	List(ctx context.Context) ([]models.Accommodation, error)
	CreateRequest(ctx context.Context, req *models.AccommodationRequest) error
	GetRequestByID(ctx context.Context, id int64) (*models.AccommodationRequest, error)
	ProcessRequest(ctx context.Context, requestID int64, decide models.AllocationDecider) (*models.AccommodationRequest, error)
	CancelRequest(ctx context.Context, requestID int64) (*models.AccommodationRequest, error)
}

type Services struct {
	Registrations  *RegistrationService
	Payments       *PaymentService
	Teams          *TeamService
	Contracts      *ContractService
	Accommodations *AllocationService
}

func NewServices(repos *repository.Repositories, registry *identity.Registry, natsClient *messaging.NATSClient) *Services {
	return &Services{
		Registrations:  NewRegistrationService(repos.Registrations, repos.Events, repos.Teams, registry, natsClient),
		Payments:       NewPaymentService(repos.Payments, registry, natsClient),
		Teams:          NewTeamService(repos.Teams, repos.Events, registry, natsClient),
		Contracts:      NewContractService(repos.Contracts, registry),
		Accommodations: NewAllocationService(repos.Accommodations, registry, natsClient),
	}
}

// publish sends a domain event, logging failures without surfacing them.
func publish(ctx context.Context, nats Publisher, subject string, data interface{}) {
	if nats == nil {
		return
	}
	if err := nats.Publish(subject, data); err != nil {
		logger.WithContext(ctx).Error("Failed to publish domain event",
			"error", err,
			"subject", subject)
	}
}
