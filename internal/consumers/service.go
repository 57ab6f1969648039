package consumers

import (
	"context"
	"log/slog"

	"confreg/internal/config"
	"confreg/internal/database"
	"confreg/internal/messaging"
	"confreg/internal/models"
	"confreg/internal/repository"
)

// ConsumerService owns the durable NATS subscriptions for the notification
// side of the engine. Every subscription is a queue subscription so that
// multiple consumer instances share the work.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)
	handlers := NewHandlers(repos)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

func (cs *ConsumerService) Repositories() *repository.Repositories {
	return cs.repos
}

func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue(models.EventRegistrationCreated, "consumers", cs.handlers.HandleRegistrationCreated)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventRegistrationConfirmed, "consumers", cs.handlers.HandleRegistrationConfirmed)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventRegistrationCancelled, "consumers", cs.handlers.HandleRegistrationCancelled)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventRegistrationCheckedIn, "consumers", cs.handlers.HandleRegistrationCheckedIn)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventPaymentCompleted, "consumers", cs.handlers.HandlePaymentCompleted)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventAccommodationDecided, "consumers", cs.handlers.HandleAccommodationDecided)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue(models.EventReminderDue, "consumers", cs.handlers.HandleReminderDue)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
