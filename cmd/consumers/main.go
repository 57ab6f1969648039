package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"confreg/cmd/consumers/jobs"
	"confreg/internal/config"
	"confreg/internal/consumers"
	"confreg/internal/logger"
	"confreg/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	log.Println("Starting consumers service...")

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	// Each binary needs its own NATS client ID.
	cfg.NATS.ClientID = "confreg-consumers"

	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		log.Fatalf("Failed to create consumer service: %v", err)
	}

	if err := consumerService.Start(); err != nil {
		log.Fatalf("Failed to start consumers: %v", err)
	}

	reminders := service.NewReminderService(
		consumerService.Repositories().Registrations,
		consumerService.NATS(),
		cfg.ReminderWindow,
	)
	reminderJob := jobs.NewReminderJob(reminders, cfg.ReminderInterval)
	reminderJob.Start(context.Background())

	log.Println("Consumers service started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down consumers service...")

	reminderJob.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := consumerService.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Consumers service stopped")
}
