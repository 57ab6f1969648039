package api

import (
	"log"
	"net/http"

	"confreg/internal/cache"
	"confreg/internal/config"
	"confreg/internal/database"
	"confreg/internal/handlers"
	"confreg/internal/identity"
	"confreg/internal/messaging"
	"confreg/internal/middleware"
	"confreg/internal/repository"
	"confreg/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server wires the engine's HTTP surface.
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	services *service.Services
	repos    *repository.Repositories
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}

	// Permission cache is optional; without it every privilege check
	// resolves from the database.
	valkeyClient, err := cache.NewValkeyClient(cfg.Valkey)
	if err != nil {
		log.Printf("Valkey unavailable, privilege caching disabled: %v", err)
		valkeyClient = nil
	}

	repos := repository.NewRepositories(db)

	var permCache identity.PermissionCache
	if valkeyClient != nil {
		permCache = valkeyClient
	}
	registry := identity.NewRegistry(repos.Users, permCache)

	services := service.NewServices(repos, registry, natsClient)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		nats:     natsClient,
		valkey:   valkeyClient,
		services: services,
		repos:    repos,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	api := s.router.Group("/api")
	api.Use(middleware.BasicAuth(s.repos.Users))
	{
		registrations := api.Group("/registrations")
		{
			registrations.POST("", h.CreateRegistration)
			registrations.GET("", h.ListRegistrations)
			registrations.PATCH("/cancel", h.CancelRegistration)
			registrations.PATCH("/checkIn", h.CheckIn)
			registrations.PATCH("/confirmFree", h.ConfirmFreeRegistration)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", h.RecordPayment)
			payments.PATCH("/target", h.UpdatePaymentTarget)
			payments.PATCH("/complete", h.CompletePayment)
		}

		teams := api.Group("/teams")
		{
			teams.POST("", h.CreateTeam)
			teams.POST("/members", h.AddTeamMember)
			teams.DELETE("/:teamId/members/:userId", h.RemoveTeamMember)
		}

		contracts := api.Group("/contracts")
		{
			contracts.POST("", h.CreateContract)
			contracts.PATCH("/activate", h.ActivateContract)
		}

		accommodations := api.Group("/accommodations")
		{
			accommodations.GET("", h.ListAccommodations)
			accommodations.POST("/requests", h.RequestAccommodation)
			accommodations.PATCH("/requests/process", h.ProcessAccommodationRequest)
			accommodations.PATCH("/requests/:id/cancel", h.CancelAccommodationRequest)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	dbHealth := s.db.HealthCheck(c.Request.Context())
	status := http.StatusOK
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbHealth.Status,
		"service":  "confreg-api",
		"database": dbHealth,
	})
}

// GetRouter exposes the router for tests and the HTTP server.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes external connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Printf("Error closing NATS connection: %v", err)
		}
	}

	if s.valkey != nil {
		s.valkey.Close()
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
			return err
		}
	}

	return nil
}
