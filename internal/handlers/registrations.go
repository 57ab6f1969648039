package handlers

import (
	"log/slog"
	"net/http"

	"confreg/internal/middleware"
	"confreg/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateRegistration - POST /api/registrations
func (h *Handlers) CreateRegistration(c *gin.Context) {
	var req models.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Registrations.Create(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to create registration", "error", err, "event_id", req.EventID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ListRegistrations - GET /api/registrations
func (h *Handlers) ListRegistrations(c *gin.Context) {
	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Registrations.List(c.Request.Context(), userID)
	if err != nil {
		slog.Error("Failed to list registrations", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// CancelRegistration - PATCH /api/registrations/cancel
func (h *Handlers) CancelRegistration(c *gin.Context) {
	var req models.CancelRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Registrations.Cancel(c.Request.Context(), userID, &req); err != nil {
		slog.Error("Failed to cancel registration", "error", err, "registration_id", req.RegistrationID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// CheckIn - PATCH /api/registrations/checkIn
func (h *Handlers) CheckIn(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Registrations.CheckIn(c.Request.Context(), userID, &req); err != nil {
		slog.Error("Failed to check in registration", "error", err, "registration_id", req.RegistrationID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ConfirmFreeRegistration - PATCH /api/registrations/confirmFree
func (h *Handlers) ConfirmFreeRegistration(c *gin.Context) {
	var req models.ConfirmFreeRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Registrations.ConfirmFree(c.Request.Context(), userID, &req); err != nil {
		slog.Error("Failed to confirm free registration", "error", err, "registration_id", req.RegistrationID)
		respondError(c, err)
		return
	}

	middleware.RegistrationsConfirmed.Inc()
	c.Status(http.StatusOK)
}
