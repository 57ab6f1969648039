package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"confreg/internal/middleware"
	"confreg/internal/models"

	"github.com/gin-gonic/gin"
)

// ListAccommodations - GET /api/accommodations
func (h *Handlers) ListAccommodations(c *gin.Context) {
	response, err := h.services.Accommodations.ListAccommodations(c.Request.Context())
	if err != nil {
		slog.Error("Failed to list accommodations", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// RequestAccommodation - POST /api/accommodations/requests
func (h *Handlers) RequestAccommodation(c *gin.Context) {
	var req models.RequestAccommodationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Accommodations.Request(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to create accommodation request", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ProcessAccommodationRequest - PATCH /api/accommodations/requests/process
func (h *Handlers) ProcessAccommodationRequest(c *gin.Context) {
	var req models.ProcessAccommodationRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Accommodations.Process(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to process accommodation request", "error", err, "request_id", req.RequestID)
		respondError(c, err)
		return
	}

	middleware.AllocationDecisions.WithLabelValues(strings.ToLower(response.Status)).Inc()
	c.JSON(http.StatusOK, response)
}

// CancelAccommodationRequest - PATCH /api/accommodations/requests/:id/cancel
func (h *Handlers) CancelAccommodationRequest(c *gin.Context) {
	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request id"})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Accommodations.Cancel(c.Request.Context(), userID, requestID); err != nil {
		slog.Error("Failed to cancel accommodation request", "error", err, "request_id", requestID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
