package handlers

import (
	"log/slog"
	"net/http"

	"confreg/internal/middleware"
	"confreg/internal/models"

	"github.com/gin-gonic/gin"
)

// RecordPayment - POST /api/payments
func (h *Handlers) RecordPayment(c *gin.Context) {
	var req models.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Payments.Record(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to record payment", "error", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// UpdatePaymentTarget - PATCH /api/payments/target
func (h *Handlers) UpdatePaymentTarget(c *gin.Context) {
	var req models.UpdatePaymentTargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Payments.UpdateTarget(c.Request.Context(), userID, &req); err != nil {
		slog.Error("Failed to update payment target", "error", err, "payment_id", req.PaymentID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// CompletePayment - PATCH /api/payments/complete
func (h *Handlers) CompletePayment(c *gin.Context) {
	var req models.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Payments.Complete(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to complete payment", "error", err, "payment_id", req.PaymentID)
		respondError(c, err)
		return
	}

	if response.RegistrationConfirmed {
		middleware.RegistrationsConfirmed.Inc()
	}
	c.JSON(http.StatusOK, response)
}
