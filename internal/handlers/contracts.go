package handlers

import (
	"log/slog"
	"net/http"

	"confreg/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateContract - POST /api/contracts
func (h *Handlers) CreateContract(c *gin.Context) {
	var req models.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Contracts.Create(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to create contract", "error", err, "sponsor_id", req.SponsorID)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// ActivateContract - PATCH /api/contracts/activate
func (h *Handlers) ActivateContract(c *gin.Context) {
	var req models.ActivateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Contracts.Activate(c.Request.Context(), userID, &req); err != nil {
		slog.Error("Failed to activate contract", "error", err, "contract_id", req.ContractID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
