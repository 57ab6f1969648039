package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"confreg/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateTeam - POST /api/teams
func (h *Handlers) CreateTeam(c *gin.Context) {
	var req models.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	response, err := h.services.Teams.Create(c.Request.Context(), userID, &req)
	if err != nil {
		slog.Error("Failed to create team", "error", err, "name", req.Name)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// AddTeamMember - POST /api/teams/members
func (h *Handlers) AddTeamMember(c *gin.Context) {
	var req models.AddTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Teams.AddMember(c.Request.Context(), userID, &req); err != nil {
		slog.Error("Failed to add team member", "error", err, "team_id", req.TeamID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// RemoveTeamMember - DELETE /api/teams/:teamId/members/:userId
func (h *Handlers) RemoveTeamMember(c *gin.Context) {
	teamID, err := strconv.ParseInt(c.Param("teamId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid team id"})
		return
	}
	memberID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	userID, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.services.Teams.RemoveMember(c.Request.Context(), userID, teamID, memberID); err != nil {
		slog.Error("Failed to remove team member", "error", err, "team_id", teamID)
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
