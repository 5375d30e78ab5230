package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/services"
	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// InteractionHandler exposes interaction logging endpoints.
type InteractionHandler struct {
	service *services.InteractionService
}

// NewInteractionHandler constructs an InteractionHandler.
func NewInteractionHandler(service *services.InteractionService) (*InteractionHandler, error) {
	if service == nil {
		return nil, errors.New("INTERACTION_HANDLER_INVALID", "interaction service is required", http.StatusInternalServerError)
	}
	return &InteractionHandler{service: service}, nil
}

type logInteractionRequest struct {
	SchoolID   string     `json:"school_id" validate:"required"`
	CoachID    string     `json:"coach_id"`
	Channel    string     `json:"channel" validate:"required,oneof=call email text visit camp"`
	OccurredAt *time.Time `json:"occurred_at"`
	Notes      string     `json:"notes"`
}

// List returns the athlete's interactions, optionally filtered to a school.
func (h *InteractionHandler) List(c *gin.Context) {
	items, err := h.service.List(requestContext(c), athleteScope(c), strings.TrimSpace(c.Query("school_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Log records a touchpoint with a school.
func (h *InteractionHandler) Log(c *gin.Context) {
	var req logInteractionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.LogInteractionInput{
		SchoolID: req.SchoolID,
		CoachID:  req.CoachID,
		Channel:  models.InteractionChannel(req.Channel),
		Notes:    req.Notes,
	}
	if req.OccurredAt != nil {
		input.OccurredAt = *req.OccurredAt
	}

	interaction, err := h.service.Log(requestContext(c), athleteScope(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, interaction)
}

// Delete removes an interaction.
func (h *InteractionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), athleteScope(c), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
