package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/services"
	"github.com/tylerquinn/scoutline/internal/suggestions"
	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// SuggestionHandler exposes the suggestion lifecycle endpoints.
type SuggestionHandler struct {
	service *services.SuggestionService
}

// NewSuggestionHandler constructs a SuggestionHandler.
func NewSuggestionHandler(service *services.SuggestionService) (*SuggestionHandler, error) {
	if service == nil {
		return nil, errors.New("SUGGESTION_HANDLER_INVALID", "suggestion service is required", http.StatusInternalServerError)
	}
	return &SuggestionHandler{service: service}, nil
}

// List returns the surfaced suggestions for the caller's athlete scope,
// bootstrapping a first batch for brand-new athletes.
func (h *SuggestionHandler) List(c *gin.Context) {
	athleteID := athleteScope(c)
	if athleteID == "" {
		// An unlinked parent has nothing to observe yet.
		response.Success(c, http.StatusOK, &services.SuggestionFeed{Suggestions: []models.Suggestion{}})
		return
	}

	feed, err := h.service.Feed(requestContext(c), services.ListSurfacedInput{
		AthleteID: athleteID,
		Location:  models.SuggestionLocation(strings.TrimSpace(c.Query("location"))),
		SchoolID:  strings.TrimSpace(c.Query("school_id")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, feed)
}

// Dismiss hides a suggestion until the re-evaluation window brings it back.
func (h *SuggestionHandler) Dismiss(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.service.Dismiss(requestContext(c), athleteScope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"dismissed": true})
}

// Complete marks a suggestion done for good.
func (h *SuggestionHandler) Complete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.service.Complete(requestContext(c), athleteScope(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"completed": true})
}

type triggerUpdateRequest struct {
	Reason   string `json:"reason" validate:"required"`
	SchoolID string `json:"school_id"`
}

// TriggerUpdate re-runs the suggestion rules for the caller's athlete.
func (h *SuggestionHandler) TriggerUpdate(c *gin.Context) {
	var req triggerUpdateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.service.TriggerUpdate(requestContext(c), suggestions.EvaluateInput{
		AthleteID:           athleteScope(c),
		Reason:              suggestions.TriggerReason(strings.TrimSpace(req.Reason)),
		InteractionSchoolID: req.SchoolID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Surface runs one staggered surfacing cycle and returns the refreshed feed.
func (h *SuggestionHandler) Surface(c *gin.Context) {
	feed, surfaced, err := h.service.SurfaceNow(requestContext(c), athleteScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"surfaced": surfaced,
		"feed":     feed,
	})
}
