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

// OfferHandler exposes scholarship offer endpoints.
type OfferHandler struct {
	service *services.OfferService
}

// NewOfferHandler constructs an OfferHandler.
func NewOfferHandler(service *services.OfferService) (*OfferHandler, error) {
	if service == nil {
		return nil, errors.New("OFFER_HANDLER_INVALID", "offer service is required", http.StatusInternalServerError)
	}
	return &OfferHandler{service: service}, nil
}

type createOfferRequest struct {
	SchoolID   string     `json:"school_id" validate:"required"`
	Type       string     `json:"type" validate:"max=64"`
	Amount     float64    `json:"amount" validate:"omitempty,min=0"`
	ReceivedAt *time.Time `json:"received_at"`
	Deadline   *time.Time `json:"deadline"`
	Notes      string     `json:"notes"`
}

type updateOfferStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=received accepted declined"`
}

// List returns the athlete's offers.
func (h *OfferHandler) List(c *gin.Context) {
	items, err := h.service.List(requestContext(c), athleteScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Create records a received offer.
func (h *OfferHandler) Create(c *gin.Context) {
	var req createOfferRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.CreateOfferInput{
		SchoolID: req.SchoolID,
		Type:     req.Type,
		Amount:   req.Amount,
		Deadline: req.Deadline,
		Notes:    req.Notes,
	}
	if req.ReceivedAt != nil {
		input.ReceivedAt = *req.ReceivedAt
	}

	offer, err := h.service.Create(requestContext(c), athleteScope(c), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, offer)
}

// UpdateStatus records the athlete's decision on an offer.
func (h *OfferHandler) UpdateStatus(c *gin.Context) {
	var req updateOfferStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}

	offer, err := h.service.UpdateStatus(
		requestContext(c),
		athleteScope(c),
		strings.TrimSpace(c.Param("id")),
		models.OfferStatus(req.Status),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, offer)
}
