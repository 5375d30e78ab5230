package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/middleware"
	"github.com/tylerquinn/scoutline/internal/services"
	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// FamilyHandler exposes family code generation and redemption.
type FamilyHandler struct {
	service  *services.FamilyService
	resolver *middleware.CapabilityResolver
}

// NewFamilyHandler constructs a FamilyHandler.
func NewFamilyHandler(service *services.FamilyService, resolver *middleware.CapabilityResolver) (*FamilyHandler, error) {
	if service == nil {
		return nil, errors.New("FAMILY_HANDLER_INVALID", "family service is required", http.StatusInternalServerError)
	}
	return &FamilyHandler{service: service, resolver: resolver}, nil
}

type redeemCodeRequest struct {
	Code string `json:"code" validate:"required,min=8,max=16"`
}

// GenerateCode issues a new single-use code for the calling athlete.
func (h *FamilyHandler) GenerateCode(c *gin.Context) {
	link, err := h.service.GenerateCode(requestContext(c), athleteScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, link)
}

// Redeem links the calling parent account to the athlete behind the code.
func (h *FamilyHandler) Redeem(c *gin.Context) {
	var req redeemCodeRequest
	if !bindAndValidate(c, &req) {
		return
	}

	userID := currentUserID(c)
	link, err := h.service.Redeem(requestContext(c), userID, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	// The cached identity now points at the wrong (empty) athlete scope.
	if h.resolver != nil {
		h.resolver.Invalidate(userID)
	}

	response.Success(c, http.StatusOK, link)
}
