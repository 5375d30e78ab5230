package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/services"
	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// SchoolHandler exposes school and coach endpoints.
type SchoolHandler struct {
	service *services.SchoolService
}

// NewSchoolHandler constructs a SchoolHandler.
func NewSchoolHandler(service *services.SchoolService) (*SchoolHandler, error) {
	if service == nil {
		return nil, errors.New("SCHOOL_HANDLER_INVALID", "school service is required", http.StatusInternalServerError)
	}
	return &SchoolHandler{service: service}, nil
}

type createSchoolRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Division string `json:"division" validate:"max=64"`
	City     string `json:"city" validate:"max=128"`
	State    string `json:"state" validate:"max=64"`
	Status   string `json:"status" validate:"omitempty,oneof=interested contacted visiting offered committed"`
	Notes    string `json:"notes"`
}

type updateSchoolRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Division *string `json:"division" validate:"omitempty,max=64"`
	City     *string `json:"city" validate:"omitempty,max=128"`
	State    *string `json:"state" validate:"omitempty,max=64"`
	Status   *string `json:"status" validate:"omitempty,oneof=interested contacted visiting offered committed"`
	Notes    *string `json:"notes"`
}

type createCoachRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Title string `json:"title" validate:"max=128"`
	Email string `json:"email" validate:"omitempty,email"`
	Phone string `json:"phone" validate:"max=32"`
}

// List returns the athlete's tracked schools.
func (h *SchoolHandler) List(c *gin.Context) {
	items, err := h.service.List(requestContext(c), athleteScope(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}

// Get returns one tracked school.
func (h *SchoolHandler) Get(c *gin.Context) {
	school, err := h.service.Get(requestContext(c), athleteScope(c), strings.TrimSpace(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, school)
}

// Create starts tracking a school.
func (h *SchoolHandler) Create(c *gin.Context) {
	var req createSchoolRequest
	if !bindAndValidate(c, &req) {
		return
	}

	school, err := h.service.Create(requestContext(c), athleteScope(c), services.CreateSchoolInput{
		Name:     req.Name,
		Division: req.Division,
		City:     req.City,
		State:    req.State,
		Status:   models.SchoolStatus(req.Status),
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, school)
}

// Update applies partial changes to a school.
func (h *SchoolHandler) Update(c *gin.Context) {
	var req updateSchoolRequest
	if !bindAndValidate(c, &req) {
		return
	}

	input := services.UpdateSchoolInput{
		Name:     req.Name,
		Division: req.Division,
		City:     req.City,
		State:    req.State,
		Notes:    req.Notes,
	}
	if req.Status != nil {
		status := models.SchoolStatus(*req.Status)
		input.Status = &status
	}

	school, err := h.service.Update(requestContext(c), athleteScope(c), strings.TrimSpace(c.Param("id")), input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, school)
}

// Delete stops tracking a school.
func (h *SchoolHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(requestContext(c), athleteScope(c), strings.TrimSpace(c.Param("id"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// AddCoach attaches a coach contact to a school.
func (h *SchoolHandler) AddCoach(c *gin.Context) {
	var req createCoachRequest
	if !bindAndValidate(c, &req) {
		return
	}

	coach, err := h.service.AddCoach(requestContext(c), athleteScope(c), services.CreateCoachInput{
		SchoolID: strings.TrimSpace(c.Param("id")),
		Name:     req.Name,
		Title:    req.Title,
		Email:    req.Email,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, coach)
}

// RemoveCoach deletes a coach contact.
func (h *SchoolHandler) RemoveCoach(c *gin.Context) {
	if err := h.service.RemoveCoach(requestContext(c), athleteScope(c), strings.TrimSpace(c.Param("coachId"))); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
