package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/services"
	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/response"
)

// AuthHandler exposes signup, login, and profile endpoints.
type AuthHandler struct {
	service *services.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(service *services.AuthService) (*AuthHandler, error) {
	if service == nil {
		return nil, errors.New("AUTH_HANDLER_INVALID", "auth service is required", http.StatusInternalServerError)
	}
	return &AuthHandler{service: service}, nil
}

type registerRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=8"`
	FirstName      string  `json:"first_name" validate:"max=100"`
	LastName       string  `json:"last_name" validate:"max=100"`
	Role           string  `json:"role" validate:"omitempty,oneof=athlete parent"`
	Sport          string  `json:"sport" validate:"max=100"`
	Position       string  `json:"position" validate:"max=100"`
	GraduationYear int     `json:"graduation_year" validate:"omitempty,min=2000,max=2100"`
	GPA            float64 `json:"gpa" validate:"omitempty,min=0,max=5"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Register creates a new athlete or parent account.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.service.Register(requestContext(c), services.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Role:           models.Role(req.Role),
		Sport:          req.Sport,
		Position:       req.Position,
		GraduationYear: req.GraduationYear,
		GPA:            req.GPA,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// Login exchanges credentials for an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.service.Login(requestContext(c), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.Me(requestContext(c), currentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

type updateProfileRequest struct {
	FirstName      *string  `json:"first_name"`
	LastName       *string  `json:"last_name"`
	Sport          *string  `json:"sport"`
	Position       *string  `json:"position"`
	GraduationYear *int     `json:"graduation_year" validate:"omitempty,min=2000,max=2100"`
	GPA            *float64 `json:"gpa" validate:"omitempty,min=0,max=5"`
}

// UpdateProfile applies partial profile changes to the calling account.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updates := map[string]any{}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Sport != nil {
		updates["sport"] = *req.Sport
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.GraduationYear != nil {
		updates["graduation_year"] = *req.GraduationYear
	}
	if req.GPA != nil {
		updates["gpa"] = *req.GPA
	}

	user, err := h.service.UpdateProfile(requestContext(c), currentUserID(c), updates)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
