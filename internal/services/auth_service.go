package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/auth"
	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/suggestions"
	"github.com/tylerquinn/scoutline/pkg/crypto"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/logger"
	"github.com/tylerquinn/scoutline/pkg/metrics"
)

// RegisterInput defines the attributes accepted at signup.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      models.Role

	Sport          string
	Position       string
	GraduationYear int
	GPA            float64
}

// AuthResult pairs the authenticated user with an access token.
type AuthResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// AuthService handles signup, login, and identity lookups.
type AuthService struct {
	db         *gorm.DB
	jwt        *auth.JWTService
	dispatcher *suggestions.Dispatcher
	now        func() time.Time
	log        *zap.Logger
}

// NewAuthService constructs an AuthService. The dispatcher may be nil when
// profile changes should not feed suggestion re-evaluation.
func NewAuthService(db *gorm.DB, jwtService *auth.JWTService, dispatcher *suggestions.Dispatcher) (*AuthService, error) {
	if db == nil {
		return nil, errors.New("auth service: db is required")
	}
	if jwtService == nil {
		return nil, errors.New("auth service: jwt service is required")
	}
	return &AuthService{
		db:         db,
		jwt:        jwtService,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        logger.WithModule("auth"),
	}, nil
}

// Register provisions a new account with a hashed password and issues a token.
// Only athlete and parent roles may self-register.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, apperrors.NewBadRequest("email is required")
	}
	if len(input.Password) < 8 {
		return nil, apperrors.NewBadRequest("password must be at least 8 characters")
	}

	role := input.Role
	if role == "" {
		role = models.RoleAthlete
	}
	if role != models.RoleAthlete && role != models.RoleParent {
		return nil, apperrors.NewBadRequest("role must be athlete or parent")
	}

	var existing int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", email).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("auth service: email check: %w", err)
	}
	if existing > 0 {
		return nil, apperrors.NewBadRequest("email is already registered")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: hash password: %w", err)
	}

	user := models.User{
		Email:     email,
		Password:  hash,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Role:      role,
		IsActive:  true,
	}
	if role == models.RoleAthlete {
		user.Sport = strings.TrimSpace(input.Sport)
		user.Position = strings.TrimSpace(input.Position)
		user.GraduationYear = input.GraduationYear
		user.GPA = input.GPA
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("auth service: create user: %w", err)
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	return s.issue(&user)
}

// Login verifies credentials and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}

	if !user.IsActive || !crypto.VerifyPassword(user.Password, password) {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		return nil, apperrors.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.db.WithContext(ctx).Model(&user).Update("last_login_at", now).Error; err != nil {
		return nil, fmt.Errorf("auth service: record login: %w", err)
	}
	user.LastLoginAt = &now

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	return s.issue(&user)
}

// Me returns the account behind an authenticated user ID.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("auth service: load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies athlete profile changes. Changes to fields that feed
// suggestion rules trigger a best-effort profile_change re-evaluation.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, updates map[string]any) (*models.User, error) {
	allowed := map[string]struct{}{
		"first_name": {}, "last_name": {}, "sport": {}, "position": {},
		"graduation_year": {}, "gpa": {},
	}
	filtered := map[string]any{}
	for key, value := range updates {
		if _, ok := allowed[key]; ok {
			filtered[key] = value
		}
	}
	if len(filtered) == 0 {
		return nil, apperrors.NewBadRequest("no updatable fields supplied")
	}

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(filtered)
	if result.Error != nil {
		return nil, fmt.Errorf("auth service: update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil && user.Role == models.RoleAthlete && touchesRuleFields(filtered) {
		if _, err := s.dispatcher.Dispatch(ctx, suggestions.EvaluateInput{
			AthleteID: userID,
			Reason:    suggestions.ReasonProfileChange,
		}); err != nil {
			s.log.Warn("post-profile re-evaluation failed", zap.String("athlete_id", userID), zap.Error(err))
		}
	}

	return user, nil
}

// touchesRuleFields reports whether any updated field feeds the completeness
// rule, making a re-evaluation worthwhile.
func touchesRuleFields(updates map[string]any) bool {
	for _, key := range []string{"sport", "position", "graduation_year", "gpa"} {
		if _, ok := updates[key]; ok {
			return true
		}
	}
	return false
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.jwt.GenerateAccessToken(auth.AccessTokenInput{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
