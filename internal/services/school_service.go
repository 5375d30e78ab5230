package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
)

// CreateSchoolInput defines attributes for tracking a new school.
type CreateSchoolInput struct {
	Name     string
	Division string
	City     string
	State    string
	Status   models.SchoolStatus
	Notes    string
}

// UpdateSchoolInput carries optional field updates; nil means unchanged.
type UpdateSchoolInput struct {
	Name     *string
	Division *string
	City     *string
	State    *string
	Status   *models.SchoolStatus
	Notes    *string
}

// CreateCoachInput defines attributes for a coach contact.
type CreateCoachInput struct {
	SchoolID string
	Name     string
	Title    string
	Email    string
	Phone    string
}

// SchoolService manages the athlete's tracked schools and coach contacts.
type SchoolService struct {
	db *gorm.DB
}

// NewSchoolService constructs a SchoolService.
func NewSchoolService(db *gorm.DB) (*SchoolService, error) {
	if db == nil {
		return nil, errors.New("school service: db is required")
	}
	return &SchoolService{db: db}, nil
}

// List returns the athlete's schools with coaches preloaded, newest first.
func (s *SchoolService) List(ctx context.Context, athleteID string) ([]models.School, error) {
	var rows []models.School
	if err := s.db.WithContext(ctx).
		Preload("Coaches").
		Where("athlete_id = ?", athleteID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("school service: list: %w", err)
	}
	return rows, nil
}

// Get loads one school owned by the athlete.
func (s *SchoolService) Get(ctx context.Context, athleteID, schoolID string) (*models.School, error) {
	var school models.School
	if err := s.db.WithContext(ctx).
		Preload("Coaches").
		Where("id = ? AND athlete_id = ?", schoolID, athleteID).
		First(&school).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("school service: get: %w", err)
	}
	return &school, nil
}

// Create starts tracking a school for the athlete.
func (s *SchoolService) Create(ctx context.Context, athleteID string, input CreateSchoolInput) (*models.School, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("school name is required")
	}

	status := input.Status
	if status == "" {
		status = models.SchoolInterested
	}

	school := models.School{
		AthleteID: athleteID,
		Name:      name,
		Division:  strings.TrimSpace(input.Division),
		City:      strings.TrimSpace(input.City),
		State:     strings.TrimSpace(input.State),
		Status:    status,
		Notes:     input.Notes,
	}
	if err := s.db.WithContext(ctx).Create(&school).Error; err != nil {
		return nil, fmt.Errorf("school service: create: %w", err)
	}
	return &school, nil
}

// Update applies partial changes to a school owned by the athlete.
func (s *SchoolService) Update(ctx context.Context, athleteID, schoolID string, input UpdateSchoolInput) (*models.School, error) {
	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, apperrors.NewBadRequest("school name cannot be empty")
		}
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Division != nil {
		updates["division"] = strings.TrimSpace(*input.Division)
	}
	if input.City != nil {
		updates["city"] = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		updates["state"] = strings.TrimSpace(*input.State)
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		result := s.db.WithContext(ctx).
			Model(&models.School{}).
			Where("id = ? AND athlete_id = ?", schoolID, athleteID).
			Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("school service: update: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.ErrNotFound
		}
	}

	return s.Get(ctx, athleteID, schoolID)
}

// Delete removes a school and its coaches.
func (s *SchoolService) Delete(ctx context.Context, athleteID, schoolID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND athlete_id = ?", schoolID, athleteID).Delete(&models.School{})
		if result.Error != nil {
			return fmt.Errorf("school service: delete: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}
		if err := tx.Where("school_id = ?", schoolID).Delete(&models.Coach{}).Error; err != nil {
			return fmt.Errorf("school service: delete coaches: %w", err)
		}
		return nil
	})
}

// AddCoach attaches a coach contact to one of the athlete's schools.
func (s *SchoolService) AddCoach(ctx context.Context, athleteID string, input CreateCoachInput) (*models.Coach, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewBadRequest("coach name is required")
	}

	// Ownership check before the insert; coaches inherit the school's tenant.
	if _, err := s.Get(ctx, athleteID, input.SchoolID); err != nil {
		return nil, err
	}

	coach := models.Coach{
		SchoolID:  input.SchoolID,
		AthleteID: athleteID,
		Name:      strings.TrimSpace(input.Name),
		Title:     strings.TrimSpace(input.Title),
		Email:     strings.TrimSpace(input.Email),
		Phone:     strings.TrimSpace(input.Phone),
	}
	if err := s.db.WithContext(ctx).Create(&coach).Error; err != nil {
		return nil, fmt.Errorf("school service: add coach: %w", err)
	}
	return &coach, nil
}

// RemoveCoach deletes a coach contact owned by the athlete.
func (s *SchoolService) RemoveCoach(ctx context.Context, athleteID, coachID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND athlete_id = ?", coachID, athleteID).
		Delete(&models.Coach{})
	if result.Error != nil {
		return fmt.Errorf("school service: remove coach: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
