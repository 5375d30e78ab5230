package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/suggestions"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/logger"
)

// LogInteractionInput defines a touchpoint to record.
type LogInteractionInput struct {
	SchoolID   string
	CoachID    string
	Channel    models.InteractionChannel
	OccurredAt time.Time
	Notes      string
}

// InteractionService records touchpoints and feeds them into suggestion
// re-evaluation.
type InteractionService struct {
	db         *gorm.DB
	dispatcher *suggestions.Dispatcher
	log        *zap.Logger
}

// NewInteractionService constructs an InteractionService.
func NewInteractionService(db *gorm.DB, dispatcher *suggestions.Dispatcher) (*InteractionService, error) {
	if db == nil {
		return nil, errors.New("interaction service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("interaction service: dispatcher is required")
	}
	return &InteractionService{
		db:         db,
		dispatcher: dispatcher,
		log:        logger.WithModule("interactions"),
	}, nil
}

// List returns the athlete's interactions, optionally filtered to a school,
// most recent first.
func (s *InteractionService) List(ctx context.Context, athleteID, schoolID string) ([]models.Interaction, error) {
	query := s.db.WithContext(ctx).Where("athlete_id = ?", athleteID)
	if schoolID != "" {
		query = query.Where("school_id = ?", schoolID)
	}

	var rows []models.Interaction
	if err := query.Order("occurred_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("interaction service: list: %w", err)
	}
	return rows, nil
}

// Log records a touchpoint and re-evaluates suggestions with reason
// interaction_logged. Re-evaluation is best-effort; the interaction is
// persisted regardless.
func (s *InteractionService) Log(ctx context.Context, athleteID string, input LogInteractionInput) (*models.Interaction, error) {
	if input.SchoolID == "" {
		return nil, apperrors.NewBadRequest("school id is required")
	}
	if input.Channel == "" {
		return nil, apperrors.NewBadRequest("channel is required")
	}

	// The school must belong to the caller.
	var owned int64
	if err := s.db.WithContext(ctx).
		Model(&models.School{}).
		Where("id = ? AND athlete_id = ?", input.SchoolID, athleteID).
		Count(&owned).Error; err != nil {
		return nil, fmt.Errorf("interaction service: ownership check: %w", err)
	}
	if owned == 0 {
		return nil, apperrors.ErrNotFound
	}

	occurredAt := input.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	interaction := models.Interaction{
		AthleteID:  athleteID,
		SchoolID:   input.SchoolID,
		Channel:    input.Channel,
		OccurredAt: occurredAt,
		Notes:      input.Notes,
	}
	if input.CoachID != "" {
		interaction.CoachID = &input.CoachID
	}

	if err := s.db.WithContext(ctx).Create(&interaction).Error; err != nil {
		return nil, fmt.Errorf("interaction service: create: %w", err)
	}

	if _, err := s.dispatcher.Dispatch(ctx, suggestions.EvaluateInput{
		AthleteID:           athleteID,
		Reason:              suggestions.ReasonInteractionLogged,
		InteractionSchoolID: input.SchoolID,
		InteractionCoachID:  input.CoachID,
	}); err != nil {
		s.log.Warn("post-interaction re-evaluation failed",
			zap.String("athlete_id", athleteID),
			zap.Error(err),
		)
	}

	return &interaction, nil
}

// Delete removes an interaction owned by the athlete.
func (s *InteractionService) Delete(ctx context.Context, athleteID, interactionID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND athlete_id = ?", interactionID, athleteID).
		Delete(&models.Interaction{})
	if result.Error != nil {
		return fmt.Errorf("interaction service: delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
