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

// CreateOfferInput defines a received offer.
type CreateOfferInput struct {
	SchoolID   string
	Type       string
	Amount     float64
	ReceivedAt time.Time
	Deadline   *time.Time
	Notes      string
}

// OfferService manages scholarship offers and keeps school status and
// suggestions in step with them.
type OfferService struct {
	db         *gorm.DB
	dispatcher *suggestions.Dispatcher
	log        *zap.Logger
}

// NewOfferService constructs an OfferService.
func NewOfferService(db *gorm.DB, dispatcher *suggestions.Dispatcher) (*OfferService, error) {
	if db == nil {
		return nil, errors.New("offer service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("offer service: dispatcher is required")
	}
	return &OfferService{
		db:         db,
		dispatcher: dispatcher,
		log:        logger.WithModule("offers"),
	}, nil
}

// List returns the athlete's offers, newest first.
func (s *OfferService) List(ctx context.Context, athleteID string) ([]models.Offer, error) {
	var rows []models.Offer
	if err := s.db.WithContext(ctx).
		Where("athlete_id = ?", athleteID).
		Order("received_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("offer service: list: %w", err)
	}
	return rows, nil
}

// Create records an offer, promotes the school's status to offered, and
// re-evaluates suggestions.
func (s *OfferService) Create(ctx context.Context, athleteID string, input CreateOfferInput) (*models.Offer, error) {
	if input.SchoolID == "" {
		return nil, apperrors.NewBadRequest("school id is required")
	}

	var owned int64
	if err := s.db.WithContext(ctx).
		Model(&models.School{}).
		Where("id = ? AND athlete_id = ?", input.SchoolID, athleteID).
		Count(&owned).Error; err != nil {
		return nil, fmt.Errorf("offer service: ownership check: %w", err)
	}
	if owned == 0 {
		return nil, apperrors.ErrNotFound
	}

	receivedAt := input.ReceivedAt
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	offer := models.Offer{
		AthleteID:  athleteID,
		SchoolID:   input.SchoolID,
		Type:       input.Type,
		Amount:     input.Amount,
		Status:     models.OfferReceived,
		ReceivedAt: receivedAt,
		Deadline:   input.Deadline,
		Notes:      input.Notes,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&offer).Error; err != nil {
			return fmt.Errorf("offer service: create: %w", err)
		}
		// Receiving an offer moves the school forward unless it is already
		// further along.
		if err := tx.Model(&models.School{}).
			Where("id = ? AND athlete_id = ? AND status NOT IN ?",
				input.SchoolID, athleteID,
				[]models.SchoolStatus{models.SchoolOffered, models.SchoolCommitted}).
			Update("status", models.SchoolOffered).Error; err != nil {
			return fmt.Errorf("offer service: promote school: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.reevaluate(ctx, athleteID)
	return &offer, nil
}

// UpdateStatus records the athlete's decision on an offer.
func (s *OfferService) UpdateStatus(ctx context.Context, athleteID, offerID string, status models.OfferStatus) (*models.Offer, error) {
	switch status {
	case models.OfferAccepted, models.OfferDeclined, models.OfferReceived:
	default:
		return nil, apperrors.NewBadRequest("invalid offer status")
	}

	result := s.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ? AND athlete_id = ?", offerID, athleteID).
		Update("status", status)
	if result.Error != nil {
		return nil, fmt.Errorf("offer service: update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrNotFound
	}

	var offer models.Offer
	if err := s.db.WithContext(ctx).
		Where("id = ? AND athlete_id = ?", offerID, athleteID).
		First(&offer).Error; err != nil {
		return nil, fmt.Errorf("offer service: reload: %w", err)
	}

	if status == models.OfferAccepted {
		if err := s.db.WithContext(ctx).Model(&models.School{}).
			Where("id = ? AND athlete_id = ?", offer.SchoolID, athleteID).
			Update("status", models.SchoolCommitted).Error; err != nil {
			s.log.Warn("school commit update failed", zap.String("offer_id", offerID), zap.Error(err))
		}
	}

	s.reevaluate(ctx, athleteID)
	return &offer, nil
}

// reevaluate runs a best-effort profile_change dispatch after offer mutations.
func (s *OfferService) reevaluate(ctx context.Context, athleteID string) {
	if _, err := s.dispatcher.Dispatch(ctx, suggestions.EvaluateInput{
		AthleteID: athleteID,
		Reason:    suggestions.ReasonProfileChange,
	}); err != nil {
		s.log.Warn("post-offer re-evaluation failed", zap.String("athlete_id", athleteID), zap.Error(err))
	}
}
