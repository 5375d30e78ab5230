package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/suggestions"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/logger"
)

// SuggestionFeed is the list endpoint payload: surfaced suggestions plus how
// many are still queued behind the stagger.
type SuggestionFeed struct {
	Suggestions  []models.Suggestion `json:"suggestions"`
	PendingCount int64               `json:"pending_count"`
}

// ListSurfacedInput filters the surfaced suggestion query.
type ListSurfacedInput struct {
	AthleteID string
	Location  models.SuggestionLocation
	SchoolID  string
}

// SuggestionService translates suggestion lifecycle operations into store
// reads and writes, always scoped by athlete for tenant isolation.
type SuggestionService struct {
	db         *gorm.DB
	dispatcher *suggestions.Dispatcher
	surfacer   *suggestions.Surfacer
	now        func() time.Time
	log        *zap.Logger
}

// NewSuggestionService constructs a SuggestionService.
func NewSuggestionService(db *gorm.DB, dispatcher *suggestions.Dispatcher, surfacer *suggestions.Surfacer) (*SuggestionService, error) {
	if db == nil {
		return nil, errors.New("suggestion service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("suggestion service: dispatcher is required")
	}
	if surfacer == nil {
		return nil, errors.New("suggestion service: surfacer is required")
	}
	return &SuggestionService{
		db:         db,
		dispatcher: dispatcher,
		surfacer:   surfacer,
		now:        time.Now,
		log:        logger.WithModule("suggestions.store"),
	}, nil
}

// ListSurfaced returns the athlete's currently visible suggestions for a
// location, optionally narrowed to one school. Dismissed, completed, and
// still-pending rows are excluded.
func (s *SuggestionService) ListSurfaced(ctx context.Context, input ListSurfacedInput) ([]models.Suggestion, error) {
	athleteID := strings.TrimSpace(input.AthleteID)
	if athleteID == "" {
		return nil, errors.New("suggestion service: athlete id is required")
	}

	location := input.Location
	if location == "" {
		location = models.LocationDashboard
	}

	query := s.db.WithContext(ctx).
		Where("athlete_id = ? AND pending_surface = ? AND dismissed = ? AND completed = ?",
			athleteID, false, false, false).
		Where("location = ?", location)
	if input.SchoolID != "" {
		query = query.Where("school_id = ?", input.SchoolID)
	}

	var rows []models.Suggestion
	if err := query.
		Order("CASE urgency WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END, surfaced_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("suggestion service: list surfaced: %w", err)
	}

	return rows, nil
}

// PendingCount reports how many suggestions are queued awaiting surfacing.
func (s *SuggestionService) PendingCount(ctx context.Context, athleteID string) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("athlete_id = ? AND pending_surface = ?", athleteID, true).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("suggestion service: pending count: %w", err)
	}
	return count, nil
}

// Feed assembles the list endpoint response, running the cold-start bootstrap
// when the athlete has never had suggestions generated.
func (s *SuggestionService) Feed(ctx context.Context, input ListSurfacedInput) (*SuggestionFeed, error) {
	items, err := s.ListSurfaced(ctx, input)
	if err != nil {
		return nil, err
	}

	pending, err := s.PendingCount(ctx, input.AthleteID)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 && pending == 0 && s.bootstrapIfNew(ctx, input.AthleteID) {
		// Best effort re-read after bootstrap; an error here degrades to the
		// empty feed rather than failing the request.
		if refreshed, rerr := s.ListSurfaced(ctx, input); rerr == nil {
			items = refreshed
		}
		if recount, rerr := s.PendingCount(ctx, input.AthleteID); rerr == nil {
			pending = recount
		}
	}

	if items == nil {
		items = []models.Suggestion{}
	}
	return &SuggestionFeed{Suggestions: items, PendingCount: pending}, nil
}

// bootstrapIfNew runs an inline daily_refresh for an athlete with no
// suggestion rows at all, so the first dashboard view is not empty. The
// all-time existence check distinguishes a truly-new athlete from one who
// dismissed or completed everything; the latter must not re-trigger
// generation. Bootstrap failures are non-fatal.
func (s *SuggestionService) bootstrapIfNew(ctx context.Context, athleteID string) bool {
	var ever int64
	if err := s.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("athlete_id = ?", athleteID).
		Count(&ever).Error; err != nil {
		s.log.Warn("bootstrap existence check failed", zap.String("athlete_id", athleteID), zap.Error(err))
		return false
	}
	if ever > 0 {
		return false
	}

	if _, err := s.dispatcher.Dispatch(ctx, suggestions.EvaluateInput{
		AthleteID: athleteID,
		Reason:    suggestions.ReasonDailyRefresh,
	}); err != nil {
		s.log.Warn("bootstrap evaluation failed", zap.String("athlete_id", athleteID), zap.Error(err))
		return false
	}
	return true
}

// Dismiss marks a suggestion dismissed. The update is scoped by id and
// athlete so a caller can never touch another athlete's rows, and guarded by
// completed = false to preserve the lifecycle invariant. Zero rows affected
// surfaces as a permission rejection.
func (s *SuggestionService) Dismiss(ctx context.Context, athleteID, suggestionID string) error {
	now := s.now().UTC()
	result := s.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("id = ? AND athlete_id = ? AND completed = ?", suggestionID, athleteID, false).
		Updates(map[string]any{
			"dismissed":       true,
			"dismissed_at":    now,
			"pending_surface": false,
		})
	if result.Error != nil {
		return fmt.Errorf("suggestion service: dismiss: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrForbidden
	}
	return nil
}

// Complete marks a suggestion done. Completion is terminal: the row can never
// resurface. A previously dismissed row may still be completed; its dismissal
// flags are cleared so the invariant of at most one terminal flag holds.
func (s *SuggestionService) Complete(ctx context.Context, athleteID, suggestionID string) error {
	now := s.now().UTC()
	result := s.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("id = ? AND athlete_id = ? AND completed = ?", suggestionID, athleteID, false).
		Updates(map[string]any{
			"completed":       true,
			"completed_at":    now,
			"dismissed":       false,
			"dismissed_at":    nil,
			"pending_surface": false,
		})
	if result.Error != nil {
		return fmt.Errorf("suggestion service: complete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrForbidden
	}
	return nil
}

// TriggerUpdate re-evaluates the athlete's suggestions for the given reason.
func (s *SuggestionService) TriggerUpdate(ctx context.Context, input suggestions.EvaluateInput) (*suggestions.DispatchResult, error) {
	return s.dispatcher.Dispatch(ctx, input)
}

// SurfaceNow runs one staggered surfacing cycle and returns the refreshed
// dashboard feed.
func (s *SuggestionService) SurfaceNow(ctx context.Context, athleteID string) (*SuggestionFeed, int, error) {
	surfaced := s.surfacer.SurfacePending(ctx, athleteID)

	feed, err := s.Feed(ctx, ListSurfacedInput{
		AthleteID: athleteID,
		Location:  models.LocationDashboard,
	})
	if err != nil {
		return nil, surfaced, err
	}
	return feed, surfaced, nil
}
