package suggestions

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/pkg/logger"
	"github.com/tylerquinn/scoutline/pkg/metrics"
)

// DefaultSurfaceLimit bounds how many suggestions become visible per cycle so
// a returning athlete is not flooded with new items.
const DefaultSurfaceLimit = 3

// Surfacer flips pending suggestions to surfaced in staggered batches.
type Surfacer struct {
	db    *gorm.DB
	limit int
	now   func() time.Time
	log   *zap.Logger
}

// SurfacerOption customises a Surfacer.
type SurfacerOption func(*Surfacer)

// WithSurfaceLimit overrides the per-cycle surfacing limit.
func WithSurfaceLimit(limit int) SurfacerOption {
	return func(s *Surfacer) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithSurfacerClock overrides the clock, primarily for tests.
func WithSurfacerClock(now func() time.Time) SurfacerOption {
	return func(s *Surfacer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSurfacer constructs a Surfacer with the default limit of 3.
func NewSurfacer(db *gorm.DB, opts ...SurfacerOption) *Surfacer {
	s := &Surfacer{
		db:    db,
		limit: DefaultSurfaceLimit,
		now:   time.Now,
		log:   logger.WithModule("suggestions.surfacer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SurfacePending selects up to the configured limit of pending suggestions
// for the athlete, highest urgency first and oldest first within a tier, and
// marks them surfaced in one guarded batch update. The update re-checks
// pending_surface so two concurrent calls cannot claim the same row twice.
// Surfacing is best-effort: any store failure logs a warning and returns 0.
func (s *Surfacer) SurfacePending(ctx context.Context, athleteID string) int {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("athlete_id = ? AND pending_surface = ?", athleteID, true).
		Order(urgencyOrderSQL + ", created_at ASC").
		Limit(s.limit).
		Pluck("id", &ids).Error
	if err != nil {
		s.log.Warn("pending selection failed", zap.String("athlete_id", athleteID), zap.Error(err))
		return 0
	}

	if len(ids) == 0 {
		return 0
	}

	result := s.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("id IN ? AND pending_surface = ?", ids, true).
		Updates(map[string]any{
			"pending_surface": false,
			"surfaced_at":     s.now().UTC(),
		})
	if result.Error != nil {
		s.log.Warn("surfacing update failed", zap.String("athlete_id", athleteID), zap.Error(result.Error))
		return 0
	}

	surfaced := int(result.RowsAffected)
	if surfaced > 0 {
		metrics.SuggestionsSurfaced.Add(float64(surfaced))
	}
	return surfaced
}
