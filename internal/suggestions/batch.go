package suggestions

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/pkg/logger"
	"github.com/tylerquinn/scoutline/pkg/metrics"
)

// AthleteError records a single athlete's failure inside a batch run.
type AthleteError struct {
	AthleteID string `json:"athlete_id"`
	Error     string `json:"error"`
}

// BatchResult summarises a daily refresh across the athlete population.
type BatchResult struct {
	Total                int            `json:"total"`
	Updated              int            `json:"updated"`
	Failed               int            `json:"failed"`
	SuggestionsGenerated int            `json:"suggestions_generated"`
	Surfaced             int            `json:"surfaced"`
	Errors               []AthleteError `json:"errors,omitempty"`
	Timestamp            time.Time      `json:"timestamp"`
}

// DailyBatch runs the daily_refresh evaluation for every active athlete.
// Athletes are processed one at a time to bound load on the shared store, and
// one athlete's failure never aborts the rest of the batch.
type DailyBatch struct {
	db         *gorm.DB
	dispatcher *Dispatcher
	now        func() time.Time
	log        *zap.Logger
}

// NewDailyBatch constructs a DailyBatch.
func NewDailyBatch(db *gorm.DB, dispatcher *Dispatcher) (*DailyBatch, error) {
	if db == nil {
		return nil, fmt.Errorf("daily batch: db is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("daily batch: dispatcher is required")
	}
	return &DailyBatch{
		db:         db,
		dispatcher: dispatcher,
		now:        time.Now,
		log:        logger.WithModule("suggestions.batch"),
	}, nil
}

// Run iterates all active athletes sequentially, dispatching a daily_refresh
// for each. Per-athlete errors are recorded in the result and the batch
// continues; only a failure to list the population aborts the run.
func (b *DailyBatch) Run(ctx context.Context) (*BatchResult, error) {
	var athleteIDs []string
	if err := b.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ? AND is_active = ?", models.RoleAthlete, true).
		Order("created_at ASC").
		Pluck("id", &athleteIDs).Error; err != nil {
		metrics.CronRuns.WithLabelValues("failed").Inc()
		return nil, fmt.Errorf("daily batch: list athletes: %w", err)
	}

	result := &BatchResult{
		Total:     len(athleteIDs),
		Timestamp: b.now().UTC(),
	}

	var errs error
	for _, athleteID := range athleteIDs {
		res, err := b.dispatcher.Dispatch(ctx, EvaluateInput{
			AthleteID: athleteID,
			Reason:    ReasonDailyRefresh,
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, AthleteError{
				AthleteID: athleteID,
				Error:     err.Error(),
			})
			errs = multierr.Append(errs, err)
			continue
		}

		result.Updated++
		result.SuggestionsGenerated += res.Evaluated
		result.Surfaced += res.Surfaced
	}

	switch {
	case result.Failed == 0:
		metrics.CronRuns.WithLabelValues("ok").Inc()
	case result.Updated > 0:
		metrics.CronRuns.WithLabelValues("partial").Inc()
	default:
		metrics.CronRuns.WithLabelValues("failed").Inc()
	}

	if errs != nil {
		b.log.Warn("daily refresh completed with failures",
			zap.Int("total", result.Total),
			zap.Int("failed", result.Failed),
			zap.Error(errs),
		)
	} else {
		b.log.Info("daily refresh completed",
			zap.Int("total", result.Total),
			zap.Int("generated", result.SuggestionsGenerated),
			zap.Int("surfaced", result.Surfaced),
		)
	}

	return result, nil
}
