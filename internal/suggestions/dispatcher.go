package suggestions

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tylerquinn/scoutline/pkg/errors"
	"github.com/tylerquinn/scoutline/pkg/logger"
	"github.com/tylerquinn/scoutline/pkg/metrics"
)

// TriggerReason identifies why a re-evaluation was requested.
type TriggerReason string

const (
	ReasonProfileChange     TriggerReason = "profile_change"
	ReasonInteractionLogged TriggerReason = "interaction_logged"
	ReasonDailyRefresh      TriggerReason = "daily_refresh"
)

// Valid reports whether the reason is one of the three allowed literals.
func (r TriggerReason) Valid() bool {
	switch r {
	case ReasonProfileChange, ReasonInteractionLogged, ReasonDailyRefresh:
		return true
	}
	return false
}

// DispatchResult reports what a single dispatch accomplished.
type DispatchResult struct {
	Evaluated int `json:"evaluated"`
	Surfaced  int `json:"surfaced"`
}

// Dispatcher is the entry point for re-evaluating an athlete's suggestions.
// It validates the trigger reason, delegates to the rule evaluator, then
// requests best-effort staggered surfacing.
type Dispatcher struct {
	rules    RuleEvaluator
	surfacer *Surfacer
	log      *zap.Logger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(rules RuleEvaluator, surfacer *Surfacer) (*Dispatcher, error) {
	if rules == nil {
		return nil, fmt.Errorf("dispatcher: rule evaluator is required")
	}
	if surfacer == nil {
		return nil, fmt.Errorf("dispatcher: surfacer is required")
	}
	return &Dispatcher{
		rules:    rules,
		surfacer: surfacer,
		log:      logger.WithModule("suggestions.dispatcher"),
	}, nil
}

// Dispatch runs rule evaluation for the athlete. An invalid reason fails
// before any store access. Rule failures propagate; the subsequent surfacing
// pass is best-effort and never fails the dispatch.
func (d *Dispatcher) Dispatch(ctx context.Context, input EvaluateInput) (*DispatchResult, error) {
	if !input.Reason.Valid() {
		metrics.SuggestionTriggers.WithLabelValues(string(input.Reason), "invalid").Inc()
		return nil, errors.ErrInvalidTriggerReason
	}
	if input.AthleteID == "" {
		return nil, errors.NewBadRequest("athlete id is required")
	}

	evaluated, err := d.rules.Evaluate(ctx, input)
	if err != nil {
		metrics.SuggestionTriggers.WithLabelValues(string(input.Reason), "error").Inc()
		return nil, fmt.Errorf("dispatcher: evaluate rules: %w", err)
	}

	surfaced := d.surfacer.SurfacePending(ctx, input.AthleteID)

	metrics.SuggestionTriggers.WithLabelValues(string(input.Reason), "ok").Inc()
	d.log.Debug("dispatched",
		zap.String("athlete_id", input.AthleteID),
		zap.String("reason", string(input.Reason)),
		zap.Int("evaluated", evaluated),
		zap.Int("surfaced", surfaced),
	)

	return &DispatchResult{Evaluated: evaluated, Surfaced: surfaced}, nil
}
