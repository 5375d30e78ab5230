package suggestions

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/models"
)

// Suggestion types produced by the default rule set.
const (
	TypeContactSchool   = "contact_school"
	TypeOfferDeadline   = "offer_deadline"
	TypeCompleteProfile = "complete_profile"
)

const (
	// noContactAfter is how long a school may go without a logged interaction
	// before a follow-up nudge is generated.
	noContactAfter = 21 * 24 * time.Hour

	// deadlineWindow is how far ahead an offer deadline triggers a reminder.
	deadlineWindow = 7 * 24 * time.Hour
)

// EvaluateInput carries the dispatch context into rule evaluation.
type EvaluateInput struct {
	AthleteID string
	Reason    TriggerReason

	// Optional hints set when Reason is interaction_logged.
	InteractionSchoolID string
	InteractionCoachID  string
}

// RuleEvaluator inspects athlete state and produces or updates suggestion
// rows. Implementations are a pluggable policy set; the dispatcher only
// depends on this interface.
type RuleEvaluator interface {
	Evaluate(ctx context.Context, input EvaluateInput) (int, error)
}

// DefaultRules is the built-in policy set: dismissal reappearance, follow-up
// nudges for quiet schools, offer deadline reminders, and a profile
// completeness prompt.
type DefaultRules struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDefaultRules constructs the built-in rule set.
func NewDefaultRules(db *gorm.DB, now func() time.Time) *DefaultRules {
	if now == nil {
		now = time.Now
	}
	return &DefaultRules{db: db, now: now}
}

// Evaluate runs every rule for the athlete and returns the number of
// suggestion rows created or resurfaced.
func (r *DefaultRules) Evaluate(ctx context.Context, input EvaluateInput) (int, error) {
	total := 0

	n, err := r.reappearDismissed(ctx, input.AthleteID)
	if err != nil {
		return total, err
	}
	total += n

	n, err = r.contactNudges(ctx, input.AthleteID)
	if err != nil {
		return total, err
	}
	total += n

	n, err = r.offerDeadlines(ctx, input.AthleteID)
	if err != nil {
		return total, err
	}
	total += n

	n, err = r.profileCompleteness(ctx, input.AthleteID)
	if err != nil {
		return total, err
	}
	total += n

	return total, nil
}

// reappearDismissed resurfaces dismissed suggestions whose cool-off has
// elapsed. The existing row is mutated: urgency escalates one level, the
// reappeared flag becomes a one-shot gate against further resurfacing, and
// the row re-enters the pending queue. dismissed_at is kept for audit.
func (r *DefaultRules) reappearDismissed(ctx context.Context, athleteID string) (int, error) {
	var dismissed []models.Suggestion
	if err := r.db.WithContext(ctx).
		Where("athlete_id = ? AND dismissed = ? AND completed = ? AND reappeared = ?", athleteID, true, false, false).
		Find(&dismissed).Error; err != nil {
		return 0, fmt.Errorf("rules: load dismissed: %w", err)
	}

	now := r.now()
	count := 0
	for _, s := range dismissed {
		if !EligibleToReappear(s, now) {
			continue
		}

		result := r.db.WithContext(ctx).
			Model(&models.Suggestion{}).
			Where("id = ? AND dismissed = ? AND completed = ?", s.ID, true, false).
			Updates(map[string]any{
				"dismissed":       false,
				"reappeared":      true,
				"urgency":         Escalate(s.Urgency),
				"pending_surface": true,
				"surfaced_at":     nil,
			})
		if result.Error != nil {
			return count, fmt.Errorf("rules: reappear suggestion %s: %w", s.ID, result.Error)
		}
		count += int(result.RowsAffected)
	}

	return count, nil
}

// contactNudges creates a follow-up suggestion for each active school with no
// interaction logged in the last three weeks.
func (r *DefaultRules) contactNudges(ctx context.Context, athleteID string) (int, error) {
	var schools []models.School
	if err := r.db.WithContext(ctx).
		Where("athlete_id = ? AND status IN ?", athleteID,
			[]models.SchoolStatus{models.SchoolInterested, models.SchoolContacted, models.SchoolVisiting}).
		Find(&schools).Error; err != nil {
		return 0, fmt.Errorf("rules: load schools: %w", err)
	}

	cutoff := r.now().Add(-noContactAfter)
	count := 0
	for _, school := range schools {
		var recent int64
		if err := r.db.WithContext(ctx).
			Model(&models.Interaction{}).
			Where("athlete_id = ? AND school_id = ? AND occurred_at > ?", athleteID, school.ID, cutoff).
			Count(&recent).Error; err != nil {
			return count, fmt.Errorf("rules: count interactions: %w", err)
		}
		if recent > 0 {
			continue
		}

		created, err := r.createIfAbsent(ctx, models.Suggestion{
			AthleteID: athleteID,
			SchoolID:  &school.ID,
			Type:      TypeContactSchool,
			Title:     fmt.Sprintf("Reach out to %s", school.Name),
			Body:      "It has been a while since your last contact with this program. A quick check-in keeps you on the coach's radar.",
			Urgency:   models.UrgencyMedium,
			Location:  models.LocationSchoolDetail,
		})
		if err != nil {
			return count, err
		}
		if created {
			count++
		}
	}

	return count, nil
}

// offerDeadlines creates a high-urgency reminder for offers whose deadline is
// inside the reminder window and still undecided.
func (r *DefaultRules) offerDeadlines(ctx context.Context, athleteID string) (int, error) {
	now := r.now()
	var offers []models.Offer
	if err := r.db.WithContext(ctx).
		Where("athlete_id = ? AND status = ? AND deadline IS NOT NULL AND deadline > ? AND deadline <= ?",
			athleteID, models.OfferReceived, now, now.Add(deadlineWindow)).
		Find(&offers).Error; err != nil {
		return 0, fmt.Errorf("rules: load offers: %w", err)
	}

	count := 0
	for _, offer := range offers {
		created, err := r.createIfAbsent(ctx, models.Suggestion{
			AthleteID: athleteID,
			SchoolID:  &offer.SchoolID,
			Type:      TypeOfferDeadline,
			Title:     "Offer deadline approaching",
			Body:      "An offer deadline is less than a week away. Decide or ask the coach for an extension before it lapses.",
			Urgency:   models.UrgencyHigh,
			Location:  models.LocationDashboard,
		})
		if err != nil {
			return count, err
		}
		if created {
			count++
		}
	}

	return count, nil
}

// profileCompleteness prompts once for missing recruiting profile basics.
func (r *DefaultRules) profileCompleteness(ctx context.Context, athleteID string) (int, error) {
	var athlete models.User
	if err := r.db.WithContext(ctx).First(&athlete, "id = ?", athleteID).Error; err != nil {
		return 0, fmt.Errorf("rules: load athlete: %w", err)
	}

	if athlete.GPA > 0 && athlete.Position != "" && athlete.GraduationYear > 0 {
		return 0, nil
	}

	// One-shot per athlete: an all-time existence check so dismissing or
	// completing the prompt never re-creates it.
	var ever int64
	if err := r.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("athlete_id = ? AND type = ?", athleteID, TypeCompleteProfile).
		Count(&ever).Error; err != nil {
		return 0, fmt.Errorf("rules: count profile prompts: %w", err)
	}
	if ever > 0 {
		return 0, nil
	}

	suggestion := models.Suggestion{
		AthleteID:      athleteID,
		Type:           TypeCompleteProfile,
		Title:          "Complete your recruiting profile",
		Body:           "Coaches filter on GPA, position, and graduation year. Filling these in makes you show up in more searches.",
		Urgency:        models.UrgencyLow,
		Location:       models.LocationDashboard,
		PendingSurface: true,
	}
	if err := r.db.WithContext(ctx).Create(&suggestion).Error; err != nil {
		return 0, fmt.Errorf("rules: create profile prompt: %w", err)
	}
	return 1, nil
}

// createIfAbsent inserts the suggestion unless a non-completed row of the
// same type and school already exists for the athlete. Dismissed rows block
// re-creation: the 14-day cool-off in reappearDismissed is the only path back
// for a dismissed suggestion. Completed rows block nothing because the rule
// conditions that spawned them have been acted on.
func (r *DefaultRules) createIfAbsent(ctx context.Context, suggestion models.Suggestion) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Suggestion{}).
		Where("athlete_id = ? AND type = ? AND completed = ?",
			suggestion.AthleteID, suggestion.Type, false)
	if suggestion.SchoolID != nil {
		query = query.Where("school_id = ?", *suggestion.SchoolID)
	}

	var open int64
	if err := query.Count(&open).Error; err != nil {
		return false, fmt.Errorf("rules: count open suggestions: %w", err)
	}
	if open > 0 {
		return false, nil
	}

	suggestion.PendingSurface = true
	if err := r.db.WithContext(ctx).Create(&suggestion).Error; err != nil {
		return false, fmt.Errorf("rules: create suggestion: %w", err)
	}
	return true, nil
}
