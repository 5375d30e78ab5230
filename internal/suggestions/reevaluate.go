package suggestions

import (
	"time"

	"github.com/tylerquinn/scoutline/internal/models"
)

// ReappearAfterDays is how many whole days a dismissal stands before the
// suggestion becomes eligible to resurface with escalated urgency.
const ReappearAfterDays = 14

const millisPerDay = 24 * 60 * 60 * 1000

// EligibleToReappear reports whether a dismissed suggestion may resurface.
// Eligibility requires the row to be dismissed, not completed, not already
// reappeared, and dismissed at least ReappearAfterDays whole days ago. The
// day count floors the millisecond difference, so 13 days 23 hours is not
// eligible while exactly 14 days is.
func EligibleToReappear(s models.Suggestion, now time.Time) bool {
	if !s.Dismissed || s.Completed || s.Reappeared || s.DismissedAt == nil {
		return false
	}

	elapsed := now.Sub(*s.DismissedAt).Milliseconds()
	if elapsed < 0 {
		return false
	}
	return elapsed/millisPerDay >= ReappearAfterDays
}
