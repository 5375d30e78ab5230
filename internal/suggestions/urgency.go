package suggestions

import "github.com/tylerquinn/scoutline/internal/models"

// Escalate returns the next urgency level in the order low, medium, high.
// High is the ceiling and escalates to itself.
func Escalate(u models.Urgency) models.Urgency {
	switch u {
	case models.UrgencyLow:
		return models.UrgencyMedium
	case models.UrgencyMedium:
		return models.UrgencyHigh
	default:
		return models.UrgencyHigh
	}
}

// Rank maps an urgency to a sortable weight; higher surfaces first.
func Rank(u models.Urgency) int {
	switch u {
	case models.UrgencyHigh:
		return 3
	case models.UrgencyMedium:
		return 2
	case models.UrgencyLow:
		return 1
	default:
		return 0
	}
}

// urgencyOrderSQL sorts high before medium before low in store queries.
const urgencyOrderSQL = "CASE urgency WHEN 'high' THEN 0 WHEN 'medium' THEN 1 WHEN 'low' THEN 2 ELSE 3 END"
