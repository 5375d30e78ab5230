package suggestions

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tylerquinn/scoutline/internal/models"
)

func TestEscalateStepsThroughLevels(t *testing.T) {
	require.Equal(t, models.UrgencyMedium, Escalate(models.UrgencyLow))
	require.Equal(t, models.UrgencyHigh, Escalate(models.UrgencyMedium))
}

func TestEscalateHighIsCeiling(t *testing.T) {
	require.Equal(t, models.UrgencyHigh, Escalate(models.UrgencyHigh))
	// Repeated escalation stays clamped.
	require.Equal(t, models.UrgencyHigh, Escalate(Escalate(models.UrgencyHigh)))
}

func TestRankOrdersUrgencies(t *testing.T) {
	require.Greater(t, Rank(models.UrgencyHigh), Rank(models.UrgencyMedium))
	require.Greater(t, Rank(models.UrgencyMedium), Rank(models.UrgencyLow))
	require.Greater(t, Rank(models.UrgencyLow), Rank(models.Urgency("unknown")))
}
