package suggestions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tylerquinn/scoutline/internal/models"
)

func dismissedSuggestion(at time.Time) models.Suggestion {
	return models.Suggestion{
		Dismissed:   true,
		DismissedAt: &at,
	}
}

func TestEligibleToReappearWholeDayBoundary(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		elapsed  time.Duration
		eligible bool
	}{
		{"thirteen days", 13 * 24 * time.Hour, false},
		{"thirteen days twenty-three hours", 13*24*time.Hour + 23*time.Hour, false},
		{"exactly fourteen days", 14 * 24 * time.Hour, true},
		{"fourteen days one millisecond short", 14*24*time.Hour - time.Millisecond, false},
		{"well past fourteen days", 30 * 24 * time.Hour, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := dismissedSuggestion(now.Add(-tc.elapsed))
			require.Equal(t, tc.eligible, EligibleToReappear(s, now))
		})
	}
}

func TestEligibleToReappearRejectsTerminalAndRepeatRows(t *testing.T) {
	now := time.Now().UTC()
	old := now.Add(-20 * 24 * time.Hour)

	s := dismissedSuggestion(old)
	s.Completed = true
	require.False(t, EligibleToReappear(s, now), "completed rows never resurface")

	s = dismissedSuggestion(old)
	s.Reappeared = true
	require.False(t, EligibleToReappear(s, now), "a suggestion reappears at most once")

	s = dismissedSuggestion(old)
	s.Dismissed = false
	require.False(t, EligibleToReappear(s, now))

	s = models.Suggestion{Dismissed: true}
	require.False(t, EligibleToReappear(s, now), "missing dismissal timestamp")
}

func TestEligibleToReappearFutureDismissal(t *testing.T) {
	now := time.Now().UTC()
	s := dismissedSuggestion(now.Add(time.Hour))
	require.False(t, EligibleToReappear(s, now))
}
