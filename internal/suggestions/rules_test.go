package suggestions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/database/testutil"
	"github.com/tylerquinn/scoutline/internal/models"
)

var fixedNow = time.Date(2026, time.May, 10, 8, 0, 0, 0, time.UTC)

func newTestRules(db *gorm.DB) *DefaultRules {
	return NewDefaultRules(db, func() time.Time { return fixedNow })
}

func evaluate(t *testing.T, rules *DefaultRules, athleteID string) int {
	t.Helper()
	n, err := rules.Evaluate(context.Background(), EvaluateInput{
		AthleteID: athleteID,
		Reason:    ReasonDailyRefresh,
	})
	require.NoError(t, err)
	return n
}

func TestReappearDismissedEscalatesAndRequeues(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	athlete := seedAthlete(t, db)

	dismissedAt := fixedNow.Add(-15 * 24 * time.Hour)
	s := &models.Suggestion{
		AthleteID:      athlete.ID,
		Type:           TypeContactSchool,
		Title:          "old nudge",
		Urgency:        models.UrgencyLow,
		Location:       models.LocationDashboard,
		PendingSurface: false,
		Dismissed:      true,
		DismissedAt:    &dismissedAt,
	}
	require.NoError(t, db.Create(s).Error)

	require.Equal(t, 1, evaluate(t, newTestRules(db), athlete.ID))

	var got models.Suggestion
	require.NoError(t, db.First(&got, "id = ?", s.ID).Error)
	require.False(t, got.Dismissed)
	require.True(t, got.Reappeared)
	require.True(t, got.PendingSurface)
	require.Equal(t, models.UrgencyMedium, got.Urgency)
	require.Nil(t, got.SurfacedAt)
	require.NotNil(t, got.DismissedAt, "dismissal timestamp is kept for audit")

	// The reappeared flag is a one-shot gate: a second pass changes nothing.
	require.Equal(t, 0, evaluate(t, newTestRules(db), athlete.ID))
}

func TestReappearDismissedSkipsRecentAndCompleted(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	athlete := seedAthlete(t, db)

	recent := fixedNow.Add(-(13*24*time.Hour + 23*time.Hour))
	fresh := &models.Suggestion{
		AthleteID:   athlete.ID,
		Type:        TypeContactSchool,
		Title:       "recently dismissed",
		Urgency:     models.UrgencyMedium,
		Dismissed:   true,
		DismissedAt: &recent,
	}
	require.NoError(t, db.Create(fresh).Error)

	old := fixedNow.Add(-30 * 24 * time.Hour)
	done := &models.Suggestion{
		AthleteID:   athlete.ID,
		Type:        TypeOfferDeadline,
		Title:       "completed reminder",
		Urgency:     models.UrgencyHigh,
		Completed:   true,
		CompletedAt: &old,
		DismissedAt: &old,
	}
	require.NoError(t, db.Create(done).Error)

	require.Equal(t, 0, evaluate(t, newTestRules(db), athlete.ID))

	var got models.Suggestion
	require.NoError(t, db.First(&got, "id = ?", fresh.ID).Error)
	require.True(t, got.Dismissed)
	require.Equal(t, models.UrgencyMedium, got.Urgency)
}

func TestContactNudgesForQuietSchools(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	athlete := seedAthlete(t, db)

	quiet := &models.School{AthleteID: athlete.ID, Name: "Quiet State", Status: models.SchoolContacted}
	chatty := &models.School{AthleteID: athlete.ID, Name: "Chatty Tech", Status: models.SchoolContacted}
	committed := &models.School{AthleteID: athlete.ID, Name: "Done U", Status: models.SchoolCommitted}
	require.NoError(t, db.Create(quiet).Error)
	require.NoError(t, db.Create(chatty).Error)
	require.NoError(t, db.Create(committed).Error)

	require.NoError(t, db.Create(&models.Interaction{
		AthleteID:  athlete.ID,
		SchoolID:   chatty.ID,
		Channel:    models.ChannelEmail,
		OccurredAt: fixedNow.Add(-2 * 24 * time.Hour),
	}).Error)

	require.Equal(t, 1, evaluate(t, newTestRules(db), athlete.ID))

	var got models.Suggestion
	require.NoError(t, db.First(&got, "athlete_id = ? AND type = ?", athlete.ID, TypeContactSchool).Error)
	require.Equal(t, quiet.ID, *got.SchoolID)
	require.Equal(t, models.UrgencyMedium, got.Urgency)
	require.Equal(t, models.LocationSchoolDetail, got.Location)
	require.True(t, got.PendingSurface)

	// Idempotent while the nudge is open.
	require.Equal(t, 0, evaluate(t, newTestRules(db), athlete.ID))
}

func TestContactNudgeNotRecreatedAfterDismissal(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	athlete := seedAthlete(t, db)

	school := &models.School{AthleteID: athlete.ID, Name: "Quiet State", Status: models.SchoolInterested}
	require.NoError(t, db.Create(school).Error)

	rules := newTestRules(db)
	require.Equal(t, 1, evaluate(t, rules, athlete.ID))

	// The athlete dismisses the nudge; re-evaluation must not clone it. Only
	// the cool-off reappearance path may bring it back.
	dismissedAt := fixedNow.Add(-time.Hour)
	require.NoError(t, db.Model(&models.Suggestion{}).
		Where("athlete_id = ? AND type = ?", athlete.ID, TypeContactSchool).
		Updates(map[string]any{"dismissed": true, "dismissed_at": dismissedAt, "pending_surface": false}).Error)

	require.Equal(t, 0, evaluate(t, rules, athlete.ID))

	var count int64
	require.NoError(t, db.Model(&models.Suggestion{}).
		Where("athlete_id = ? AND type = ?", athlete.ID, TypeContactSchool).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestOfferDeadlineReminders(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	athlete := seedAthlete(t, db)

	school := &models.School{AthleteID: athlete.ID, Name: "Offer U", Status: models.SchoolOffered}
	require.NoError(t, db.Create(school).Error)

	soon := fixedNow.Add(3 * 24 * time.Hour)
	far := fixedNow.Add(20 * 24 * time.Hour)
	require.NoError(t, db.Create(&models.Offer{
		AthleteID: athlete.ID, SchoolID: school.ID,
		Status: models.OfferReceived, ReceivedAt: fixedNow.Add(-5 * 24 * time.Hour), Deadline: &soon,
	}).Error)
	require.NoError(t, db.Create(&models.Offer{
		AthleteID: athlete.ID, SchoolID: school.ID,
		Status: models.OfferReceived, ReceivedAt: fixedNow.Add(-5 * 24 * time.Hour), Deadline: &far,
	}).Error)

	require.Equal(t, 1, evaluate(t, newTestRules(db), athlete.ID))

	var got models.Suggestion
	require.NoError(t, db.First(&got, "athlete_id = ? AND type = ?", athlete.ID, TypeOfferDeadline).Error)
	require.Equal(t, models.UrgencyHigh, got.Urgency)
	require.Equal(t, models.LocationDashboard, got.Location)
}

func TestProfileCompletenessIsOneShot(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())

	athlete := &models.User{
		Email:    "rookie@example.com",
		Password: "irrelevant",
		Role:     models.RoleAthlete,
		Sport:    "soccer",
		IsActive: true,
		// Position, GraduationYear, and GPA deliberately missing.
	}
	require.NoError(t, db.Create(athlete).Error)

	rules := newTestRules(db)
	require.Equal(t, 1, evaluate(t, rules, athlete.ID))

	var got models.Suggestion
	require.NoError(t, db.First(&got, "athlete_id = ? AND type = ?", athlete.ID, TypeCompleteProfile).Error)
	require.Equal(t, models.UrgencyLow, got.Urgency)

	// Completing the prompt, or even dismissing it, never re-creates it.
	require.NoError(t, db.Model(&got).Updates(map[string]any{"completed": true, "completed_at": fixedNow}).Error)
	require.Equal(t, 0, evaluate(t, rules, athlete.ID))

	var count int64
	require.NoError(t, db.Model(&models.Suggestion{}).
		Where("athlete_id = ? AND type = ?", athlete.ID, TypeCompleteProfile).
		Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestProfileCompletenessSkipsFullProfiles(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	athlete := seedAthlete(t, db)

	require.Equal(t, 0, evaluate(t, newTestRules(db), athlete.ID))
}
