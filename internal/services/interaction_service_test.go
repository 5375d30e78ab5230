package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/database/testutil"
	"github.com/tylerquinn/scoutline/internal/models"
	"github.com/tylerquinn/scoutline/internal/suggestions"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
)

func newInteractionService(t *testing.T, db *gorm.DB) *InteractionService {
	t.Helper()
	dispatcher, err := suggestions.NewDispatcher(
		suggestions.NewDefaultRules(db, time.Now),
		suggestions.NewSurfacer(db),
	)
	require.NoError(t, err)
	service, err := NewInteractionService(db, dispatcher)
	require.NoError(t, err)
	return service
}

func TestLogInteraction(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newInteractionService(t, db)
	athlete := createAthlete(t, db, "logger@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolContacted)

	interaction, err := service.Log(context.Background(), athlete.ID, LogInteractionInput{
		SchoolID: school.ID,
		Channel:  models.ChannelCall,
		Notes:    "spoke with the recruiting coordinator",
	})
	require.NoError(t, err)
	require.Equal(t, athlete.ID, interaction.AthleteID)
	require.False(t, interaction.OccurredAt.IsZero(), "missing timestamps default to now")
	require.Nil(t, interaction.CoachID)
}

func TestLogInteractionRejectsForeignSchool(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newInteractionService(t, db)
	athlete := createAthlete(t, db, "mine@example.com")
	other := createAthlete(t, db, "theirs@example.com")
	school := createSchool(t, db, other.ID, models.SchoolContacted)

	_, err := service.Log(context.Background(), athlete.ID, LogInteractionInput{
		SchoolID: school.ID,
		Channel:  models.ChannelEmail,
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListInteractionsFiltersBySchool(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newInteractionService(t, db)
	athlete := createAthlete(t, db, "filter@example.com")
	first := createSchool(t, db, athlete.ID, models.SchoolContacted)
	second := createSchool(t, db, athlete.ID, models.SchoolContacted)

	for _, schoolID := range []string{first.ID, first.ID, second.ID} {
		_, err := service.Log(context.Background(), athlete.ID, LogInteractionInput{
			SchoolID: schoolID,
			Channel:  models.ChannelText,
		})
		require.NoError(t, err)
	}

	all, err := service.List(context.Background(), athlete.ID, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	scoped, err := service.List(context.Background(), athlete.ID, first.ID)
	require.NoError(t, err)
	require.Len(t, scoped, 2)
}

func TestDeleteInteractionScopedToOwner(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newInteractionService(t, db)
	athlete := createAthlete(t, db, "del@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolContacted)

	interaction, err := service.Log(context.Background(), athlete.ID, LogInteractionInput{
		SchoolID: school.ID,
		Channel:  models.ChannelVisit,
	})
	require.NoError(t, err)

	require.ErrorIs(t, service.Delete(context.Background(), "intruder", interaction.ID), apperrors.ErrNotFound)
	require.NoError(t, service.Delete(context.Background(), athlete.ID, interaction.ID))
	require.ErrorIs(t, service.Delete(context.Background(), athlete.ID, interaction.ID), apperrors.ErrNotFound)
}
