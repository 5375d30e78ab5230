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

func newOfferService(t *testing.T, db *gorm.DB) *OfferService {
	t.Helper()
	dispatcher, err := suggestions.NewDispatcher(
		suggestions.NewDefaultRules(db, time.Now),
		suggestions.NewSurfacer(db),
	)
	require.NoError(t, err)
	service, err := NewOfferService(db, dispatcher)
	require.NoError(t, err)
	return service
}

func createSchool(t *testing.T, db *gorm.DB, athleteID string, status models.SchoolStatus) *models.School {
	t.Helper()
	school := &models.School{AthleteID: athleteID, Name: "Test University", Status: status}
	require.NoError(t, db.Create(school).Error)
	return school
}

func TestCreateOfferPromotesSchoolStatus(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newOfferService(t, db)
	athlete := createAthlete(t, db, "offers@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolContacted)

	offer, err := service.Create(context.Background(), athlete.ID, CreateOfferInput{
		SchoolID: school.ID,
		Type:     "partial",
		Amount:   15000,
	})
	require.NoError(t, err)
	require.Equal(t, models.OfferReceived, offer.Status)
	require.False(t, offer.ReceivedAt.IsZero())

	var got models.School
	require.NoError(t, db.First(&got, "id = ?", school.ID).Error)
	require.Equal(t, models.SchoolOffered, got.Status)
}

func TestCreateOfferLeavesCommittedSchoolsAlone(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newOfferService(t, db)
	athlete := createAthlete(t, db, "committed@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolCommitted)

	_, err := service.Create(context.Background(), athlete.ID, CreateOfferInput{SchoolID: school.ID})
	require.NoError(t, err)

	var got models.School
	require.NoError(t, db.First(&got, "id = ?", school.ID).Error)
	require.Equal(t, models.SchoolCommitted, got.Status)
}

func TestCreateOfferRequiresOwnedSchool(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newOfferService(t, db)
	athlete := createAthlete(t, db, "own@example.com")
	other := createAthlete(t, db, "notmine@example.com")
	school := createSchool(t, db, other.ID, models.SchoolInterested)

	_, err := service.Create(context.Background(), athlete.ID, CreateOfferInput{SchoolID: school.ID})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAcceptOfferCommitsSchool(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newOfferService(t, db)
	athlete := createAthlete(t, db, "accept@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolOffered)

	offer, err := service.Create(context.Background(), athlete.ID, CreateOfferInput{SchoolID: school.ID})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(context.Background(), athlete.ID, offer.ID, models.OfferAccepted)
	require.NoError(t, err)
	require.Equal(t, models.OfferAccepted, updated.Status)

	var got models.School
	require.NoError(t, db.First(&got, "id = ?", school.ID).Error)
	require.Equal(t, models.SchoolCommitted, got.Status)
}

func TestUpdateOfferStatusValidation(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newOfferService(t, db)
	athlete := createAthlete(t, db, "status@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolOffered)

	offer, err := service.Create(context.Background(), athlete.ID, CreateOfferInput{SchoolID: school.ID})
	require.NoError(t, err)

	_, err = service.UpdateStatus(context.Background(), athlete.ID, offer.ID, models.OfferStatus("maybe"))
	require.Error(t, err)

	_, err = service.UpdateStatus(context.Background(), "someone-else", offer.ID, models.OfferDeclined)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
