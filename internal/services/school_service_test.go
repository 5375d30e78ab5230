package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/database/testutil"
	"github.com/tylerquinn/scoutline/internal/models"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
)

func newSchoolService(t *testing.T, db *gorm.DB) *SchoolService {
	t.Helper()
	service, err := NewSchoolService(db)
	require.NoError(t, err)
	return service
}

func TestCreateSchoolDefaults(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newSchoolService(t, db)
	athlete := createAthlete(t, db, "track@example.com")

	school, err := service.Create(context.Background(), athlete.ID, CreateSchoolInput{
		Name:  "  State University  ",
		City:  "Springfield",
		State: "IL",
	})
	require.NoError(t, err)
	require.Equal(t, "State University", school.Name)
	require.Equal(t, models.SchoolInterested, school.Status)

	_, err = service.Create(context.Background(), athlete.ID, CreateSchoolInput{Name: "   "})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrBadRequest.Code, appErr.Code)
}

func TestUpdateSchoolPartialAndScoped(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newSchoolService(t, db)
	athlete := createAthlete(t, db, "update@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolInterested)

	status := models.SchoolContacted
	updated, err := service.Update(context.Background(), athlete.ID, school.ID, UpdateSchoolInput{Status: &status})
	require.NoError(t, err)
	require.Equal(t, models.SchoolContacted, updated.Status)
	require.Equal(t, school.Name, updated.Name, "unset fields stay put")

	_, err = service.Update(context.Background(), "intruder", school.ID, UpdateSchoolInput{Status: &status})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	empty := "  "
	_, err = service.Update(context.Background(), athlete.ID, school.ID, UpdateSchoolInput{Name: &empty})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, apperrors.ErrBadRequest.Code, appErr.Code)
}

func TestDeleteSchoolRemovesCoaches(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newSchoolService(t, db)
	athlete := createAthlete(t, db, "cleanup@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolContacted)

	coach, err := service.AddCoach(context.Background(), athlete.ID, CreateCoachInput{
		SchoolID: school.ID,
		Name:     "Pat Reilly",
		Title:    "Head Coach",
	})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), athlete.ID, school.ID))

	var coaches int64
	require.NoError(t, db.Model(&models.Coach{}).Where("id = ?", coach.ID).Count(&coaches).Error)
	require.Zero(t, coaches)

	require.ErrorIs(t, service.Delete(context.Background(), athlete.ID, school.ID), apperrors.ErrNotFound)
}

func TestAddCoachRequiresOwnedSchool(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newSchoolService(t, db)
	athlete := createAthlete(t, db, "coachown@example.com")
	other := createAthlete(t, db, "coachother@example.com")
	school := createSchool(t, db, other.ID, models.SchoolContacted)

	_, err := service.AddCoach(context.Background(), athlete.ID, CreateCoachInput{
		SchoolID: school.ID,
		Name:     "Sam Hill",
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRemoveCoachScopedToOwner(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newSchoolService(t, db)
	athlete := createAthlete(t, db, "coachdel@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolContacted)

	coach, err := service.AddCoach(context.Background(), athlete.ID, CreateCoachInput{
		SchoolID: school.ID,
		Name:     "Lee Grant",
	})
	require.NoError(t, err)

	require.ErrorIs(t, service.RemoveCoach(context.Background(), "intruder", coach.ID), apperrors.ErrNotFound)
	require.NoError(t, service.RemoveCoach(context.Background(), athlete.ID, coach.ID))
}

func TestListSchoolsPreloadsCoaches(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newSchoolService(t, db)
	athlete := createAthlete(t, db, "preload@example.com")
	school := createSchool(t, db, athlete.ID, models.SchoolContacted)
	createSchool(t, db, createAthlete(t, db, "someoneelse@example.com").ID, models.SchoolContacted)

	_, err := service.AddCoach(context.Background(), athlete.ID, CreateCoachInput{
		SchoolID: school.ID,
		Name:     "Dana White",
	})
	require.NoError(t, err)

	schools, err := service.List(context.Background(), athlete.ID)
	require.NoError(t, err)
	require.Len(t, schools, 1)
	require.Len(t, schools[0].Coaches, 1)
}
