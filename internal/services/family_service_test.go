package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/database/testutil"
	"github.com/tylerquinn/scoutline/internal/models"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
)

func createParent(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{
		Email:    email,
		Password: "irrelevant",
		Role:     models.RoleParent,
		IsActive: true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestGenerateCodeShapeAndExpiry(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewFamilyService(db)
	require.NoError(t, err)
	athlete := createAthlete(t, db, "code@example.com")

	link, err := service.GenerateCode(context.Background(), athlete.ID)
	require.NoError(t, err)
	require.Len(t, link.Code, 8)
	require.Equal(t, strings.ToUpper(link.Code), link.Code)
	require.Equal(t, athlete.ID, link.AthleteID)
	require.WithinDuration(t, time.Now().UTC().Add(7*24*time.Hour), link.ExpiresAt, time.Minute)
	require.Nil(t, link.RedeemedBy)
}

func TestRedeemBindsParentOnce(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewFamilyService(db)
	require.NoError(t, err)

	athlete := createAthlete(t, db, "kid@example.com")
	parent := createParent(t, db, "mom@example.com")
	rival := createParent(t, db, "other@example.com")

	link, err := service.GenerateCode(context.Background(), athlete.ID)
	require.NoError(t, err)

	redeemed, err := service.Redeem(context.Background(), parent.ID, strings.ToLower(link.Code))
	require.NoError(t, err, "codes are case-insensitive on input")
	require.NotNil(t, redeemed.RedeemedBy)
	require.Equal(t, parent.ID, *redeemed.RedeemedBy)

	var got models.User
	require.NoError(t, db.First(&got, "id = ?", parent.ID).Error)
	require.NotNil(t, got.AthleteID)
	require.Equal(t, athlete.ID, *got.AthleteID)

	// Single use: a second redemption fails even for a different parent.
	_, err = service.Redeem(context.Background(), rival.ID, link.Code)
	require.ErrorIs(t, err, apperrors.ErrFamilyCodeExpired)
}

func TestRedeemRejectsExpiredAndUnknownCodes(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, err := NewFamilyService(db)
	require.NoError(t, err)

	athlete := createAthlete(t, db, "expired@example.com")
	parent := createParent(t, db, "late@example.com")

	stale := &models.FamilyLink{
		AthleteID: athlete.ID,
		Code:      "STALE123",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	require.NoError(t, db.Create(stale).Error)

	_, err = service.Redeem(context.Background(), parent.ID, "STALE123")
	require.ErrorIs(t, err, apperrors.ErrFamilyCodeExpired)

	_, err = service.Redeem(context.Background(), parent.ID, "NOPE9999")
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = service.Redeem(context.Background(), parent.ID, "  ")
	require.Error(t, err)
}
