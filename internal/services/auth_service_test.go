package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tylerquinn/scoutline/internal/auth"
	"github.com/tylerquinn/scoutline/internal/database/testutil"
	"github.com/tylerquinn/scoutline/internal/models"
	apperrors "github.com/tylerquinn/scoutline/pkg/errors"
)

func newAuthService(t *testing.T, db *gorm.DB) (*AuthService, *auth.JWTService) {
	t.Helper()
	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret", Issuer: "scoutline-test"})
	require.NoError(t, err)
	service, err := NewAuthService(db, jwtService, nil)
	require.NoError(t, err)
	return service, jwtService
}

func TestRegisterAndLogin(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, jwtService := newAuthService(t, db)

	result, err := service.Register(context.Background(), RegisterInput{
		Email:          "New.Athlete@Example.com",
		Password:       "super-secret",
		FirstName:      "Jordan",
		LastName:       "Price",
		Sport:          "soccer",
		Position:       "defender",
		GraduationYear: 2027,
		GPA:            3.8,
	})
	require.NoError(t, err)
	require.Equal(t, "new.athlete@example.com", result.User.Email, "emails are normalised")
	require.Equal(t, models.RoleAthlete, result.User.Role)
	require.NotEmpty(t, result.Token)

	claims, err := jwtService.ValidateAccessToken(result.Token)
	require.NoError(t, err)
	require.Equal(t, result.User.ID, claims.UserID)
	require.Equal(t, models.RoleAthlete, claims.Role)

	login, err := service.Login(context.Background(), "new.athlete@example.com", "super-secret")
	require.NoError(t, err)
	require.NotNil(t, login.User.LastLoginAt)

	_, err = service.Login(context.Background(), "new.athlete@example.com", "wrong-password")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), "stranger@example.com", "super-secret")
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, _ := newAuthService(t, db)

	_, err := service.Register(context.Background(), RegisterInput{
		Email:    "short@example.com",
		Password: "tiny",
	})
	require.Error(t, err, "passwords under eight characters are rejected")

	_, err = service.Register(context.Background(), RegisterInput{
		Email:    "admin@example.com",
		Password: "long-enough",
		Role:     models.RoleAdmin,
	})
	require.Error(t, err, "admins cannot self-register")

	_, err = service.Register(context.Background(), RegisterInput{
		Email:    "dup@example.com",
		Password: "long-enough",
	})
	require.NoError(t, err)
	_, err = service.Register(context.Background(), RegisterInput{
		Email:    "DUP@example.com",
		Password: "long-enough",
	})
	require.Error(t, err, "duplicate emails are rejected")
}

func TestRegisterParentSkipsProfileFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, _ := newAuthService(t, db)

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "parentreg@example.com",
		Password: "long-enough",
		Role:     models.RoleParent,
		Sport:    "soccer",
		GPA:      4.0,
	})
	require.NoError(t, err)
	require.Equal(t, models.RoleParent, result.User.Role)
	require.Empty(t, result.User.Sport)
	require.Zero(t, result.User.GPA)
	require.Nil(t, result.User.AthleteID, "parents link to an athlete via family code, not signup")
}

func TestUpdateProfileFiltersFields(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service, _ := newAuthService(t, db)

	result, err := service.Register(context.Background(), RegisterInput{
		Email:    "edit@example.com",
		Password: "long-enough",
	})
	require.NoError(t, err)

	user, err := service.UpdateProfile(context.Background(), result.User.ID, map[string]any{
		"gpa":      3.2,
		"position": "winger",
		"role":     models.RoleAdmin, // not an updatable field
		"email":    "hax@example.com",
	})
	require.NoError(t, err)
	require.InDelta(t, 3.2, user.GPA, 0.001)
	require.Equal(t, "winger", user.Position)
	require.Equal(t, models.RoleAthlete, user.Role)
	require.Equal(t, "edit@example.com", user.Email)

	_, err = service.UpdateProfile(context.Background(), result.User.ID, map[string]any{"email": "nope"})
	require.Error(t, err, "a payload with no updatable fields is rejected")
}
