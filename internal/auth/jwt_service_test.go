package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tylerquinn/scoutline/internal/models"
)

func TestNewJWTServiceRequiresSecret(t *testing.T) {
	_, err := NewJWTService(JWTConfig{})
	require.Error(t, err)
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	service, err := NewJWTService(JWTConfig{Secret: "unit-secret", Issuer: "scoutline-test"})
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(AccessTokenInput{UserID: "user-1", Role: models.RoleAthlete})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, models.RoleAthlete, claims.Role)
	require.Equal(t, "scoutline-test", claims.Issuer)
	require.Equal(t, "user-1", claims.Subject)
}

func TestGenerateAccessTokenRequiresUserID(t *testing.T) {
	service, err := NewJWTService(JWTConfig{Secret: "unit-secret"})
	require.NoError(t, err)

	_, err = service.GenerateAccessToken(AccessTokenInput{})
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsExpired(t *testing.T) {
	issued := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	clock := issued

	service, err := NewJWTService(JWTConfig{
		Secret:         "unit-secret",
		Issuer:         "scoutline-test",
		AccessTokenTTL: time.Minute,
		Clock:          func() time.Time { return clock },
	})
	require.NoError(t, err)

	token, err := service.GenerateAccessToken(AccessTokenInput{UserID: "user-1"})
	require.NoError(t, err)

	clock = issued.Add(30 * time.Second)
	_, err = service.ValidateAccessToken(token)
	require.NoError(t, err)

	clock = issued.Add(2 * time.Minute)
	_, err = service.ValidateAccessToken(token)
	require.Error(t, err)
}

func TestValidateAccessTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	issuerA, err := NewJWTService(JWTConfig{Secret: "secret-a", Issuer: "scoutline-test"})
	require.NoError(t, err)
	issuerB, err := NewJWTService(JWTConfig{Secret: "secret-a", Issuer: "someone-else"})
	require.NoError(t, err)
	wrongKey, err := NewJWTService(JWTConfig{Secret: "secret-b", Issuer: "scoutline-test"})
	require.NoError(t, err)

	token, err := issuerA.GenerateAccessToken(AccessTokenInput{UserID: "user-1"})
	require.NoError(t, err)

	_, err = wrongKey.ValidateAccessToken(token)
	require.Error(t, err)

	_, err = issuerB.ValidateAccessToken(token)
	require.Error(t, err)

	_, err = issuerA.ValidateAccessToken("")
	require.Error(t, err)

	_, err = issuerA.ValidateAccessToken("not-a-token")
	require.Error(t, err)
}
