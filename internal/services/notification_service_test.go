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

func newNotificationService(t *testing.T, db *gorm.DB) *NotificationService {
	t.Helper()
	service, err := NewNotificationService(db, nil)
	require.NoError(t, err)
	return service
}

func TestCreateNotificationDefaultsAndMetadata(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newNotificationService(t, db)
	athlete := createAthlete(t, db, "notify@example.com")

	created, err := service.Create(context.Background(), CreateNotificationInput{
		UserID:   athlete.ID,
		Type:     "suggestion.surfaced",
		Title:    "New suggestions",
		Message:  "3 suggestions hit your dashboard",
		Metadata: map[string]any{"count": 3},
	})
	require.NoError(t, err)
	require.Equal(t, "info", created.Severity)
	require.False(t, created.IsRead)
	require.NotEmpty(t, created.Metadata)

	_, err = service.Create(context.Background(), CreateNotificationInput{UserID: athlete.ID})
	require.Error(t, err, "type is required")
}

func TestMarkReadScopedToOwner(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newNotificationService(t, db)
	athlete := createAthlete(t, db, "read@example.com")

	created, err := service.Create(context.Background(), CreateNotificationInput{
		UserID: athlete.ID,
		Type:   "offer.deadline",
	})
	require.NoError(t, err)

	require.ErrorIs(t, service.MarkRead(context.Background(), "intruder", created.ID), apperrors.ErrNotFound)
	require.NoError(t, service.MarkRead(context.Background(), athlete.ID, created.ID))

	var got models.Notification
	require.NoError(t, db.First(&got, "id = ?", created.ID).Error)
	require.True(t, got.IsRead)
	require.NotNil(t, got.ReadAt)
}

func TestUnreadCountAndMarkAllRead(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newNotificationService(t, db)
	athlete := createAthlete(t, db, "inbox@example.com")
	other := createAthlete(t, db, "otherinbox@example.com")

	for i := 0; i < 3; i++ {
		_, err := service.Create(context.Background(), CreateNotificationInput{
			UserID: athlete.ID,
			Type:   "suggestion.surfaced",
		})
		require.NoError(t, err)
	}
	_, err := service.Create(context.Background(), CreateNotificationInput{
		UserID: other.ID,
		Type:   "suggestion.surfaced",
	})
	require.NoError(t, err)

	count, err := service.UnreadCount(context.Background(), athlete.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)

	updated, err := service.MarkAllRead(context.Background(), athlete.ID)
	require.NoError(t, err)
	require.EqualValues(t, 3, updated)

	count, err = service.UnreadCount(context.Background(), athlete.ID)
	require.NoError(t, err)
	require.Zero(t, count)

	count, err = service.UnreadCount(context.Background(), other.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count, "other inboxes are untouched")
}

func TestDeleteNotification(t *testing.T) {
	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	service := newNotificationService(t, db)
	athlete := createAthlete(t, db, "trash@example.com")

	created, err := service.Create(context.Background(), CreateNotificationInput{
		UserID: athlete.ID,
		Type:   "family.linked",
	})
	require.NoError(t, err)

	require.ErrorIs(t, service.Delete(context.Background(), "intruder", created.ID), apperrors.ErrNotFound)
	require.NoError(t, service.Delete(context.Background(), athlete.ID, created.ID))
	require.ErrorIs(t, service.Delete(context.Background(), athlete.ID, created.ID), apperrors.ErrNotFound)
}
