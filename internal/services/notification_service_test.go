package services

import (
	"testing"

	"itad_backend/internal/models"
	"itad_backend/internal/repositories"
	"itad_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedInboxRow(t *testing.T, repo *fakeNotificationRepo, userID, eventType string) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:   userID,
		Type:     eventType,
		Title:    "title",
		Message:  "message",
		Priority: models.PriorityNormal,
	}
	require.NoError(t, repo.CreateNotification(n))
	return n
}

func TestInbox(t *testing.T) {
	t.Run("list and unread count", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		service := NewNotificationService(repo)

		seedInboxRow(t, repo, "u1", EventQuoteSent)
		second := seedInboxRow(t, repo, "u1", EventPickupComplete)
		seedInboxRow(t, repo, "u2", EventQuoteSent)

		list, err := service.GetUserNotifications("u1", repositories.NotificationCriteria{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), list.Total)

		count, err := service.GetUnreadCount("u1")
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)

		require.NoError(t, service.MarkAsRead("u1", second.ID))
		count, err = service.GetUnreadCount("u1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)

		unread, err := service.GetUserNotifications("u1", repositories.NotificationCriteria{UnreadOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread.Total)
	})

	t.Run("type filter", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		service := NewNotificationService(repo)
		seedInboxRow(t, repo, "u1", EventQuoteSent)
		seedInboxRow(t, repo, "u1", EventJobComplete)

		list, err := service.GetUserNotifications("u1", repositories.NotificationCriteria{Type: EventJobComplete})
		require.NoError(t, err)
		require.Equal(t, int64(1), list.Total)
		assert.Equal(t, EventJobComplete, list.Notifications[0].Type)
	})

	t.Run("mark all as read", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		service := NewNotificationService(repo)
		seedInboxRow(t, repo, "u1", EventQuoteSent)
		seedInboxRow(t, repo, "u1", EventQuoteAccepted)

		require.NoError(t, service.MarkAllAsRead("u1"))
		count, err := service.GetUnreadCount("u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("dismiss hides the row from listings", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		service := NewNotificationService(repo)
		row := seedInboxRow(t, repo, "u1", EventQuoteSent)

		require.NoError(t, service.Dismiss("u1", row.ID))

		list, err := service.GetUserNotifications("u1", repositories.NotificationCriteria{})
		require.NoError(t, err)
		assert.Equal(t, int64(0), list.Total)

		count, err := service.GetUnreadCount("u1")
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)
	})

	t.Run("cannot touch someone else's notification", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		service := NewNotificationService(repo)
		row := seedInboxRow(t, repo, "u1", EventQuoteSent)

		err := service.MarkAsRead("u2", row.ID)
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeUnauthorized, appErr.Code)

		err = service.Dismiss("u2", row.ID)
		require.Error(t, err)
	})

	t.Run("unknown notification", func(t *testing.T) {
		repo := newFakeNotificationRepo()
		service := NewNotificationService(repo)

		err := service.MarkAsRead("u1", "missing")
		require.Error(t, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeNotFound, appErr.Code)
	})
}
