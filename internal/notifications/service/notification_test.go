package service

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"stayhub/internal/notifications/repository"
	mongodb "stayhub/pkg/db/mongo"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, repo *repository.MemoryInboxRepository, userID string, n int) []string {
	t.Helper()
	base := time.Date(2025, 5, 20, 9, 0, 0, 0, time.UTC)
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		note := &model.Notification{
			UserID:    userID,
			Message:   "hello",
			Type:      model.NotificationTypeBooking,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Insert(context.Background(), note))
		ids[i] = note.ID
	}
	return ids
}

func TestList_LatestFirstWithTotal(t *testing.T) {
	repo := repository.NewMemoryInboxRepository()
	ids := seed(t, repo, "u1", 3)
	seed(t, repo, "u2", 2)
	svc := NewNotificationService(repo, logger.New(logger.Config{Output: io.Discard}))

	page, total, err := svc.List(context.Background(), "u1", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[2], page[0].ID)
	assert.Equal(t, ids[1], page[1].ID)

	page, _, err = svc.List(context.Background(), "u1", 2, -5)
	require.NoError(t, err)
	assert.Len(t, page, 2)
}

func TestMarkRead(t *testing.T) {
	repo := repository.NewMemoryInboxRepository()
	ids := seed(t, repo, "u1", 1)
	svc := NewNotificationService(repo, logger.New(logger.Config{Output: io.Discard}))

	require.NoError(t, svc.MarkRead(context.Background(), "u1", ids[0]))
	assert.True(t, repo.All()[0].IsRead)

	tests := []struct {
		name   string
		userID string
		id     string
		status int
	}{
		{"someone else's", "u2", ids[0], http.StatusNotFound},
		{"unknown", "u1", mongodb.NewID(), http.StatusNotFound},
		{"malformed", "u1", "x", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.MarkRead(context.Background(), tt.userID, tt.id)
			require.Error(t, err)
			assert.Equal(t, tt.status, apperrors.AsAppError(err).StatusCode())
		})
	}
}
