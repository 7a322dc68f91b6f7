package consumer

import (
	"context"
	"errors"
	"io"
	"testing"

	"stayhub/internal/notifications/dispatcher"
	"stayhub/internal/notifications/repository"
	"stayhub/pkg/kafka"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID  = "507f1f77bcf86cd799439012"
	eventID = "507f1f77bcf86cd799439011"
)

func event(t *testing.T, value any) kafka.Message {
	t.Helper()
	msg, err := kafka.NewMessage().
		WithKey(userID).
		WithValue(value).
		WithEventType(dispatcher.EventNotificationCreated).
		WithHeader(kafka.HeaderEventID, eventID).
		Build()
	require.NoError(t, err)
	return msg
}

type failingRepo struct {
	*repository.MemoryInboxRepository
}

func (failingRepo) Insert(context.Context, *model.Notification) error {
	return errors.New("connection reset by peer")
}

func TestInboxWriter(t *testing.T) {
	log := logger.New(logger.Config{Output: io.Discard})
	valid := model.Notification{UserID: userID, Message: "Your property was booked", Type: model.NotificationTypeBooking}

	t.Run("stores event with event id", func(t *testing.T) {
		repo := repository.NewMemoryInboxRepository()
		require.NoError(t, NewInboxWriter(repo, log)(context.Background(), event(t, valid)))

		stored := repo.All()
		require.Len(t, stored, 1)
		assert.Equal(t, eventID, stored[0].ID)
		assert.False(t, stored[0].IsRead)
	})

	t.Run("redelivery is idempotent", func(t *testing.T) {
		repo := repository.NewMemoryInboxRepository()
		handle := NewInboxWriter(repo, log)
		require.NoError(t, handle(context.Background(), event(t, valid)))
		require.NoError(t, handle(context.Background(), event(t, valid)))
		assert.Len(t, repo.All(), 1)
	})

	t.Run("malformed payload is permanent", func(t *testing.T) {
		msg := event(t, valid)
		msg.Value = []byte("{not json")
		err := NewInboxWriter(repository.NewMemoryInboxRepository(), log)(context.Background(), msg)
		assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
	})

	t.Run("unknown type is permanent", func(t *testing.T) {
		bad := valid
		bad.Type = "promo"
		err := NewInboxWriter(repository.NewMemoryInboxRepository(), log)(context.Background(), event(t, bad))
		assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
	})

	t.Run("invalid recipient is permanent", func(t *testing.T) {
		bad := valid
		bad.UserID = "nobody"
		err := NewInboxWriter(repository.NewMemoryInboxRepository(), log)(context.Background(), event(t, bad))
		assert.Equal(t, kafka.ErrorTypePermanent, kafka.ClassifyError(err))
	})

	t.Run("storage failure is transient", func(t *testing.T) {
		repo := failingRepo{repository.NewMemoryInboxRepository()}
		err := NewInboxWriter(repo, log)(context.Background(), event(t, valid))
		assert.Equal(t, kafka.ErrorTypeTransient, kafka.ClassifyError(err))
	})

	t.Run("other event types are skipped", func(t *testing.T) {
		repo := repository.NewMemoryInboxRepository()
		msg := event(t, valid)
		msg.Headers[kafka.HeaderEventType] = "booking.audited"
		require.NoError(t, NewInboxWriter(repo, log)(context.Background(), msg))
		assert.Empty(t, repo.All())
	})
}
