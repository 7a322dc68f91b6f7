package dispatcher

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"stayhub/internal/notifications/repository"
	"stayhub/pkg/kafka"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

type recordingDeliverer struct {
	mu      sync.Mutex
	got     []*model.Notification
	err     error
	block   chan struct{}
	started chan struct{}
}

func (d *recordingDeliverer) Deliver(ctx context.Context, n *model.Notification) error {
	if d.started != nil {
		d.started <- struct{}{}
	}
	if d.block != nil {
		<-d.block
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.got = append(d.got, n)
	return d.err
}

func (d *recordingDeliverer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.got)
}

func TestDispatcher_DeliversQueuedNotifications(t *testing.T) {
	deliverer := &recordingDeliverer{}
	d := New(deliverer, 2, 10, testLogger())

	d.Notify(context.Background(), "u1", "hello", model.NotificationTypeBooking)
	d.Notify(context.Background(), "u2", "bye", model.NotificationTypeCancellation)
	d.Stop(context.Background())

	require.Equal(t, 2, deliverer.count())
	for _, n := range deliverer.got {
		assert.NotEmpty(t, n.ID)
		assert.False(t, n.CreatedAt.IsZero())
	}
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	deliverer := &recordingDeliverer{block: make(chan struct{}), started: make(chan struct{}, 2)}
	d := New(deliverer, 1, 1, testLogger())

	d.Notify(context.Background(), "u", "first", model.NotificationTypeBooking)
	<-deliverer.started // worker is busy with the first one
	d.Notify(context.Background(), "u", "second", model.NotificationTypeBooking)
	d.Notify(context.Background(), "u", "third", model.NotificationTypeBooking)

	assert.Equal(t, int64(1), d.Dropped())

	close(deliverer.block)
	d.Stop(context.Background())
	assert.Equal(t, 2, deliverer.count())
}

func TestDispatcher_DeliveryFailureIsCounted(t *testing.T) {
	deliverer := &recordingDeliverer{err: errors.New("broker down")}
	d := New(deliverer, 1, 4, testLogger())

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), "u", "msg", model.NotificationTypeReview)
	})
	d.Stop(context.Background())
	assert.Equal(t, int64(1), d.Failed())
}

func TestDispatcher_NotifyAfterStopIsDropped(t *testing.T) {
	deliverer := &recordingDeliverer{}
	d := New(deliverer, 1, 4, testLogger())
	d.Stop(context.Background())
	d.Stop(context.Background())

	d.Notify(context.Background(), "u", "late", model.NotificationTypeBooking)
	assert.Equal(t, int64(1), d.Dropped())
	assert.Zero(t, deliverer.count())
}

func TestDispatcher_StopHonoursDeadline(t *testing.T) {
	deliverer := &recordingDeliverer{block: make(chan struct{})}
	defer close(deliverer.block)
	d := New(deliverer, 1, 4, testLogger())
	d.Notify(context.Background(), "u", "stuck", model.NotificationTypeBooking)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	d.Stop(ctx)
	assert.Less(t, time.Since(start), time.Second)
}

func TestInboxDeliverer_IgnoresDuplicates(t *testing.T) {
	repo := repository.NewMemoryInboxRepository()
	deliverer := NewInboxDeliverer(repo)
	n := &model.Notification{ID: "507f1f77bcf86cd799439011", UserID: "507f1f77bcf86cd799439012", Message: "m", Type: model.NotificationTypeBooking}

	require.NoError(t, deliverer.Deliver(context.Background(), n))
	require.NoError(t, deliverer.Deliver(context.Background(), n))
	assert.Len(t, repo.All(), 1)
}

type fakePublisher struct {
	msgs []kafka.Message
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, msg kafka.Message) error {
	p.msgs = append(p.msgs, msg)
	return p.err
}

func TestKafkaDeliverer_PublishesEvent(t *testing.T) {
	pub := &fakePublisher{}
	deliverer := NewKafkaDeliverer(pub, "bookings")
	n := &model.Notification{ID: "507f1f77bcf86cd799439011", UserID: "owner-1", Message: "New booking", Type: model.NotificationTypeBooking}

	require.NoError(t, deliverer.Deliver(context.Background(), n))
	require.Len(t, pub.msgs, 1)

	msg := pub.msgs[0]
	assert.Equal(t, "owner-1", msg.Key)
	assert.Equal(t, EventNotificationCreated, msg.GetEventType())
	assert.Equal(t, n.ID, msg.GetEventID())
	assert.Equal(t, "bookings", msg.Headers[kafka.HeaderSource])

	var decoded model.Notification
	require.NoError(t, msg.DecodeValue(&decoded))
	assert.Equal(t, n.Message, decoded.Message)
	assert.Equal(t, n.Type, decoded.Type)
}

func TestKafkaDeliverer_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("no leader")}
	deliverer := NewKafkaDeliverer(pub, "bookings")
	err := deliverer.Deliver(context.Background(), &model.Notification{UserID: "u", Message: "m"})
	assert.ErrorContains(t, err, "no leader")
}
