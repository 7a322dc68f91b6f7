package kafka

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"stayhub/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func TestMessageBuilder(t *testing.T) {
	msg, err := NewMessage().
		WithKey("user-1").
		WithValue(map[string]string{"message": "hi"}).
		WithEventType("notification.created").
		WithCorrelationID("req-1").
		WithSource("bookings").
		Build()
	require.NoError(t, err)

	assert.Equal(t, "user-1", msg.Key)
	assert.JSONEq(t, `{"message":"hi"}`, string(msg.Value))
	assert.Equal(t, "notification.created", msg.GetEventType())
	assert.Equal(t, "req-1", msg.GetCorrelationID())
	assert.NotEmpty(t, msg.GetEventID())
	assert.NotEmpty(t, msg.Headers[HeaderTimestamp])
}

func TestMessageBuilder_EncodeFailureIsPermanent(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	require.Error(t, err)
	assert.Equal(t, ErrorTypePermanent, ClassifyError(err))
}

func TestRetryCount(t *testing.T) {
	var msg Message
	assert.Equal(t, 0, msg.GetRetryCount())
	for i := 0; i < 12; i++ {
		msg.IncrementRetryCount()
	}
	assert.Equal(t, 12, msg.GetRetryCount())
	assert.Equal(t, "12", msg.Headers[HeaderRetryCount])
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"explicit transient", NewTransientError("x", nil), ErrorTypeTransient},
		{"wrapped permanent", errors.Join(errors.New("ctx"), NewPermanentError("bad", nil)), ErrorTypePermanent},
		{"deadline", context.DeadlineExceeded, ErrorTypeTransient},
		{"network text", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown text", errors.New("schema mismatch"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("down", nil)
	assert.True(t, ShouldRetry(transient, 0, 3))
	assert.False(t, ShouldRetry(transient, 3, 3))
	assert.False(t, ShouldRetry(NewPermanentError("bad", nil), 0, 3))
	assert.False(t, ShouldRetry(nil, 0, 3))
}

func TestBuildChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(ctx context.Context, msg Message, next MessageHandler) error {
			order = append(order, name)
			return next(ctx, msg)
		}
	}
	h := buildChain(func(context.Context, Message) error {
		order = append(order, "handler")
		return nil
	}, []Middleware{mw("first"), mw("second")})

	require.NoError(t, h(context.Background(), Message{}))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

type fakeFetcher struct {
	mu        sync.Mutex
	messages  []kafka.Message
	committed []int64
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafka.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return kafka.Message{}, context.Canceled
	}
	m := f.messages[0]
	f.messages = f.messages[1:]
	return m, nil
}

func (f *fakeFetcher) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
	}
	return nil
}

func (f *fakeFetcher) Stats() kafka.ReaderStats { return kafka.ReaderStats{} }
func (f *fakeFetcher) Close() error             { return nil }

func noSleep(context.Context, time.Duration) error { return nil }

func TestConsumer_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, msg Message) error {
		calls++
		if calls < 3 {
			return NewTransientError("inbox unavailable", nil)
		}
		return nil
	}
	reader := &fakeFetcher{messages: []kafka.Message{{Offset: 7, Key: []byte("u")}}}
	c := newConsumer(reader, "t", "g", 5, handler, testLogger())
	c.sleep = noSleep

	err := c.Start(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int64{7}, reader.committed)
}

func TestConsumer_PermanentErrorIsNotRetried(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, msg Message) error {
		calls++
		return NewPermanentError("malformed", nil)
	}
	reader := &fakeFetcher{messages: []kafka.Message{{Offset: 1}, {Offset: 2}}}
	c := newConsumer(reader, "t", "g", 5, handler, testLogger())
	c.sleep = noSleep

	_ = c.Start(context.Background())
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int64{1, 2}, reader.committed)
}

func TestConsumer_GivesUpAfterMaxRetries(t *testing.T) {
	calls := 0
	handler := func(ctx context.Context, msg Message) error {
		calls++
		return NewTransientError("still down", nil)
	}
	reader := &fakeFetcher{messages: []kafka.Message{{Offset: 1}}}
	c := newConsumer(reader, "t", "g", 2, handler, testLogger())
	c.sleep = noSleep

	_ = c.Start(context.Background())
	assert.Equal(t, 3, calls)
}

func TestConsumer_MiddlewareSeesEveryAttempt(t *testing.T) {
	var seen []int
	reader := &fakeFetcher{messages: []kafka.Message{{Offset: 1}}}
	attempts := 0
	c := newConsumer(reader, "t", "g", 3, func(context.Context, Message) error {
		attempts++
		if attempts == 1 {
			return NewTransientError("once", nil)
		}
		return nil
	}, testLogger())
	c.sleep = noSleep
	c.Use(func(ctx context.Context, msg Message, next MessageHandler) error {
		seen = append(seen, msg.GetRetryCount())
		return next(ctx, msg)
	})

	_ = c.Start(context.Background())
	assert.Equal(t, []int{0, 1}, seen)
}

func TestConsumer_StartAfterClose(t *testing.T) {
	c := newConsumer(&fakeFetcher{}, "t", "g", 0, func(context.Context, Message) error { return nil }, testLogger())
	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Start(context.Background()), ErrConsumerClosed)
}

func TestRetryDelay_Bounded(t *testing.T) {
	for attempt := 0; attempt < 70; attempt++ {
		d := retryDelay(attempt)
		assert.GreaterOrEqual(t, d, retryBaseDelay/2)
		assert.LessOrEqual(t, d, retryMaxDelay)
	}
}
