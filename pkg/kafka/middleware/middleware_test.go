package kafka_middleware

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"stayhub/pkg/kafka"
	"stayhub/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := NewMetrics()
	publish := m.ProducerMiddleware()
	consume := m.ConsumerMiddleware()
	ok := func(context.Context, kafka.Message) error { return nil }
	fail := func(context.Context, kafka.Message) error { return errors.New("boom") }
	slow := func(context.Context, kafka.Message) error {
		time.Sleep(time.Millisecond)
		return nil
	}

	_ = publish(context.Background(), kafka.Message{}, ok)
	_ = publish(context.Background(), kafka.Message{}, fail)
	_ = consume(context.Background(), kafka.Message{}, slow)

	s := m.Snapshot()
	assert.Equal(t, int64(1), s.Published)
	assert.Equal(t, int64(1), s.PublishFailed)
	assert.Equal(t, int64(1), s.Consumed)
	assert.Zero(t, s.ConsumeFailed)
	assert.Greater(t, s.AvgConsumeDuration, time.Duration(0))
}

func TestLoggingMiddleware_PassesErrorThrough(t *testing.T) {
	log := logger.New(logger.Config{Output: io.Discard})
	want := errors.New("boom")
	fail := func(context.Context, kafka.Message) error { return want }

	assert.ErrorIs(t, LoggingProducerMiddleware(log)(context.Background(), kafka.Message{}, fail), want)
	assert.ErrorIs(t, LoggingConsumerMiddleware(log)(context.Background(), kafka.Message{}, fail), want)
}
