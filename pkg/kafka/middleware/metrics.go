package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"stayhub/pkg/kafka"
	"stayhub/pkg/logger"
)

// Metrics counts broker traffic for one process.
type Metrics struct {
	published       atomic.Int64
	publishFailed   atomic.Int64
	publishDuration atomic.Int64
	consumed        atomic.Int64
	consumeFailed   atomic.Int64
	consumeDuration atomic.Int64
}

type Snapshot struct {
	Published          int64         `json:"published"`
	PublishFailed      int64         `json:"publishFailed"`
	AvgPublishDuration time.Duration `json:"avgPublishDuration"`
	Consumed           int64         `json:"consumed"`
	ConsumeFailed      int64         `json:"consumeFailed"`
	AvgConsumeDuration time.Duration `json:"avgConsumeDuration"`
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) Snapshot() Snapshot {
	published, consumed := m.published.Load(), m.consumed.Load()
	return Snapshot{
		Published:          published,
		PublishFailed:      m.publishFailed.Load(),
		AvgPublishDuration: avg(m.publishDuration.Load(), published),
		Consumed:           consumed,
		ConsumeFailed:      m.consumeFailed.Load(),
		AvgConsumeDuration: avg(m.consumeDuration.Load(), consumed),
	}
}

// Log writes the current counters at Info.
func (m *Metrics) Log(log *logger.Logger) {
	s := m.Snapshot()
	log.Info("kafka metrics",
		"published", s.Published,
		"publish_failed", s.PublishFailed,
		"avg_publish_duration", s.AvgPublishDuration,
		"consumed", s.Consumed,
		"consume_failed", s.ConsumeFailed,
		"avg_consume_duration", s.AvgConsumeDuration,
	)
}

func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.publishDuration.Add(int64(time.Since(start)))
		if err != nil {
			m.publishFailed.Add(1)
		} else {
			m.published.Add(1)
		}
		return err
	}
}

func (m *Metrics) ConsumerMiddleware() kafka.ConsumerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next kafka.MessageHandler) error {
		start := time.Now()
		err := next(ctx, msg)
		m.consumeDuration.Add(int64(time.Since(start)))
		if err != nil {
			m.consumeFailed.Add(1)
		} else {
			m.consumed.Add(1)
		}
		return err
	}
}

func avg(total, n int64) time.Duration {
	if n == 0 {
		return 0
	}
	return time.Duration(total / n)
}
