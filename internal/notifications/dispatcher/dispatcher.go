package dispatcher

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

const deliveryTimeout = 10 * time.Second

// Dispatcher queues notifications and delivers them on a fixed worker pool.
// Notify never blocks the caller and never reports failure.
type Dispatcher struct {
	deliverer Deliverer
	queue     chan *model.Notification
	log       *logger.Logger
	now       func() time.Time
	wg        sync.WaitGroup
	mu        sync.RWMutex
	stopped   bool
	dropped   atomic.Int64
	failed    atomic.Int64
}

func New(deliverer Deliverer, workers, queueSize int, log *logger.Logger) *Dispatcher {
	d := &Dispatcher{
		deliverer: deliverer,
		queue:     make(chan *model.Notification, queueSize),
		log:       log,
		now:       time.Now,
	}
	for i := 0; i < max(workers, 1); i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Notify enqueues a message for userID. The request context is not carried
// into delivery: the notification outlives the request.
func (d *Dispatcher) Notify(ctx context.Context, userID, message, notificationType string) {
	n := &model.Notification{
		ID:        mongodb.NewID(),
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		CreatedAt: d.now().UTC().Truncate(time.Millisecond),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		d.dropped.Add(1)
		d.log.Warn("Notification dropped, dispatcher stopped", "user_id", userID, "type", notificationType)
		return
	}

	select {
	case d.queue <- n:
	default:
		d.dropped.Add(1)
		d.log.Warn("Notification dropped, queue full",
			"user_id", userID,
			"type", notificationType,
			"queue_size", cap(d.queue),
		)
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n *model.Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.failed.Add(1)
			d.log.Error("Notification delivery panicked", "notification_id", n.ID, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.deliverer.Deliver(ctx, n); err != nil {
		d.failed.Add(1)
		d.log.Error("Failed to deliver notification",
			"notification_id", n.ID,
			"user_id", n.UserID,
			"type", n.Type,
			"error", err,
		)
		return
	}
	d.log.Debug("Notification delivered", "notification_id", n.ID, "user_id", n.UserID, "type", n.Type)
}

// Stop refuses new notifications and waits for queued ones to be delivered
// or for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		d.log.Warn("Notification dispatcher stopped before draining", "pending", len(d.queue))
	}
}

func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) Failed() int64 {
	return d.failed.Load()
}
