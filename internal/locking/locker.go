package locking

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/google/uuid"
)

const (
	defaultBaseDelay    = 10 * time.Millisecond
	defaultMaxDelay     = 500 * time.Millisecond
	defaultJitterFactor = 0.3
	releaseTimeout      = 5 * time.Second
)

// PropertyLocker serializes every read-check-write on a single property
// across service instances.
type PropertyLocker struct {
	repo         Repository
	ttl          time.Duration
	wait         time.Duration
	baseDelay    time.Duration
	maxDelay     time.Duration
	jitterFactor float64
	log          *logger.Logger
	now          func() time.Time
}

type Option func(*PropertyLocker)

func WithBackoff(base, maxDelay time.Duration) Option {
	return func(l *PropertyLocker) {
		l.baseDelay = base
		l.maxDelay = maxDelay
	}
}

func WithClock(now func() time.Time) Option {
	return func(l *PropertyLocker) {
		l.now = now
	}
}

// NewPropertyLocker creates a locker whose locks expire after ttl and whose
// callers give up after waiting wait.
func NewPropertyLocker(repo Repository, ttl, wait time.Duration, log *logger.Logger, opts ...Option) *PropertyLocker {
	l := &PropertyLocker{
		repo:         repo,
		ttl:          ttl,
		wait:         wait,
		baseDelay:    defaultBaseDelay,
		maxDelay:     defaultMaxDelay,
		jitterFactor: defaultJitterFactor,
		log:          log,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func LockID(propertyID string) string {
	return "property_lock_" + propertyID
}

// Lock blocks until the property lock is acquired, the wait budget runs out
// (ErrLockTimeout) or ctx is done. The returned release func is safe to defer.
func (l *PropertyLocker) Lock(ctx context.Context, propertyID string) (func(), error) {
	id := LockID(propertyID)
	owner := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(l.backoff(attempt)):
			case <-ctx.Done():
				if errors.Is(ctx.Err(), context.DeadlineExceeded) {
					return nil, fmt.Errorf("%w: %s", ErrLockTimeout, propertyID)
				}
				return nil, ctx.Err()
			}
		}

		acquired, err := l.tryAcquire(ctx, id, owner)
		if err != nil {
			return nil, err
		}
		if acquired {
			if attempt > 0 {
				l.log.Debug("Property lock acquired after contention", "property_id", propertyID, "attempts", attempt+1)
			}
			return l.releaser(id, owner, propertyID), nil
		}
	}
}

func (l *PropertyLocker) tryAcquire(ctx context.Context, id, owner string) (bool, error) {
	now := l.now().UTC()
	lock := &model.PropertyLock{
		ID:        id,
		Owner:     owner,
		ExpiresAt: now.Add(l.ttl),
		CreatedAt: now,
	}

	err := l.repo.Insert(ctx, lock)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrLockHeld) {
		return false, err
	}

	// The holder may have crashed; a lock past its expiry is up for grabs.
	return l.repo.TakeOver(ctx, lock, now)
}

// backoff is baseDelay * 2^(attempt-1) plus jitter, capped at maxDelay.
func (l *PropertyLocker) backoff(attempt int) time.Duration {
	delay := l.baseDelay << min(attempt-1, 16)
	if delay > l.maxDelay || delay <= 0 {
		delay = l.maxDelay
	}
	jitter := rand.Float64() * float64(delay) * l.jitterFactor //nolint:gosec // jitter only
	return delay + time.Duration(jitter)
}

func (l *PropertyLocker) releaser(id, owner, propertyID string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := l.repo.Delete(ctx, id, owner); err != nil {
			l.log.Warn("Failed to release property lock",
				"property_id", propertyID,
				"lock_id", id,
				"error", err,
			)
		}
	}
}
