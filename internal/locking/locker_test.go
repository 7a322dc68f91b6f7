package locking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(repo Repository, wait time.Duration, opts ...Option) *PropertyLocker {
	log := logger.New(logger.Config{Level: "error", Service: "test"})
	opts = append([]Option{WithBackoff(time.Millisecond, 5*time.Millisecond)}, opts...)
	return NewPropertyLocker(repo, time.Minute, wait, log, opts...)
}

func TestLock_AcquireAndRelease(t *testing.T) {
	repo := NewMemoryRepository()
	locker := newTestLocker(repo, time.Second)

	release, err := locker.Lock(context.Background(), "p1")
	require.NoError(t, err)
	assert.True(t, repo.Held(LockID("p1")))

	release()
	assert.False(t, repo.Held(LockID("p1")))
}

func TestLock_TimesOutWhileHeld(t *testing.T) {
	repo := NewMemoryRepository()
	locker := newTestLocker(repo, 30*time.Millisecond)

	release, err := locker.Lock(context.Background(), "p1")
	require.NoError(t, err)
	defer release()

	_, err = locker.Lock(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrLockTimeout)
}

func TestLock_IndependentProperties(t *testing.T) {
	locker := newTestLocker(NewMemoryRepository(), 30*time.Millisecond)

	r1, err := locker.Lock(context.Background(), "p1")
	require.NoError(t, err)
	defer r1()

	r2, err := locker.Lock(context.Background(), "p2")
	require.NoError(t, err)
	r2()
}

func TestLock_TakesOverExpiredLock(t *testing.T) {
	repo := NewMemoryRepository()
	stale := &model.PropertyLock{
		ID:        LockID("p1"),
		Owner:     "crashed-instance",
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, repo.Insert(context.Background(), stale))

	locker := newTestLocker(repo, 30*time.Millisecond)
	release, err := locker.Lock(context.Background(), "p1")
	require.NoError(t, err)
	release()
	assert.False(t, repo.Held(LockID("p1")))
}

func TestLock_ReleaseDoesNotDropForeignLock(t *testing.T) {
	repo := NewMemoryRepository()
	require.NoError(t, repo.Insert(context.Background(), &model.PropertyLock{ID: "x", Owner: "a", ExpiresAt: time.Now().Add(time.Minute)}))

	require.NoError(t, repo.Delete(context.Background(), "x", "b"))
	assert.True(t, repo.Held("x"))
}

func TestLock_SerializesCriticalSection(t *testing.T) {
	locker := newTestLocker(NewMemoryRepository(), 2*time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(context.Background(), "p1")
			if !assert.NoError(t, err) {
				return
			}
			n := atomic.AddInt32(&inside, 1)
			for {
				m := atomic.LoadInt32(&maxInside)
				if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
					break
				}
			}
			time.Sleep(2 * time.Millisecond)
			atomic.AddInt32(&inside, -1)
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

type failingRepo struct{ MemoryRepository }

func (f *failingRepo) Insert(context.Context, *model.PropertyLock) error {
	return errors.New("connection reset")
}

func TestLock_PropagatesStoreErrors(t *testing.T) {
	locker := newTestLocker(&failingRepo{}, time.Second)
	_, err := locker.Lock(context.Background(), "p1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrLockTimeout)
}

func TestLock_CallerCancellation(t *testing.T) {
	repo := NewMemoryRepository()
	locker := newTestLocker(repo, time.Second)
	release, err := locker.Lock(context.Background(), "p1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = locker.Lock(ctx, "p1")
	assert.ErrorIs(t, err, context.Canceled)
}
