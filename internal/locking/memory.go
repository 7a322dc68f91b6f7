package locking

import (
	"context"
	"sync"
	"time"

	"stayhub/pkg/model"
)

// MemoryRepository is a process-local Repository for single-instance runs
// and tests.
type MemoryRepository struct {
	mu    sync.Mutex
	locks map[string]model.PropertyLock
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{locks: make(map[string]model.PropertyLock)}
}

func (r *MemoryRepository) Insert(_ context.Context, lock *model.PropertyLock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, held := r.locks[lock.ID]; held {
		return ErrLockHeld
	}
	r.locks[lock.ID] = *lock
	return nil
}

func (r *MemoryRepository) TakeOver(_ context.Context, lock *model.PropertyLock, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, held := r.locks[lock.ID]
	if !held || current.ExpiresAt.After(now) {
		return false, nil
	}
	r.locks[lock.ID] = *lock
	return true, nil
}

func (r *MemoryRepository) Delete(_ context.Context, id, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, held := r.locks[id]; held && current.Owner == owner {
		delete(r.locks, id)
	}
	return nil
}

func (r *MemoryRepository) Held(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, held := r.locks[id]
	return held
}
