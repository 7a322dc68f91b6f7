package repository

import (
	"context"
	"sort"
	"sync"

	notificationerrors "stayhub/internal/notifications/errors"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"
)

// MemoryInboxRepository is an InboxRepository for tests and local runs
// without MongoDB.
type MemoryInboxRepository struct {
	mu    sync.Mutex
	items map[string]model.Notification
}

func NewMemoryInboxRepository() *MemoryInboxRepository {
	return &MemoryInboxRepository{items: make(map[string]model.Notification)}
}

func (r *MemoryInboxRepository) Insert(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n.ID == "" {
		n.ID = mongodb.NewID()
	} else if !mongodb.IsValidID(n.ID) {
		return notificationerrors.ErrInvalidID
	}
	if _, ok := r.items[n.ID]; ok {
		return notificationerrors.ErrDuplicate
	}
	r.items[n.ID] = *n
	return nil
}

func (r *MemoryInboxRepository) FindByUser(_ context.Context, userID string, limit int, offset int64) ([]*model.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.Notification{}
	for _, n := range r.items {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	if offset >= int64(len(out)) {
		return []*model.Notification{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryInboxRepository) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, n := range r.items {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *MemoryInboxRepository) MarkRead(_ context.Context, id, userID string) error {
	if !mongodb.IsValidID(id) {
		return notificationerrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[id]
	if !ok || n.UserID != userID {
		return notificationerrors.ErrNotFound
	}
	n.IsRead = true
	r.items[id] = n
	return nil
}

func (r *MemoryInboxRepository) All() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Notification, 0, len(r.items))
	for _, n := range r.items {
		out = append(out, n)
	}
	return out
}
