package repository

import (
	"context"
	"slices"
	"sync"

	usererrors "stayhub/internal/users/errors"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"
)

type MemoryUserRepository struct {
	mu    sync.Mutex
	items map[string]model.User
}

func NewMemoryUserRepository(users ...*model.User) *MemoryUserRepository {
	r := &MemoryUserRepository{items: make(map[string]model.User)}
	for _, u := range users {
		if u.ID == "" {
			u.ID = mongodb.NewID()
		}
		r.items[u.ID] = cloneUser(u)
	}
	return r
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	if !mongodb.IsValidID(id) {
		return nil, usererrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]
	if !ok {
		return nil, usererrors.ErrNotFound
	}
	out := cloneUser(&u)
	return &out, nil
}

func (r *MemoryUserRepository) Save(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[user.ID]; !ok {
		return nil, usererrors.ErrNotFound
	}
	r.items[user.ID] = cloneUser(user)
	return user, nil
}

func cloneUser(u *model.User) model.User {
	out := *u
	out.Bookings = slices.Clone(u.Bookings)
	out.ReviewsGiven = slices.Clone(u.ReviewsGiven)
	return out
}
