package repository

import (
	"context"
	"slices"
	"sync"

	propertyerrors "stayhub/internal/properties/errors"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"
)

// MemoryPropertyRepository keeps copies of properties so callers cannot
// mutate stored state without Save, matching the Mongo store.
type MemoryPropertyRepository struct {
	mu    sync.Mutex
	items map[string]model.Property
	saves int
}

func NewMemoryPropertyRepository(properties ...*model.Property) *MemoryPropertyRepository {
	r := &MemoryPropertyRepository{items: make(map[string]model.Property)}
	for _, p := range properties {
		if p.ID == "" {
			p.ID = mongodb.NewID()
		}
		r.items[p.ID] = cloneProperty(p)
	}
	return r
}

func (r *MemoryPropertyRepository) FindByID(_ context.Context, id string) (*model.Property, error) {
	if !mongodb.IsValidID(id) {
		return nil, propertyerrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return nil, propertyerrors.ErrNotFound
	}
	out := cloneProperty(&p)
	return &out, nil
}

func (r *MemoryPropertyRepository) Save(_ context.Context, property *model.Property) (*model.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[property.ID]; !ok {
		return nil, propertyerrors.ErrNotFound
	}
	property.AverageRating, property.ReviewCount = model.RecomputeRatings(property)
	r.items[property.ID] = cloneProperty(property)
	r.saves++
	return property, nil
}

// Saves counts successful Save calls.
func (r *MemoryPropertyRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}

func cloneProperty(p *model.Property) model.Property {
	out := *p
	out.BookedDates = slices.Clone(p.BookedDates)
	out.Reviews = slices.Clone(p.Reviews)
	if p.Availability != nil {
		w := *p.Availability
		out.Availability = &w
	}
	return out
}
