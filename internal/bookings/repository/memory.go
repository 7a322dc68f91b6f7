package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	bookingserrors "stayhub/internal/bookings/errors"
	mongodb "stayhub/pkg/db/mongo"
	"stayhub/pkg/model"
)

type MemoryBookingRepository struct {
	mu    sync.Mutex
	items map[string]model.Booking
}

func NewMemoryBookingRepository() *MemoryBookingRepository {
	return &MemoryBookingRepository{items: make(map[string]model.Booking)}
}

func (r *MemoryBookingRepository) Create(_ context.Context, booking *model.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if booking.Status == "" {
		booking.Status = model.BookingStatusConfirmed
	}
	booking.ID = mongodb.NewID()
	booking.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	r.items[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepository) FindByID(_ context.Context, id string) (*model.Booking, error) {
	if !mongodb.IsValidID(id) {
		return nil, bookingserrors.ErrInvalidID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.items[id]
	if !ok {
		return nil, bookingserrors.ErrNotFound
	}
	return &b, nil
}

func (r *MemoryBookingRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return bookingserrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *MemoryBookingRepository) FindByUser(_ context.Context, userID string, limit int, offset int64) ([]*model.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.Booking{}
	for _, b := range r.items {
		if b.UserID == userID {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CheckIn.After(out[j].CheckIn) })

	if offset >= int64(len(out)) {
		return []*model.Booking{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryBookingRepository) CountByUser(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, b := range r.items {
		if b.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryBookingRepository) CountOverlapping(_ context.Context, propertyID string, checkIn, checkOut time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, b := range r.items {
		if b.PropertyID == propertyID && model.Overlaps(b.CheckIn, b.CheckOut, checkIn, checkOut) {
			n++
		}
	}
	return n, nil
}

func (r *MemoryBookingRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
