package model

import "time"

// Property is a rentable listing. BookedDates mirrors the Bookings ledger and
// Reviews drives the derived AverageRating and ReviewCount fields.
type Property struct {
	ID            string              `json:"id,omitempty" bson:"_id,omitempty"`
	Owner         string              `json:"owner" bson:"owner"`
	Title         string              `json:"title" bson:"title"`
	PricePerNight float64             `json:"pricePerNight" bson:"price_per_night"`
	MaxGuests     int                 `json:"maxGuests" bson:"max_guests"`
	Availability  *AvailabilityWindow `json:"availability,omitempty" bson:"availability,omitempty"`
	BookedDates   []BookedDate        `json:"bookedDates" bson:"booked_dates"`
	Reviews       []Review            `json:"reviews" bson:"reviews"`
	AverageRating float64             `json:"averageRating" bson:"average_rating"`
	ReviewCount   int                 `json:"reviewCount" bson:"review_count"`
	CreatedAt     time.Time           `json:"createdAt" bson:"created_at"`
}

// AvailabilityWindow bounds the dates a property can be booked for. Either
// end may be zero, meaning unbounded on that side.
type AvailabilityWindow struct {
	StartDate time.Time `json:"startDate" bson:"start_date"`
	EndDate   time.Time `json:"endDate" bson:"end_date"`
}

type BookedDate struct {
	ID       string    `json:"id" bson:"id"`
	CheckIn  time.Time `json:"checkIn" bson:"check_in"`
	CheckOut time.Time `json:"checkOut" bson:"check_out"`
	UserID   string    `json:"userId" bson:"user_id"`
}

type Review struct {
	UserID    string    `json:"userId" bson:"user_id"`
	Username  string    `json:"username" bson:"username"`
	Rating    int       `json:"rating" bson:"rating"`
	Comment   string    `json:"comment" bson:"comment"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

const (
	MinRating = 1
	MaxRating = 5
)

// RecomputeRatings derives the aggregate rating fields from reviews. It is a
// pure function; the property store calls it on every save.
func RecomputeRatings(p *Property) (float64, int) {
	count := len(p.Reviews)
	if count == 0 {
		return 0, 0
	}
	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(count), count
}

// Contains reports whether the half-open range [checkIn, checkOut) lies inside
// the window. Window bounds are inclusive calendar days.
func (w *AvailabilityWindow) Contains(checkIn, checkOut time.Time) bool {
	if w == nil {
		return true
	}
	if !w.StartDate.IsZero() && checkIn.Before(DateOnly(w.StartDate)) {
		return false
	}
	if !w.EndDate.IsZero() && checkOut.After(DateOnly(w.EndDate)) {
		return false
	}
	return true
}

// FindOverlap returns the first booked range that overlaps [checkIn, checkOut).
func (p *Property) FindOverlap(checkIn, checkOut time.Time) (BookedDate, bool) {
	for _, bd := range p.BookedDates {
		if Overlaps(bd.CheckIn, bd.CheckOut, checkIn, checkOut) {
			return bd, true
		}
	}
	return BookedDate{}, false
}

func (p *Property) HasReviewFrom(userID string) bool {
	for _, r := range p.Reviews {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

// BookedDateFor returns the index of the mirror entry for bookingID owned by
// userID, or -1.
func (p *Property) BookedDateFor(bookingID, userID string) int {
	for i, bd := range p.BookedDates {
		if bd.ID == bookingID && bd.UserID == userID {
			return i
		}
	}
	return -1
}

func (p *Property) RemoveBookedDate(bookingID string) {
	kept := p.BookedDates[:0]
	for _, bd := range p.BookedDates {
		if bd.ID != bookingID {
			kept = append(kept, bd)
		}
	}
	p.BookedDates = kept
}
