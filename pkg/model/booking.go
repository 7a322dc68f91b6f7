package model

import "time"

const (
	BookingStatusConfirmed = "confirmed"
)

// Booking is the authoritative reservation record.
type Booking struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	PropertyID  string    `json:"propertyId" bson:"property_id"`
	UserID      string    `json:"userId" bson:"user_id"`
	CheckIn     time.Time `json:"checkIn" bson:"check_in"`
	CheckOut    time.Time `json:"checkOut" bson:"check_out"`
	Guests      int       `json:"guests" bson:"guests"`
	TotalAmount float64   `json:"totalAmount" bson:"total_amount"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// BookingRequest is the client body for a new booking. Pointers distinguish
// an omitted field from a zero value.
type BookingRequest struct {
	CheckIn     string   `json:"checkIn"`
	CheckOut    string   `json:"checkOut"`
	Guests      *int     `json:"guests"`
	TotalAmount *float64 `json:"totalAmount" validate:"omitempty,gte=0"`
}

// BookingDraft is a BookingRequest that passed parsing: dates are normalized
// to UTC midnight and guests is present.
type BookingDraft struct {
	CheckIn     time.Time
	CheckOut    time.Time
	Guests      int
	TotalAmount *float64
}

func (d BookingDraft) Nights() int {
	return Nights(d.CheckIn, d.CheckOut)
}

type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,min=1,max=1000"`
}
