package model

import "time"

type User struct {
	ID           string        `json:"id,omitempty" bson:"_id,omitempty"`
	Username     string        `json:"username" bson:"username"`
	Email        string        `json:"email" bson:"email"`
	Role         string        `json:"role" bson:"role"`
	Bookings     []UserBooking `json:"bookings" bson:"bookings"`
	ReviewsGiven []ReviewGiven `json:"reviewsGiven" bson:"reviews_given"`
}

// UserBooking mirrors a Booking in the guest's profile under the same id.
type UserBooking struct {
	ID         string    `json:"id" bson:"id"`
	PropertyID string    `json:"propertyId" bson:"property_id"`
	StartDate  time.Time `json:"startDate" bson:"start_date"`
	EndDate    time.Time `json:"endDate" bson:"end_date"`
}

type ReviewGiven struct {
	PropertyID string `json:"propertyId" bson:"property_id"`
	Rating     int    `json:"rating" bson:"rating"`
	Comment    string `json:"comment" bson:"comment"`
}

func (u *User) RemoveBooking(bookingID string) {
	kept := u.Bookings[:0]
	for _, b := range u.Bookings {
		if b.ID != bookingID {
			kept = append(kept, b)
		}
	}
	u.Bookings = kept
}
