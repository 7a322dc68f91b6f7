package model

import "time"

const (
	NotificationTypeBooking      = "booking"
	NotificationTypeCancellation = "cancellation"
	NotificationTypeReview       = "review"
)

type Notification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string    `json:"userId" bson:"user_id"`
	Message   string    `json:"message" bson:"message"`
	Type      string    `json:"type" bson:"type"`
	IsRead    bool      `json:"isRead" bson:"is_read"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
