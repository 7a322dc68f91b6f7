package model

import "time"

// PropertyLock is an advisory lock document serializing mutations of one
// property. The unique _id makes a second insert fail while the lock is held.
type PropertyLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
