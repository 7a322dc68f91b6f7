package testutil

import (
	"testing"
	"time"

	propertyrepo "stayhub/internal/properties/repository"
	userrepo "stayhub/internal/users/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SeedUser inserts a profile with empty mirrors and returns its id.
func (m *MongoHelper) SeedUser(t *testing.T, username string) string {
	t.Helper()
	id := primitive.NewObjectID()
	m.Insert(t, userrepo.CollectionName, bson.M{
		"_id":           id,
		"username":      username,
		"email":         username + "@example.com",
		"role":          "guest",
		"bookings":      bson.A{},
		"reviews_given": bson.A{},
	})
	return id.Hex()
}

// SeedProperty inserts a listing open for bookings between from and to.
func (m *MongoHelper) SeedProperty(t *testing.T, ownerID string, price float64, maxGuests int, from, to time.Time) string {
	t.Helper()
	id := primitive.NewObjectID()
	m.Insert(t, propertyrepo.CollectionName, bson.M{
		"_id":             id,
		"owner":           ownerID,
		"title":           "Integration Loft",
		"price_per_night": price,
		"max_guests":      maxGuests,
		"availability": bson.M{
			"start_date": from,
			"end_date":   to,
		},
		"booked_dates":   bson.A{},
		"reviews":        bson.A{},
		"average_rating": 0.0,
		"review_count":   0,
		"created_at":     time.Now().UTC(),
	})
	return id.Hex()
}
