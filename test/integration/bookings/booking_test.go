//go:build integration

package bookings

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	bookingrepo "stayhub/internal/bookings/repository"
	"stayhub/pkg/client"
	"stayhub/pkg/model"
	"stayhub/test/integration/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type createResponse struct {
	Success     bool          `json:"success"`
	Message     string        `json:"message"`
	TotalAmount float64       `json:"totalAmount"`
	Booking     model.Booking `json:"booking"`
}

type reviewResponse struct {
	Message       string  `json:"message"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

func day(base time.Time, offset int) string {
	return base.AddDate(0, 0, offset).Format(time.DateOnly)
}

func TestBookingLifecycle(t *testing.T) {
	env := testutil.NewTestEnv()
	db := env.Setup(t)
	ctx := context.Background()

	today := model.DateOnly(time.Now())
	ownerID := db.SeedUser(t, "owner")
	guestID := db.SeedUser(t, "guest")
	otherID := db.SeedUser(t, "other")
	propertyID := db.SeedProperty(t, ownerID, 120, 3, today, today.AddDate(0, 0, 120))

	guest := env.ClientFor(t, guestID, "guest")
	other := env.ClientFor(t, otherID, "other")
	owner := env.ClientFor(t, ownerID, "owner")

	resp, err := guest.CreateBooking(ctx, propertyID, map[string]any{
		"checkIn": day(today, 30), "checkOut": day(today, 33), "guests": 2,
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))

	var created createResponse
	require.NoError(t, resp.DecodeJSON(&created))
	assert.True(t, created.Success)
	assert.Equal(t, 360.0, created.TotalAmount)
	bookingID := created.Booking.ID
	require.NotEmpty(t, bookingID)

	var property model.Property
	db.FindOne(t, "Properties", propertyID, &property)
	require.Len(t, property.BookedDates, 1)
	assert.Equal(t, bookingID, property.BookedDates[0].ID)

	var profile model.User
	db.FindOne(t, "Users", guestID, &profile)
	require.Len(t, profile.Bookings, 1)
	assert.Equal(t, bookingID, profile.Bookings[0].ID)

	t.Run("overlap is rejected", func(t *testing.T) {
		resp, err := other.CreateBooking(ctx, propertyID, map[string]any{
			"checkIn": day(today, 32), "checkOut": day(today, 35), "guests": 1,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("back to back is allowed", func(t *testing.T) {
		resp, err := other.CreateBooking(ctx, propertyID, map[string]any{
			"checkIn": day(today, 33), "checkOut": day(today, 34), "guests": 1,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode, string(resp.Body))
	})

	t.Run("owner cannot book", func(t *testing.T) {
		resp, err := owner.CreateBooking(ctx, propertyID, map[string]any{
			"checkIn": day(today, 50), "checkOut": day(today, 51), "guests": 1,
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("only the guest can cancel", func(t *testing.T) {
		resp, err := other.CancelBooking(ctx, bookingID)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp, err = guest.CancelBooking(ctx, bookingID)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

		assert.Zero(t, db.CountDocuments(t, bookingrepo.CollectionName, bson.M{"user_id": guestID}))
		db.FindOne(t, "Properties", propertyID, &property)
		for _, bd := range property.BookedDates {
			assert.NotEqual(t, bookingID, bd.ID)
		}
	})

	t.Run("review updates aggregate", func(t *testing.T) {
		resp, err := guest.PostReview(ctx, propertyID, map[string]any{"rating": 5, "comment": "Lovely"})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(resp.Body))

		resp, err = other.PostReview(ctx, propertyID, map[string]any{"rating": 4, "comment": "Good"})
		require.NoError(t, err)
		var review reviewResponse
		require.NoError(t, resp.DecodeJSON(&review))
		assert.Equal(t, 4.5, review.AverageRating)
		assert.Equal(t, 2, review.ReviewCount)

		resp, err = guest.PostReview(ctx, propertyID, map[string]any{"rating": 1, "comment": "Again"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestConcurrentBookingsSameDates(t *testing.T) {
	env := testutil.NewTestEnv()
	db := env.Setup(t)
	ctx := context.Background()

	today := model.DateOnly(time.Now())
	ownerID := db.SeedUser(t, "owner")
	propertyID := db.SeedProperty(t, ownerID, 80, 2, today, today.AddDate(0, 0, 60))

	const requests = 6
	clients := make([]*client.BookingClient, requests)
	for i := range clients {
		username := fmt.Sprintf("guest%d", i)
		clients[i] = env.ClientFor(t, db.SeedUser(t, username), username)
	}

	var wg sync.WaitGroup
	statuses := make([]int, requests)
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := clients[i].CreateBooking(ctx, propertyID, map[string]any{
				"checkIn": day(today, 10), "checkOut": day(today, 12), "guests": 1,
			})
			if err == nil {
				statuses[i] = resp.StatusCode
			}
		}(i)
	}
	wg.Wait()

	created := 0
	for _, s := range statuses {
		if s == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, 1, created, "statuses: %v", statuses)
	assert.Equal(t, int64(1), db.CountDocuments(t, bookingrepo.CollectionName, bson.M{"property_id": propertyID}))
}
