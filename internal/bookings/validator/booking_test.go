package validator

import (
	"errors"
	"io"
	"testing"
	"time"

	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Output: io.Discard}))
}

func day(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

func firstMessage(t *testing.T, err error) string {
	t.Helper()
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs), "expected ValidationErrors, got %v", err)
	return verrs.Message()
}

func TestParseRequest(t *testing.T) {
	v := newValidator()
	today := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	two := 2

	draft, err := v.ParseRequest(&model.BookingRequest{CheckIn: " 2025-06-01 ", CheckOut: "2025-06-04", Guests: &two}, today)
	require.NoError(t, err)
	assert.Equal(t, day("2025-06-01"), draft.CheckIn)
	assert.Equal(t, 3, draft.Nights())
	assert.Nil(t, draft.TotalAmount)

	_, err = v.ParseRequest(nil, today)
	assert.Equal(t, MsgMissingDetails, firstMessage(t, err))

	_, err = v.ParseRequest(&model.BookingRequest{CheckIn: "2025-05-31", CheckOut: "2025-06-04", Guests: &two}, today)
	assert.Equal(t, MsgCheckInPast, firstMessage(t, err))

	_, err = v.ParseRequest(&model.BookingRequest{CheckIn: "2025-06-02", CheckOut: "06/04/2025", Guests: &two}, today)
	assert.Equal(t, MsgInvalidDate, firstMessage(t, err))
}

func TestCheckProperty(t *testing.T) {
	v := newValidator()
	p := &model.Property{
		ID:        "p1",
		MaxGuests: 3,
		Availability: &model.AvailabilityWindow{
			StartDate: day("2025-06-01"),
			EndDate:   day("2025-06-30"),
		},
		BookedDates: []model.BookedDate{{ID: "b1", CheckIn: day("2025-06-10"), CheckOut: day("2025-06-15")}},
	}

	tests := []struct {
		name    string
		draft   model.BookingDraft
		message string
	}{
		{"fits", model.BookingDraft{CheckIn: day("2025-06-15"), CheckOut: day("2025-06-20"), Guests: 3}, ""},
		{"too many guests", model.BookingDraft{CheckIn: day("2025-06-15"), CheckOut: day("2025-06-20"), Guests: 4}, "This property allows a maximum of 3 guests"},
		{"past window end", model.BookingDraft{CheckIn: day("2025-06-29"), CheckOut: day("2025-07-01"), Guests: 1}, MsgOutsideWindow},
		{"overlap", model.BookingDraft{CheckIn: day("2025-06-14"), CheckOut: day("2025-06-16"), Guests: 1}, MsgOverlap},
		{"touching before", model.BookingDraft{CheckIn: day("2025-06-05"), CheckOut: day("2025-06-10"), Guests: 1}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.CheckProperty(p, &tt.draft)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.message, firstMessage(t, err))
		})
	}

	p.Availability = nil
	assert.NoError(t, v.CheckProperty(p, &model.BookingDraft{CheckIn: day("2030-01-01"), CheckOut: day("2030-01-05"), Guests: 1}))
}
