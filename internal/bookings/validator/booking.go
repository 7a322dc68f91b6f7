package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stayhub/pkg/logger"
	"stayhub/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	MsgMissingDetails  = "Missing required details: checkIn, checkOut and guests"
	MsgInvalidDate     = "Invalid date format, expected YYYY-MM-DD"
	MsgCheckInPast     = "Check-in date cannot be in the past"
	MsgCheckOutOrder   = "Check-out date must be after check-in date"
	MsgGuestsMin       = "Guests must be at least 1"
	MsgNegativeAmount  = "totalAmount cannot be negative"
	MsgGuestLimitFmt   = "This property allows a maximum of %d guests"
	MsgOutsideWindow   = "Selected dates are outside the property's availability range"
	MsgOverlap         = "Selected dates overlap with an existing booking"
	MsgOwnProperty     = "You cannot book your own property"
	MsgInvalidProperty = "Invalid Property ID"
	MsgInvalidBooking  = "Invalid Booking ID"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// Message is the first failure's client-facing text.
func (v ValidationErrors) Message() string {
	if len(v) == 0 {
		return ""
	}
	return v[0].Message
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func invalid(field, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Message: message}}
}

// ParseRequest turns a raw booking body into a draft, checking presence,
// date format, check-in not before today and date order, in that order.
// today is compared at midnight UTC.
func (v *BookingValidator) ParseRequest(req *model.BookingRequest, today time.Time) (*model.BookingDraft, error) {
	if req == nil || strings.TrimSpace(req.CheckIn) == "" || strings.TrimSpace(req.CheckOut) == "" || req.Guests == nil {
		return nil, invalid("checkIn", MsgMissingDetails)
	}

	checkIn, err := model.ParseDate(req.CheckIn)
	if err != nil {
		return nil, invalid("checkIn", MsgInvalidDate)
	}
	checkOut, err := model.ParseDate(req.CheckOut)
	if err != nil {
		return nil, invalid("checkOut", MsgInvalidDate)
	}

	if checkIn.Before(model.DateOnly(today)) {
		return nil, invalid("checkIn", MsgCheckInPast)
	}
	if !checkIn.Before(checkOut) {
		return nil, invalid("checkOut", MsgCheckOutOrder)
	}

	if *req.Guests < 1 {
		return nil, invalid("guests", MsgGuestsMin)
	}

	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, v.translateValidationErrors(validationErrs)
		}
		return nil, err
	}

	return &model.BookingDraft{
		CheckIn:     checkIn,
		CheckOut:    checkOut,
		Guests:      *req.Guests,
		TotalAmount: req.TotalAmount,
	}, nil
}

// CheckProperty applies the property-dependent rules: guest limit,
// availability window and overlap with booked dates.
func (v *BookingValidator) CheckProperty(p *model.Property, draft *model.BookingDraft) error {
	if draft.Guests > p.MaxGuests {
		return invalid("guests", fmt.Sprintf(MsgGuestLimitFmt, p.MaxGuests))
	}
	if !p.Availability.Contains(draft.CheckIn, draft.CheckOut) {
		return invalid("checkIn", MsgOutsideWindow)
	}
	if existing, ok := p.FindOverlap(draft.CheckIn, draft.CheckOut); ok {
		v.logger.Debug("Booking overlaps existing range",
			"property_id", p.ID,
			"existing_booking_id", existing.ID,
			"check_in", draft.CheckIn.Format(model.DateLayout),
			"check_out", draft.CheckOut.Format(model.DateLayout),
		)
		return invalid("checkIn", MsgOverlap)
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "gte":
			if err.Field() == "TotalAmount" {
				message = MsgNegativeAmount
			} else {
				message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
			}
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
