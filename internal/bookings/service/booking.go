package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	bookingserrors "stayhub/internal/bookings/errors"
	"stayhub/internal/bookings/repository"
	"stayhub/internal/bookings/validator"
	"stayhub/internal/locking"
	propertyerrors "stayhub/internal/properties/errors"
	propertyrepo "stayhub/internal/properties/repository"
	usererrors "stayhub/internal/users/errors"
	userrepo "stayhub/internal/users/repository"
	"stayhub/pkg/config"
	"stayhub/pkg/contracts"
	mongodb "stayhub/pkg/db/mongo"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

const (
	MsgBookingCreated   = "Booking created successfully"
	MsgBookingCancelled = "Booking cancelled successfully"
	MsgNotYourBooking   = "You are not allowed to cancel this booking"
	MsgNotVisible       = "You are not allowed to view this booking"
	MsgPropertyBusy     = "Property is busy, please retry"

	priceTolerance = 0.005
)

type BookingService interface {
	Create(ctx context.Context, userID, propertyID string, req *model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, userID, bookingID string) error
	GetByID(ctx context.Context, userID, bookingID string) (*model.Booking, error)
	ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error)
}

// Dependencies are the collaborators of the booking engine. Cache may be nil.
type Dependencies struct {
	Bookings   repository.BookingRepository
	Properties propertyrepo.PropertyRepository
	Users      userrepo.UserRepository
	Tx         mongodb.TransactionManager
	Locker     contracts.Locker
	Notifier   contracts.Notifier
	Cache      contracts.CacheInvalidator
	Validator  *validator.BookingValidator
	Log        *logger.Logger
	Now        func() time.Time
}

type bookingService struct {
	Dependencies
}

func NewBookingService(deps Dependencies) BookingService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &bookingService{Dependencies: deps}
}

// Create validates the request, then writes the ledger entry and both
// mirrors in one transaction while holding the property lock. The owner is
// notified after commit.
func (s *bookingService) Create(ctx context.Context, userID, propertyID string, req *model.BookingRequest) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if !mongodb.IsValidID(propertyID) {
		return nil, apperrors.InvalidInput(validator.MsgInvalidProperty)
	}

	draft, err := s.Validator.ParseRequest(req, s.Now().UTC())
	if err != nil {
		return nil, s.validationError("Booking request rejected", err, "property_id", propertyID, "user_id", userID)
	}

	release, err := s.lock(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	defer release()

	var booking *model.Booking
	var property *model.Property
	err = s.Tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		property, err = s.findProperty(ctx, propertyID)
		if err != nil {
			return err
		}
		if property.Owner == userID {
			return apperrors.Forbidden(validator.MsgOwnProperty)
		}
		if err := s.Validator.CheckProperty(property, draft); err != nil {
			return s.validationError("Booking rejected for property", err, "property_id", propertyID, "user_id", userID)
		}
		if err := s.checkLedger(ctx, propertyID, draft); err != nil {
			return err
		}

		user, err := s.findUser(ctx, userID)
		if err != nil {
			return err
		}

		booking = &model.Booking{
			PropertyID:  propertyID,
			UserID:      userID,
			CheckIn:     draft.CheckIn,
			CheckOut:    draft.CheckOut,
			Guests:      draft.Guests,
			TotalAmount: s.totalAmount(property, draft),
			Status:      model.BookingStatusConfirmed,
		}
		if err := s.Bookings.Create(ctx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}

		property.BookedDates = append(property.BookedDates, model.BookedDate{
			ID:       booking.ID,
			CheckIn:  booking.CheckIn,
			CheckOut: booking.CheckOut,
			UserID:   userID,
		})
		if _, err := s.Properties.Save(ctx, property); err != nil {
			return apperrors.Internal("Failed to update property", err)
		}

		user.Bookings = append(user.Bookings, model.UserBooking{
			ID:         booking.ID,
			PropertyID: propertyID,
			StartDate:  booking.CheckIn,
			EndDate:    booking.CheckOut,
		})
		if _, err := s.Users.Save(ctx, user); err != nil {
			return apperrors.Internal("Failed to update user bookings", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to create booking", err, "property_id", propertyID, "user_id", userID)
		return nil, err
	}

	s.invalidate(propertyID)
	s.Notifier.Notify(ctx, property.Owner,
		fmt.Sprintf("New booking for %q from %s to %s (%d guests)",
			property.Title,
			booking.CheckIn.Format(model.DateLayout),
			booking.CheckOut.Format(model.DateLayout),
			booking.Guests,
		),
		model.NotificationTypeBooking,
	)

	s.Log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"property_id", propertyID,
		"user_id", userID,
		"check_in", booking.CheckIn.Format(model.DateLayout),
		"check_out", booking.CheckOut.Format(model.DateLayout),
		"total_amount", booking.TotalAmount,
	)
	return booking, nil
}

// Cancel removes the booking from the ledger and both mirrors. Once the
// booking exists, anything but the guest's own mirror entry is Forbidden.
func (s *bookingService) Cancel(ctx context.Context, userID, bookingID string) error {
	if userID == "" {
		return apperrors.Unauthorized("Authentication required")
	}
	if !mongodb.IsValidID(bookingID) {
		return apperrors.InvalidInput(validator.MsgInvalidBooking)
	}

	existing, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}

	release, err := s.lock(ctx, existing.PropertyID)
	if err != nil {
		return err
	}
	defer release()

	var property *model.Property
	err = s.Tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		// Re-read under the lock: a concurrent cancel may have won.
		booking, err := s.findBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		property, err = s.findProperty(ctx, booking.PropertyID)
		if err != nil {
			return err
		}
		if booking.UserID != userID || property.BookedDateFor(bookingID, userID) < 0 {
			return apperrors.Forbidden(MsgNotYourBooking)
		}

		if err := s.Bookings.Delete(ctx, bookingID); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", bookingID)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}

		property.RemoveBookedDate(bookingID)
		if _, err := s.Properties.Save(ctx, property); err != nil {
			return apperrors.Internal("Failed to update property", err)
		}

		user, err := s.findUser(ctx, userID)
		if err != nil {
			return err
		}
		user.RemoveBooking(bookingID)
		if _, err := s.Users.Save(ctx, user); err != nil {
			return apperrors.Internal("Failed to update user bookings", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("Failed to cancel booking", err, "booking_id", bookingID, "user_id", userID)
		return err
	}

	s.invalidate(property.ID)
	s.Notifier.Notify(ctx, property.Owner,
		fmt.Sprintf("Booking for %q from %s to %s was cancelled",
			property.Title,
			existing.CheckIn.Format(model.DateLayout),
			existing.CheckOut.Format(model.DateLayout),
		),
		model.NotificationTypeCancellation,
	)

	s.Log.Info("Booking cancelled successfully", "booking_id", bookingID, "property_id", property.ID, "user_id", userID)
	return nil
}

// GetByID returns a booking to its guest or to the owner of its property.
func (s *bookingService) GetByID(ctx context.Context, userID, bookingID string) (*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if !mongodb.IsValidID(bookingID) {
		return nil, apperrors.InvalidInput(validator.MsgInvalidBooking)
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID == userID {
		return booking, nil
	}

	property, err := s.findProperty(ctx, booking.PropertyID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return nil, apperrors.Forbidden(MsgNotVisible)
		}
		return nil, err
	}
	if property.Owner != userID {
		return nil, apperrors.Forbidden(MsgNotVisible)
	}
	return booking, nil
}

func (s *bookingService) ListByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.Unauthorized("Authentication required")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.Bookings.CountByUser(ctx, userID)
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.Bookings.FindByUser(ctx, userID, limit, offset)
	}()

	wg.Wait()
	if err := errors.Join(errCount, errFind); err != nil {
		s.Log.Error("Failed to list bookings", "user_id", userID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) lock(ctx context.Context, propertyID string) (func(), error) {
	release, err := s.Locker.Lock(ctx, propertyID)
	if err == nil {
		return release, nil
	}
	if errors.Is(err, locking.ErrLockTimeout) {
		s.Log.Warn("Property lock wait exhausted", "property_id", propertyID)
		return nil, apperrors.Conflict(MsgPropertyBusy)
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return nil, apperrors.Timeout("Request cancelled while waiting for property")
	}
	return nil, apperrors.Internal("Failed to acquire property lock", err)
}

// checkLedger re-checks overlap against the booking ledger. The property
// mirror already passed, so a hit here means the mirror has drifted.
func (s *bookingService) checkLedger(ctx context.Context, propertyID string, draft *model.BookingDraft) error {
	n, err := s.Bookings.CountOverlapping(ctx, propertyID, draft.CheckIn, draft.CheckOut)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}
	if n > 0 {
		s.Log.Warn("Booked dates mirror is missing ledger entries",
			"property_id", propertyID,
			"overlapping", n,
		)
		return apperrors.InvalidInput(validator.MsgOverlap)
	}
	return nil
}

// totalAmount trusts a client-supplied amount and derives one when absent.
func (s *bookingService) totalAmount(p *model.Property, draft *model.BookingDraft) float64 {
	expected := p.PricePerNight * float64(draft.Nights())
	if draft.TotalAmount == nil {
		return expected
	}
	if math.Abs(*draft.TotalAmount-expected) > priceTolerance {
		s.Log.Warn("Client total differs from nightly rate",
			"property_id", p.ID,
			"supplied", *draft.TotalAmount,
			"expected", expected,
			"nights", draft.Nights(),
		)
	}
	return *draft.TotalAmount
}

func (s *bookingService) findProperty(ctx context.Context, id string) (*model.Property, error) {
	property, err := s.Properties.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, propertyerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Property", id)
		}
		if errors.Is(err, propertyerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput(validator.MsgInvalidProperty)
		}
		return nil, apperrors.Internal("Failed to retrieve property", err)
	}
	return property, nil
}

func (s *bookingService) findBooking(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.Bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput(validator.MsgInvalidBooking)
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) findUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.Users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) || errors.Is(err, usererrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *bookingService) invalidate(propertyID string) {
	if s.Cache != nil {
		s.Cache.Invalidate(propertyID)
	}
}

func (s *bookingService) validationError(msg string, err error, attrs ...any) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		s.Log.Debug(msg, append(attrs, "error", err)...)
		return apperrors.InvalidInput(verrs.Message())
	}
	return apperrors.Internal("Failed to validate booking", err)
}

// logFailure logs client errors at Debug and everything else at Error.
func (s *bookingService) logFailure(msg string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() < 500 {
		s.Log.Debug(msg, attrs...)
		return
	}
	s.Log.Error(msg, attrs...)
}
