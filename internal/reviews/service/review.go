package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayhub/internal/locking"
	propertyerrors "stayhub/internal/properties/errors"
	propertyrepo "stayhub/internal/properties/repository"
	"stayhub/internal/reviews/validator"
	usererrors "stayhub/internal/users/errors"
	userrepo "stayhub/internal/users/repository"
	"stayhub/pkg/contracts"
	mongodb "stayhub/pkg/db/mongo"
	apperrors "stayhub/pkg/errors"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
	"stayhub/pkg/sanitizer"
)

const (
	MsgReviewAdded     = "Review added"
	MsgAlreadyReviewed = "You have already reviewed this property"
	MsgInvalidProperty = "Invalid Property ID"
)

// ReviewResult is the property's rating aggregate after the review landed.
type ReviewResult struct {
	AverageRating float64
	ReviewCount   int
}

type ReviewService interface {
	Post(ctx context.Context, userID, propertyID string, req *model.ReviewRequest) (*ReviewResult, error)
}

type reviewService struct {
	properties propertyrepo.PropertyRepository
	users      userrepo.UserRepository
	tx         mongodb.TransactionManager
	locker     contracts.Locker
	notifier   contracts.Notifier
	cache      contracts.CacheInvalidator
	validator  *validator.ReviewValidator
	log        *logger.Logger
	now        func() time.Time
}

// NewReviewService builds the review aggregation service. cache may be nil.
func NewReviewService(
	properties propertyrepo.PropertyRepository,
	users userrepo.UserRepository,
	tx mongodb.TransactionManager,
	locker contracts.Locker,
	notifier contracts.Notifier,
	cache contracts.CacheInvalidator,
	validator *validator.ReviewValidator,
	log *logger.Logger,
) ReviewService {
	return &reviewService{
		properties: properties,
		users:      users,
		tx:         tx,
		locker:     locker,
		notifier:   notifier,
		cache:      cache,
		validator:  validator,
		log:        log,
		now:        time.Now,
	}
}

// Post appends the caller's only review of a property and mirrors it into
// their profile. The property store recomputes the aggregate on save.
func (s *reviewService) Post(ctx context.Context, userID, propertyID string, req *model.ReviewRequest) (*ReviewResult, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("Authentication required")
	}
	if !mongodb.IsValidID(propertyID) {
		return nil, apperrors.InvalidInput(MsgInvalidProperty)
	}
	if err := s.validator.Normalize(req); err != nil {
		s.log.Debug("Review rejected", "property_id", propertyID, "user_id", userID, "error", err)
		return nil, apperrors.InvalidInput(err.Error())
	}

	release, err := s.locker.Lock(ctx, propertyID)
	if err != nil {
		if errors.Is(err, locking.ErrLockTimeout) {
			return nil, apperrors.Conflict("Property is busy, please retry")
		}
		return nil, apperrors.Internal("Failed to acquire property lock", err)
	}
	defer release()

	var saved *model.Property
	err = s.tx.ExecuteTransaction(ctx, func(ctx context.Context) error {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, usererrors.ErrNotFound) || errors.Is(err, usererrors.ErrInvalidID) {
				return apperrors.NotFoundWithID("User", userID)
			}
			return apperrors.Internal("Failed to retrieve user", err)
		}

		property, err := s.properties.FindByID(ctx, propertyID)
		if err != nil {
			if errors.Is(err, propertyerrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Property", propertyID)
			}
			return apperrors.Internal("Failed to retrieve property", err)
		}

		if property.HasReviewFrom(userID) {
			return apperrors.InvalidInput(MsgAlreadyReviewed)
		}

		property.Reviews = append(property.Reviews, model.Review{
			UserID:    userID,
			Username:  sanitizer.SanitizeDisplayName(user.Username),
			Rating:    req.Rating,
			Comment:   req.Comment,
			CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		})
		saved, err = s.properties.Save(ctx, property)
		if err != nil {
			return apperrors.Internal("Failed to save review", err)
		}

		user.ReviewsGiven = append(user.ReviewsGiven, model.ReviewGiven{
			PropertyID: propertyID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		})
		if _, err := s.users.Save(ctx, user); err != nil {
			return apperrors.Internal("Failed to update user reviews", err)
		}
		return nil
	})
	if err != nil {
		if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= 500 {
			s.log.Error("Failed to post review", "property_id", propertyID, "user_id", userID, "error", err)
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(propertyID)
	}
	s.notifier.Notify(ctx, saved.Owner,
		fmt.Sprintf("New %d-star review on %q", req.Rating, saved.Title),
		model.NotificationTypeReview,
	)

	s.log.Info("Review added",
		"property_id", propertyID,
		"user_id", userID,
		"rating", req.Rating,
		"average_rating", saved.AverageRating,
		"review_count", saved.ReviewCount,
	)
	return &ReviewResult{AverageRating: saved.AverageRating, ReviewCount: saved.ReviewCount}, nil
}
