package validator

import (
	"errors"
	"fmt"

	"stayhub/pkg/model"
	"stayhub/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

const (
	MsgRatingRange     = "Rating must be between 1 and 5"
	MsgCommentRequired = "Comment is required"
)

type ReviewValidator struct {
	validate *validator.Validate
}

func NewReviewValidator() *ReviewValidator {
	return &ReviewValidator{validate: validator.New()}
}

// Normalize sanitizes the comment in place and validates the request.
// It returns the first problem as a client-facing message.
func (v *ReviewValidator) Normalize(req *model.ReviewRequest) error {
	req.Comment = sanitizer.SanitizeComment(req.Comment)

	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Rating problems are reported before comment problems.
	var first validator.FieldError
	for _, fe := range validationErrs {
		if first == nil || fe.Field() == "Rating" {
			first = fe
		}
	}

	switch {
	case first.Field() == "Rating":
		return errors.New(MsgRatingRange)
	case first.Field() == "Comment":
		return errors.New(MsgCommentRequired)
	default:
		return fmt.Errorf("%s is invalid", first.Field())
	}
}
