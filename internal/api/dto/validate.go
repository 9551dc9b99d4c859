package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/opsdeck/ticketing-service/pkg/util"
)

var validate = validator.New()

// Validate checks a request struct against its validation tags and converts
// failures into 400 validation errors with per-field details.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return apperrors.NewInternalError(err)
	}

	details := map[string]any{}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return apperrors.NewValidationError("invalid payload", details)
}
