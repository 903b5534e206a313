// Package apierror maps domain errors onto huma status errors.
package apierror

import (
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/magnetic-studio/studio-api/internal/validation"
)

// FromValidation turns validation.FieldErrors into a 422 with one detail per
// field, in the validator's order. Any other error becomes a 400.
func FromValidation(err error) error {
	var fieldErrs validation.FieldErrors
	if !errors.As(err, &fieldErrs) {
		return huma.Error400BadRequest(err.Error())
	}
	details := make([]error, len(fieldErrs))
	for i, fe := range fieldErrs {
		details[i] = &huma.ErrorDetail{
			Location: "body." + fe.Path,
			Message:  fe.Message,
		}
	}
	return huma.Error422UnprocessableEntity("validation failed", details...)
}
