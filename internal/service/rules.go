package service

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/sma-wellbeing-api/pkg/errors"
)

func utcNow() time.Time {
	return time.Now().UTC()
}

// validationError maps validator failures onto the rule-layer taxonomy:
// a missing required field is MissingField, anything else a validation error.
func validationError(err error, message string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Tag() == "required" {
			missing = append(missing, jsonFieldName(fe.Field()))
		}
	}
	if len(missing) > 0 {
		return appErrors.Wrap(err, appErrors.ErrMissingField.Code, appErrors.ErrMissingField.Status, strings.Join(missing, ", ")+" is required")
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}
