package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/SscSPs/bizbooks/internal/core/domain"
)

// RegisterValidators adds the custom tags used by the request types in this package.
func RegisterValidators(v *validator.Validate) error {
	return v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // presence is enforced by "required"
		}
		_, err := time.Parse(domain.DateLayout, s)
		return err == nil
	})
}

// ParseDate parses an optional YYYY-MM-DD value. The empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(domain.DateLayout, s)
}
