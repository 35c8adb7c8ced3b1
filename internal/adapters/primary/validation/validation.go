package validation

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/clearcheck/approval-analytics-backend/internal/core/errors"
)

// Validator validates request data
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Required validates that a string is not empty
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors.Add(field, "This field is required")
	}
	return v
}

// OneOf validates value is one of the allowed values
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v // Empty is handled by Required
	}

	for _, a := range allowed {
		if value == a {
			return v
		}
	}

	v.errors.Add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// MinFloat validates a minimum float value
func (v *Validator) MinFloat(field string, value, min float64) *Validator {
	if value < min {
		v.errors.Add(field, "Must be at least "+strconv.FormatFloat(min, 'f', -1, 64))
	}
	return v
}

// Custom adds a custom validation
func (v *Validator) Custom(field string, valid bool, message string) *Validator {
	if !valid {
		v.errors.Add(field, message)
	}
	return v
}

// ParsedTime is a query timestamp plus whether it carried only a date.
type ParsedTime struct {
	Time     time.Time
	DateOnly bool
}

// timeLayouts are accepted query timestamp formats, date-only first.
var timeLayouts = []struct {
	layout   string
	dateOnly bool
}{
	{"2006-01-02", true},
	{time.RFC3339, false},
	{"2006-01-02T15:04:05", false},
}

// ParseTimeQueryParam parses an optional date or timestamp query parameter.
// Returns nil when the parameter is absent and an error when it is present
// but unparseable.
func ParseTimeQueryParam(r *http.Request, key string) (*ParsedTime, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil, nil
	}

	for _, l := range timeLayouts {
		if t, err := time.Parse(l.layout, value); err == nil {
			return &ParsedTime{Time: t.UTC(), DateOnly: l.dateOnly}, nil
		}
	}
	return nil, apperrors.ErrBadRequest
}

// ParseFloatQueryParam safely parses a float query parameter
func ParseFloatQueryParam(r *http.Request, key string, defaultValue float64) (float64, bool) {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue, true
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue, false
	}

	return value, true
}

// ParseStringQueryParam safely parses a string query parameter
func ParseStringQueryParam(r *http.Request, key string) *string {
	value := r.URL.Query().Get(key)
	if value == "" {
		return nil
	}
	return &value
}
