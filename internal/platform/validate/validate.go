// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// Business rules run in the service layer through [Validator]. Request DTO
// shape checks run in handlers through [Struct], which reads `validate` struct
// tags. Both produce the same VALIDATION_ERROR envelope.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/taibuivan/movies/internal/platform/apperr"
)

// failedMessage is the top-level message of every validation error.
const failedMessage = "Validation failed"

var (
	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

	// structValidator reports JSON field names instead of Go field names.
	structValidator = newStructValidator()
)

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails with message if the trimmed value is empty.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, message)
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Range fails if the value is outside the [min, max] range (inclusive).
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

// AtMost fails if the value is greater than max.
func (v *Validator) AtMost(field string, value, max int) *Validator {
	if value > max {
		v.add(field, fmt.Sprintf("Must be less than or equal to %d", max))
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("rating", rating < 1 || rating > 5, "Rating must be between 1 and 5")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// Call it once at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError(failedMessage, v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// # Struct Tags

// Struct validates target against its `validate` struct tags.
//
// It returns nil when target is valid and a VALIDATION_ERROR listing every
// failing field otherwise.
func Struct(target any) error {
	err := structValidator.Struct(target)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}

	details := make([]apperr.FieldError, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		details = append(details, apperr.FieldError{Field: fieldErr.Field(), Message: messageFor(fieldErr)})
	}

	return apperr.ValidationError(failedMessage, details...)
}

// newStructValidator configures a validator that names fields by their JSON tag.
func newStructValidator() *validator.Validate {
	instance := validator.New(validator.WithRequiredStructEnabled())
	instance.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return instance
}

// messageFor renders a human-readable message for a failed struct tag.
func messageFor(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Minimum " + fieldErr.Param()
	case "max":
		return "Maximum " + fieldErr.Param()
	default:
		return "Invalid value"
	}
}
