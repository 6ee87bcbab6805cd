// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate collects field-level failures into one VALIDATION_ERROR.
// Harvest requests, ad hoc statements and configuration all go through it.
package validate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/relic/internal/platform/apperr"
)

// ErrInvalidJSON is returned when a request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator accumulates failures. Use a fresh value per input; it is not
// safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen counts runes, not bytes.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// Range is inclusive on both ends.
func (v *Validator) Range(field string, value, min, max int) *Validator {
	if value < min || value > max {
		v.add(field, fmt.Sprintf("Must be between %d and %d", min, max))
	}
	return v
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	for _, candidate := range allowed {
		if value == candidate {
			return v
		}
	}
	v.add(field, "Must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom records message when failed is true.
//
//	v.Custom("classification", !known, "Unknown classification")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns nil when every rule passed.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// Field builds a single-field validation error outside a chain.
func Field(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{Field: field, Message: message})
}
