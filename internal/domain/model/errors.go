package model

import (
	"errors"
	"sort"
	"strings"
)

// Configuration errors. These indicate bad data or a programming mistake and
// are never converted into a zero-cost default.
var (
	ErrUnknownBinding     = errors.New("unknown binding method")
	ErrUnknownColorMode   = errors.New("unknown print color mode")
	ErrUnknownComposition = errors.New("unknown page composition")
	ErrInvalidPriceTable  = errors.New("invalid price table")
)

// ValidationError reports a single malformed field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// FieldErrors collects validation failures keyed by field name.
type FieldErrors map[string]string

// Error implements the error interface with a stable field order.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the failures as a plain map, suitable for response details.
func (fe FieldErrors) Fields() map[string]string {
	out := make(map[string]string, len(fe))
	for k, v := range fe {
		out[k] = v
	}
	return out
}

// ValidationDetails extracts field-scoped messages from a validation error.
// The second result is false when err is not a validation error.
func ValidationDetails(err error) (map[string]string, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe.Fields(), true
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return map[string]string{ve.Field: ve.Message}, true
	}
	return nil, false
}
