// =============================================================================
// EDITHOR - Validation Module
// =============================================================================
//
// This module validates user input for the identifier correction editor.
// Validation failures are returned as *ValidationError values so callers can
// tell them apart from I/O failures and report them to the user without
// touching the correction table.
//
// RULES:
//   - Both identifiers must be non-empty after trimming
//   - In strict mode, identifiers may only contain the digits 0-9
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// VALIDATION ERROR
// =============================================================================

// ValidationError describes a rejected input value.
type ValidationError struct {
	// Field is the name of the rejected input (e.g. "old", "new").
	Field string

	// Value is the rejected value, as received.
	Value string

	// Message is a human-readable description of the failure.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Message)
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// =============================================================================
// IDENTIFIER VALIDATION
// =============================================================================

// ValidateIdentifier checks a single identifier.
// When digitsOnly is true the value must consist of ASCII digits only.
func ValidateIdentifier(field, value string, digitsOnly bool) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	if digitsOnly && !isDigits(value) {
		return &ValidationError{Field: field, Value: value, Message: "must contain only digits"}
	}
	return nil
}

// ValidateCorrection checks an old/new identifier pair.
// Emptiness is checked on both values before the digit rule, so an empty
// field is always reported first.
func ValidateCorrection(oldID, newID string, digitsOnly bool) error {
	if err := ValidateIdentifier("old", oldID, false); err != nil {
		return err
	}
	if err := ValidateIdentifier("new", newID, false); err != nil {
		return err
	}
	if !digitsOnly {
		return nil
	}
	if err := ValidateIdentifier("old", oldID, true); err != nil {
		return err
	}
	return ValidateIdentifier("new", newID, true)
}

// isDigits reports whether s is made only of the characters 0-9.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
