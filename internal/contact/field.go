// Package contact defines the contact value types and their field validators.
package contact

import (
	"errors"
	"fmt"
	"unicode"
)

// Sentinel errors for caller-checkable conditions.
var (
	ErrInvalidFieldValue    = errors.New("contact: invalid field value")
	ErrMissingRequiredField = errors.New("contact: missing required field")
)

// FieldError reports a problem with a single named field.
type FieldError struct {
	Field string // Field name, e.g. "first_name".
	Value string // Offending raw input (empty for a missing field).
	Err   error  // ErrInvalidFieldValue or ErrMissingRequiredField.
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Err, e.Field)
	}
	return fmt.Sprintf("%s: %s %q", e.Err, e.Field, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Phone length bounds, both inclusive.
const (
	MinPhoneDigits = 10
	MaxPhoneDigits = 12
)

// IsValidNameComponent reports whether s is non-empty and made only of letters.
// The input is checked as given: no trimming or case folding.
func IsValidNameComponent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// IsValidPhone reports whether s is all decimal digits with a length
// between MinPhoneDigits and MaxPhoneDigits.
func IsValidPhone(s string) bool {
	if len(s) < MinPhoneDigits || len(s) > MaxPhoneDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
