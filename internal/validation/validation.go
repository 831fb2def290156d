// Package validation checks user-supplied values before they reach the
// backend.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	idRegex    = regexp.MustCompile(`^[a-zA-Z0-9._@\-]+$`)
)

const maxIDLength = 128

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidateID checks a backend identifier such as a client, member or
// schedule id. field names the value in the error.
func ValidateID(field, id string) error {
	if id == "" {
		return ValidationError{Field: field, Message: field + " is required"}
	}
	if len(id) > maxIDLength {
		return ValidationError{Field: field, Message: fmt.Sprintf("%s must be at most %d characters", field, maxIDLength)}
	}
	if !idRegex.MatchString(id) {
		return ValidationError{Field: field, Message: "invalid " + field}
	}
	return nil
}

// ValidateIDs checks field/value pairs with ValidateID and returns the first
// failure
func ValidateIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := ValidateID(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}
