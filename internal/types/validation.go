package types

import (
	"fmt"
	"strings"
)

// Validation helpers return plain errors; callers wrap them into an
// OpError with the operation name attached. A validation failure means
// no store call was made.

// ValidateTitle rejects empty or whitespace-only titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("title is required")
	}
	return nil
}

// ValidateIDPresent rejects empty identifiers.
func ValidateIDPresent(id ID, field string) error {
	if id == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

// ValidatePermanentID rejects empty and provisional identifiers. A memo
// with a client-generated identifier must never be the target of an
// update or delete against the store.
func ValidatePermanentID(id ID, field string) error {
	if err := ValidateIDPresent(id, field); err != nil {
		return err
	}
	if id.Provisional() {
		return fmt.Errorf("%s %q is provisional and cannot target the store", field, id)
	}
	return nil
}

// ValidateBody rejects empty comment bodies.
func ValidateBody(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}
	return nil
}

// ValidateCredentials rejects blank login fields.
func ValidateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("email is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
