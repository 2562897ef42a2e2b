package login

import (
	"errors"
	"strings"
	"unicode"
)

const minPasswordLength = 8

// ValidatePasswordPolicy is applied to passwords of users created from the
// dashboard before they are sent to the backend.
func ValidatePasswordPolicy(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if strings.TrimSpace(password) != password {
		return errors.New("password must not start or end with spaces")
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errors.New("password must include a letter and a digit")
	}
	return nil
}
