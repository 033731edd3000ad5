package prompt

import (
	"errors"
	"strings"
)

// ValidateNotEmpty returns an error if the string is empty or whitespace-only.
func ValidateNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("value cannot be empty")
	}
	return nil
}

// ValidateClientID accepts the numeric client IDs Strava issues.
func ValidateClientID(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return errors.New("client ID cannot be empty")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return errors.New("client ID must be numeric")
		}
	}
	return nil
}
