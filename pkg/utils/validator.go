package utils

import (
	"fmt"
	"regexp"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobileRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
	ctrlRegex   = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

// ValidateEmail validates a partner email address.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

// ValidateMobile validates the customer mobile number a report is addressed
// to. It is the only association between a report and its customer, so a
// malformed number would orphan the report.
func ValidateMobile(mobile string) error {
	if !mobileRegex.MatchString(mobile) {
		return fmt.Errorf("invalid mobile number: %s", mobile)
	}
	return nil
}

// SanitizeString removes control characters from free-text input.
func SanitizeString(s string) string {
	return ctrlRegex.ReplaceAllString(s, "")
}
