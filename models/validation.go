// File: models/validation.go
package models

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// ValidationErrors maps a form field to the message shown next to it.
type ValidationErrors map[string]string

// Error lists the failing fields in a stable order.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("invalid fields: %s", strings.Join(fields, ", "))
}

func (v ValidationErrors) orNil() ValidationErrors {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		v[field] = "This field is required."
	}
}

func (v ValidationErrors) email(field, value string) {
	if !ValidEmail(value) {
		v[field] = "Please enter a valid email address."
	}
}

func (v ValidationErrors) phone(field, value string) {
	if !ValidPhone(value) {
		v[field] = "Phone number must have 10 digits."
	}
}

func (v ValidationErrors) pincode(field, value string) {
	if !ValidPincode(value) {
		v[field] = "Pin code must have 6 digits."
	}
}

func (v ValidationErrors) oneOf(field, value string, options []string) {
	for _, o := range options {
		if value == o {
			return
		}
	}
	v[field] = "Please choose an option."
}

// ValidEmail requires a local part, a domain and a top-level domain.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// ValidPhone accepts exactly 10 digits; spaces and dashes are ignored.
func ValidPhone(s string) bool {
	return digitsOnly(s, " -") == 10
}

// ValidPincode accepts exactly 6 digits.
func ValidPincode(s string) bool {
	return digitsOnly(s, "") == 6
}

// digitsOnly returns the digit count of s, or -1 when s holds anything other
// than digits and the allowed separators.
func digitsOnly(s, separators string) int {
	n := 0
	for _, r := range strings.TrimSpace(s) {
		switch {
		case r >= '0' && r <= '9':
			n++
		case strings.ContainsRune(separators, r):
		default:
			return -1
		}
	}
	return n
}
