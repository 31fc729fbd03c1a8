// Package validation implements the auth form rules: blocking field checks
// run once on submit, and live password-strength hints recomputed on every
// keystroke. Everything here is pure; no I/O, no clocks.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/spit-library/auth-service/internal/core/domain"
)

const minPasswordLen = 6

// emailPattern is the basic local@domain.tld shape: no whitespace, exactly
// one @, at least one dot after it.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgEmailRequired    = "Email is required"
	msgEmailInvalid     = "Please enter a valid email"
	msgPasswordRequired = "Password is required"
	msgPasswordWeak     = "Password must be at least 6 characters and include uppercase, lowercase, number, and special character"
	msgStudentRequired  = "Student ID is required"
	msgYearRequired     = "Year is required"
	msgYearInvalid      = "Select a valid year"
)

// Validate checks every field independently and collects all failures in a
// single pass. Password strength is only enforced in signup mode; on login
// the identity provider is authoritative and any non-empty password passes.
func Validate(input domain.CredentialInput, mode domain.AuthMode) domain.ValidationResult {
	errs := domain.FieldErrors{}

	email := strings.TrimSpace(input.Email)
	switch {
	case email == "":
		errs[domain.FieldEmail] = msgEmailRequired
	case !emailPattern.MatchString(email):
		errs[domain.FieldEmail] = msgEmailInvalid
	}

	password := strings.TrimSpace(input.Password)
	switch {
	case password == "":
		errs[domain.FieldPassword] = msgPasswordRequired
	case mode == domain.ModeSignup && !strongPassword(password):
		errs[domain.FieldPassword] = msgPasswordWeak
	}

	if mode == domain.ModeSignup {
		if strings.TrimSpace(input.StudentID) == "" {
			errs[domain.FieldStudentID] = msgStudentRequired
		}
		switch {
		case strings.TrimSpace(input.Year) == "":
			errs[domain.FieldYear] = msgYearRequired
		case !domain.ValidYear(input.Year):
			errs[domain.FieldYear] = msgYearInvalid
		}
	}

	return domain.ValidationResult{
		FieldErrors:   errs,
		StrengthHints: StrengthHints(input.Password, mode),
	}
}

// StrengthHints returns one human-readable hint per unmet password rule, in
// the fixed order length, uppercase, lowercase, digit, special. It never
// blocks submission and always returns nil in login mode.
func StrengthHints(password string, mode domain.AuthMode) []string {
	if mode != domain.ModeSignup {
		return nil
	}

	var hints []string
	if n := len([]rune(password)); n < minPasswordLen {
		hints = append(hints, fmt.Sprintf("Add %d more character(s)", minPasswordLen-n))
	}
	c := classify(password)
	if !c.upper {
		hints = append(hints, "Add at least 1 uppercase letter")
	}
	if !c.lower {
		hints = append(hints, "Add at least 1 lowercase letter")
	}
	if !c.digit {
		hints = append(hints, "Add at least 1 digit")
	}
	if !c.special {
		hints = append(hints, "Add at least 1 special character")
	}
	return hints
}

type charClasses struct {
	lower, upper, digit, special bool
}

func classify(s string) charClasses {
	var c charClasses
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			c.lower = true
		case unicode.IsUpper(r):
			c.upper = true
		case unicode.IsDigit(r):
			c.digit = true
		default:
			c.special = true
		}
	}
	return c
}

func strongPassword(trimmed string) bool {
	if len([]rune(trimmed)) < minPasswordLen {
		return false
	}
	c := classify(trimmed)
	return c.lower && c.upper && c.digit && c.special
}
