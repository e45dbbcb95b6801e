// Package validation holds the client-side field checks run before a
// request is built, mirroring what the backend enforces.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	ErrEmailInvalid   = errors.New("please enter a valid email address")
	ErrPasswordWeak   = errors.New("password must be at least 8 characters and include uppercase, lowercase, number and special character (@$!%*?&)")
	ErrNameRequired   = errors.New("name must be at least 2 characters")
	ErrMobileInvalid  = errors.New("mobile number must be exactly 10 digits")
	ErrAmountInvalid  = errors.New("amount must be greater than zero")
	ErrAmountTooLarge = errors.New("amount exceeds the supported maximum")
	ErrPasswordUnsafe = errors.New("password contains characters outside the allowed set")
)

const passwordSpecials = "@$!%*?&"

// maxAmount keeps amounts within what the backend stores without loss.
const maxAmount = 1e13

var (
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobileRe = regexp.MustCompile(`^[0-9]{10}$`)
)

func Email(s string) error {
	if !emailRe.MatchString(strings.TrimSpace(s)) {
		return ErrEmailInvalid
	}
	return nil
}

// Password enforces length plus one character from each required class.
// Only letters, digits and the listed specials are accepted.
func Password(s string) error {
	if len(s) < 8 {
		return ErrPasswordWeak
	}
	var upper, lower, digit, special bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return ErrPasswordUnsafe
		}
	}
	if !upper || !lower || !digit || !special {
		return ErrPasswordWeak
	}
	return nil
}

func Name(s string) error {
	if len(strings.TrimSpace(s)) < 2 {
		return ErrNameRequired
	}
	return nil
}

func Mobile(s string) error {
	if !mobileRe.MatchString(s) {
		return ErrMobileInvalid
	}
	return nil
}

func Amount(v float64) error {
	if v <= 0 {
		return ErrAmountInvalid
	}
	if v > maxAmount {
		return ErrAmountTooLarge
	}
	return nil
}
