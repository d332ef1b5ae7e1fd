package validation

import (
	"errors"
	"regexp"
)

// Define static errors at the package level
var (
	ErrAdminUsernameMissing = errors.New("admin username is required")
	ErrAdminPasswordMissing = errors.New("admin password or password hash is required")
	ErrPasswordTooShort     = errors.New("admin password must be at least 8 characters long")
	ErrPasswordNotComplex   = errors.New("admin password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
)

// ValidateAdminCredentials checks the configured admin credential pair.
// A bcrypt hash is accepted as is; a plain password must be strong.
func ValidateAdminCredentials(username, password, passwordHash string) error {
	if username == "" {
		return ErrAdminUsernameMissing
	}
	if passwordHash != "" {
		return nil
	}
	if password == "" {
		return ErrAdminPasswordMissing
	}
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if !isComplexPassword(password) {
		return ErrPasswordNotComplex
	}
	return nil
}

// isComplexPassword checks password complexity
var (
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	digitRegex     = regexp.MustCompile(`\d`)
	specialRegex   = regexp.MustCompile(`[^A-Za-z0-9]`)
)

func isComplexPassword(password string) bool {
	return lowercaseRegex.MatchString(password) &&
		uppercaseRegex.MatchString(password) &&
		digitRegex.MatchString(password) &&
		specialRegex.MatchString(password)
}
