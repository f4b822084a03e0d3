// internal/auth/validate.go
//
// Typed validators for account and profile fields.
// Failures are *FieldError so handlers can report which field was rejected.

package auth

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// FieldError reports which input field failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_ ]+$`)
	emailRe    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername accepts 3-24 letters, digits, underscores or spaces.
func ValidateUsername(name string) error {
	if n := len(name); n < 3 || n > 24 {
		return &FieldError{"username", "must be 3-24 characters"}
	}
	if !usernameRe.MatchString(name) {
		return &FieldError{"username", "letters, numbers, spaces and underscores only"}
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return &FieldError{"email", "cannot be empty"}
	}
	if !emailRe.MatchString(email) {
		return &FieldError{"email", "invalid email format"}
	}
	return nil
}

// ValidatePhotoURL accepts an empty string or an absolute http(s) URL.
func ValidatePhotoURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &FieldError{"photoURL", "must be an http(s) URL"}
	}
	return nil
}

// maxPasswordBytes is the longest input bcrypt will hash.
const maxPasswordBytes = 72

// ValidatePassword accepts 8 to maxPasswordBytes bytes.
func ValidatePassword(pw string) error {
	if n := len(pw); n < 8 || n > maxPasswordBytes {
		return &FieldError{"password", fmt.Sprintf("must be 8-%d bytes, got %d", maxPasswordBytes, n)}
	}
	return nil
}

// normalizeEmail trims and lower-cases an address.
func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
