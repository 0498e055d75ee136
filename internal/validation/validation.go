package validation

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
)

var (
	// usernameRegex allows only alphanumeric characters, dots, hyphens, and underscores
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

	// extensionRegex matches a file extension such as ".css" or ".woff2"
	extensionRegex = regexp.MustCompile(`^\.[a-zA-Z0-9]+$`)
)

// Reserved names that should not be used as usernames
var reservedNames = map[string]bool{
	".":      true,
	"..":     true,
	"admin":  true,
	"root":   true,
	"system": true,
}

const (
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt ignores everything past 72 bytes
)

// ValidateUsername validates a forms login username
func ValidateUsername(name string) error {
	if len(name) < 1 {
		return errors.New("username cannot be empty")
	}
	if len(name) > 64 {
		return errors.New("username must be 64 characters or less")
	}

	if reservedNames[strings.ToLower(name)] {
		return errors.New("username is reserved")
	}

	if !usernameRegex.MatchString(name) {
		return errors.New("username must contain only letters, numbers, dots, hyphens, and underscores")
	}

	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "-") {
		return errors.New("username cannot start with a dot or hyphen")
	}

	return nil
}

// ValidatePassword validates a password before it is hashed
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return errors.New("password must be 72 bytes or less")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password cannot be only whitespace")
	}
	return nil
}

// ValidateExtension validates an allowed-extension entry of a static directory
func ValidateExtension(ext string) error {
	if !extensionRegex.MatchString(ext) {
		return errors.New("extension must be a dot followed by letters or numbers")
	}
	return nil
}

// IsLocalURL reports whether target only points inside this site.
// Scheme-relative ("//host") and backslash forms are rejected because
// browsers treat them as absolute.
func IsLocalURL(target string) bool {
	if target == "" || !strings.HasPrefix(target, "/") {
		return false
	}
	if strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return false
	}
	if strings.ContainsAny(target, "\r\n\x00") {
		return false
	}

	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// ValidateReturnURL validates a post-login redirect target
func ValidateReturnURL(target string) error {
	if !IsLocalURL(target) {
		return errors.New("return URL must be a local path")
	}
	return nil
}
