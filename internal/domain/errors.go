package domain

import (
	"errors"
	"fmt"
)

// ============================================================================
// Domain Error Types
// ============================================================================

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target carries the same code, so sentinel values
// below match wrapped copies with errors.Is.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ============================================================================
// Common Domain Errors
// ============================================================================

var (
	// Configuration Errors
	ErrInvalidConvention = &DomainError{
		Code:    "INVALID_CONVENTION",
		Message: "invalid static content convention",
	}
	ErrUnsafeRoot = &DomainError{
		Code:    "UNSAFE_ROOT",
		Message: "directory cannot be used as a trusted root",
	}
	ErrConfigInvalid = &DomainError{
		Code:    "CONFIG_INVALID",
		Message: "configuration is invalid",
	}

	// Security Errors
	ErrSecurityViolation = &DomainError{
		Code:    "SECURITY_VIOLATION",
		Message: "requested path is outside the trusted roots",
	}

	// Auth Errors
	ErrAuthFailed = &DomainError{
		Code:    "AUTH_FAILED",
		Message: "authentication failed",
	}
	ErrTokenInvalid = &DomainError{
		Code:    "TOKEN_INVALID",
		Message: "authentication token is invalid",
	}
	ErrUserNotFound = &DomainError{
		Code:    "USER_NOT_FOUND",
		Message: "user not found",
	}
	ErrUserAlreadyExists = &DomainError{
		Code:    "USER_ALREADY_EXISTS",
		Message: "user with this name already exists",
	}

	// Validation Errors
	ErrValidationFailed = &DomainError{
		Code:    "VALIDATION_FAILED",
		Message: "validation failed",
	}

	// Infrastructure Errors
	ErrDatabaseOperation = &DomainError{
		Code:    "DATABASE_OPERATION_FAILED",
		Message: "database operation failed",
	}
	ErrFileSystem = &DomainError{
		Code:    "FILESYSTEM_ERROR",
		Message: "filesystem operation failed",
	}
)

// ============================================================================
// Error Wrapping Helpers
// ============================================================================

// WrapInvalidConvention wraps an error as an invalid convention error
func WrapInvalidConvention(reason string, cause error) error {
	return &DomainError{
		Code:    ErrInvalidConvention.Code,
		Message: fmt.Sprintf("invalid static content convention: %s", reason),
		Cause:   cause,
	}
}

// WrapUnsafeRoot wraps an error as an unsafe root error
func WrapUnsafeRoot(root string, cause error) error {
	return &DomainError{
		Code:    ErrUnsafeRoot.Code,
		Message: fmt.Sprintf("directory cannot be used as a trusted root: %s", root),
		Cause:   cause,
	}
}

// WrapConfigInvalid wraps an error as a configuration error
func WrapConfigInvalid(setting string, cause error) error {
	return &DomainError{
		Code:    ErrConfigInvalid.Code,
		Message: fmt.Sprintf("invalid configuration for %s", setting),
		Cause:   cause,
	}
}

// WrapSecurityViolation records why a request path was rejected. The reason
// is for server logs only; PublicMessage never returns it.
func WrapSecurityViolation(reason string) error {
	return &DomainError{
		Code:    ErrSecurityViolation.Code,
		Message: reason,
	}
}

// WrapFileSystem wraps an error as a filesystem failure
func WrapFileSystem(operation string, cause error) error {
	return &DomainError{
		Code:    ErrFileSystem.Code,
		Message: fmt.Sprintf("filesystem operation failed: %s", operation),
		Cause:   cause,
	}
}

// WrapTokenInvalid wraps an error as an invalid token error
func WrapTokenInvalid(cause error) error {
	return &DomainError{
		Code:    ErrTokenInvalid.Code,
		Message: ErrTokenInvalid.Message,
		Cause:   cause,
	}
}

// WrapUserNotFound wraps an error as a user not found error
func WrapUserNotFound(user string, cause error) error {
	return &DomainError{
		Code:    ErrUserNotFound.Code,
		Message: fmt.Sprintf("user not found: %s", user),
		Cause:   cause,
	}
}

// WrapValidationError wraps an error as a validation failure for a field
func WrapValidationError(field string, cause error) error {
	msg := fmt.Sprintf("validation failed for %s", field)
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, cause)
	}
	return &DomainError{
		Code:    ErrValidationFailed.Code,
		Message: msg,
	}
}

// WrapDatabaseOperation wraps an error as a database operation failure
func WrapDatabaseOperation(operation string, cause error) error {
	return &DomainError{
		Code:    ErrDatabaseOperation.Code,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Cause:   cause,
	}
}

// ============================================================================
// Error Checking Helpers
// ============================================================================

// PublicMessage returns a message that is safe to show to clients.
// Security violations collapse into the generic not found text.
func PublicMessage(err error) string {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return "An error occurred"
	}
	switch domainErr.Code {
	case ErrSecurityViolation.Code:
		return "Not found"
	case ErrFileSystem.Code, ErrDatabaseOperation.Code:
		return "Internal server error"
	case ErrTokenInvalid.Code, ErrAuthFailed.Code:
		return ErrAuthFailed.Message
	}
	return domainErr.Message
}

// IsConfigurationError checks if an error should abort start-up
func IsConfigurationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrInvalidConvention.Code ||
			domainErr.Code == ErrUnsafeRoot.Code ||
			domainErr.Code == ErrConfigInvalid.Code
	}
	return false
}

// IsSecurityViolation checks if an error is a path containment failure
func IsSecurityViolation(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrSecurityViolation.Code
	}
	return false
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrUserNotFound.Code
	}
	return false
}

// IsAuthError checks if an error is an authentication failure
func IsAuthError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrAuthFailed.Code ||
			domainErr.Code == ErrTokenInvalid.Code
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrValidationFailed.Code
	}
	return false
}

// IsInfrastructureError checks if an error is an infrastructure error
func IsInfrastructureError(err error) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == ErrDatabaseOperation.Code ||
			domainErr.Code == ErrFileSystem.Code
	}
	return false
}
