package service

import (
	"errors"
	"strings"
)

var (
	ErrAuthenticationFailed = errors.New("authentication_failed")
	ErrUserNotFound         = errors.New("user_not_found")
	ErrOrganizationNotFound = errors.New("organization_not_found")

	ErrMFARequired       = errors.New("mfa_required")
	ErrInvalidTOTPCode   = errors.New("invalid_totp_code")
	ErrMFAAlreadyEnabled = errors.New("mfa_already_enabled")
	ErrMFANotEnabled     = errors.New("mfa_not_enabled")
)

// ValidationError reports the required fields that arrived empty. Fields
// keeps the declaration order of the input struct so the message is
// stable across requests.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "Empty fields found: " + strings.Join(e.Fields, ", ")
}

// ConflictError wraps a uniqueness violation from the store. The
// underlying store message is surfaced to the caller unchanged.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string { return e.Err.Error() }
func (e *ConflictError) Unwrap() error { return e.Err }
