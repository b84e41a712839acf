// Package errors provides the coded errors orgdeps returns.
//
// Every failure that reaches the CLI carries a [Code] so it can pick an
// exit message and a hint without matching on error strings:
//
//   - INVALID_*: bad flags, config values, manifest paths or manifests
//   - NOT_FOUND: the organization does not exist or is not visible
//   - NETWORK_ERROR, TIMEOUT, RATE_LIMITED: GitHub could not be reached
//     or refused to answer in time
//   - UNAUTHORIZED, FORBIDDEN: GitHub rejected the token
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid organization: %s", org)
//	if errors.IsAuth(err) {
//	    // ask for another token
//	}
//
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "list repositories of %s", org)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	ErrCodeNotFound Code = "NOT_FOUND"

	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	ErrCodeUnauthorized Code = "UNAUTHORIZED"
	ErrCodeForbidden    Code = "FORBIDDEN"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// when there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsAuth reports whether GitHub rejected the credential.
func IsAuth(err error) bool {
	code := GetCode(err)
	return code == ErrCodeUnauthorized || code == ErrCodeForbidden
}

// UserMessage renders err without code prefixes, joining the messages of
// nested coded errors with ": ".
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

var hints = map[Code]string{
	ErrCodeUnauthorized: "GitHub rejected the token; check that it is valid and not expired",
	ErrCodeForbidden:    "the token cannot read this organization; it needs the 'repo' scope and SSO authorization where the organization enforces it",
	ErrCodeRateLimited:  "the GitHub API rate limit is exhausted; rerun after it resets",
	ErrCodeNotFound:     "check the organization name; private organizations are only visible to members",
	ErrCodeTimeout:      "GitHub answered too slowly; raise --request-timeout or --retries",
}

// Hint returns a one-line suggestion for resolving err, or "" when its
// code has none.
func Hint(err error) string {
	return hints[GetCode(err)]
}
