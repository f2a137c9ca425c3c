package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrPermission     ErrorCode = "PERMISSION"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Manifest errors
	ErrManifestLoad    ErrorCode = "MANIFEST_LOAD"
	ErrManifestParse   ErrorCode = "MANIFEST_PARSE"
	ErrManifestInvalid ErrorCode = "MANIFEST_INVALID"
	ErrManifestCycle   ErrorCode = "MANIFEST_CYCLE"
	ErrPackageNotFound ErrorCode = "PACKAGE_NOT_FOUND"

	// Platform errors
	ErrPlatformUnknown     ErrorCode = "PLATFORM_UNKNOWN"
	ErrMethodUnknown       ErrorCode = "METHOD_UNKNOWN"
	ErrMethodUnavailable   ErrorCode = "METHOD_UNAVAILABLE"
	ErrCustomNotRegistered ErrorCode = "CUSTOM_NOT_REGISTERED"

	// Installation errors
	ErrInstall  ErrorCode = "INSTALL"
	ErrCommand  ErrorCode = "COMMAND"
	ErrDownload ErrorCode = "DOWNLOAD"
	ErrChecksum ErrorCode = "CHECKSUM"
	ErrExtract  ErrorCode = "EXTRACT"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
	ErrState      ErrorCode = "STATE"
)

// DotinstallError represents a structured error with code and details
type DotinstallError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *DotinstallError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *DotinstallError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *DotinstallError) Is(target error) bool {
	var targetErr *DotinstallError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new DotinstallError with the given code and message
func New(code ErrorCode, message string) *DotinstallError {
	return &DotinstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new DotinstallError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *DotinstallError {
	return &DotinstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a DotinstallError
func Wrap(err error, code ErrorCode, message string) *DotinstallError {
	if err == nil {
		return nil
	}
	return &DotinstallError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *DotinstallError {
	if err == nil {
		return nil
	}
	return &DotinstallError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *DotinstallError) WithDetail(key string, value interface{}) *DotinstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *DotinstallError) WithDetails(details map[string]interface{}) *DotinstallError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var installErr *DotinstallError
	if errors.As(err, &installErr) {
		return installErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a DotinstallError
func GetErrorCode(err error) ErrorCode {
	var installErr *DotinstallError
	if errors.As(err, &installErr) {
		return installErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a DotinstallError
func GetErrorDetails(err error) map[string]interface{} {
	var installErr *DotinstallError
	if errors.As(err, &installErr) {
		return installErr.Details
	}
	return nil
}

// Join combines several errors into one; nil entries are dropped
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Message renders err for users: the messages along the chain, without
// error codes
func Message(err error) string {
	if err == nil {
		return ""
	}
	switch e := err.(type) {
	case *DotinstallError:
		if e.Wrapped == nil {
			return e.Message
		}
		return e.Message + ": " + Message(e.Wrapped)
	case interface{ Unwrap() []error }:
		var parts []string
		for _, inner := range e.Unwrap() {
			if inner != nil {
				parts = append(parts, Message(inner))
			}
		}
		return strings.Join(parts, "\n")
	}
	return err.Error()
}
