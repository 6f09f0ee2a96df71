// Package apperr carries the domain error taxonomy. Services tag expected
// business-rule violations with a stable code; the handler layer maps codes to
// HTTP statuses and never inspects error strings.
package apperr

import (
	"errors"
	"fmt"
)

// Code identifies a class of domain failure.
type Code string

// Stable error codes.
const (
	CodeNotFound               Code = "not_found"
	CodePermissionDenied       Code = "permission_denied"
	CodeInvalidTransition      Code = "invalid_transition"
	CodeValidation             Code = "validation"
	CodeWeightExceeded         Code = "weight_exceeded"
	CodeCapacityExceeded       Code = "capacity_exceeded"
	CodeDeadlinePassed         Code = "deadline_passed"
	CodeDuplicate              Code = "duplicate"
	CodeNotEnrolled            Code = "not_enrolled"
	CodeCourseArchived         Code = "course_archived"
	CodeCourseNotPublished     Code = "course_not_published"
	CodeResubmissionNotAllowed Code = "resubmission_not_allowed"
	CodeHasActiveEnrollments   Code = "has_active_enrollments"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches two coded errors by code, so sentinel instances created with New
// work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// New builds a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a coded error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from err, or empty when err is not a domain error.
func CodeOf(err error) Code {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
