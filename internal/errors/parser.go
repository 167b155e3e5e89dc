package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a user-facing message.
type ErrorInfo struct {
	Code    string
	Message string
}

// IsUniqueViolation reports whether a store error is a unique-constraint
// violation. Covers postgres (23505 wording) and the sqlite used in tests.
// A duplicate receipt key during insert surfaces this way and is an expected
// skip condition, not a failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint failed")
}

// ParseError converts a store or pipeline error into a code and a message
// safe to return to the caller.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "an internal error occurred"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: context + " not found"}
	}

	if IsUniqueViolation(err) {
		return ErrorInfo{Code: ResourceAlreadyExists, Message: context + " already exists"}
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "timeout") {
		return ErrorInfo{
			Code:    StoreUnavailable,
			Message: "the store is unreachable, try again later",
		}
	}

	return ErrorInfo{Code: InternalServerError, Message: "an internal error occurred"}
}
