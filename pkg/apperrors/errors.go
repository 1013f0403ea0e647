package apperrors

import "fmt"

// ValidationError reports a missing or malformed required field. The
// operation was not attempted.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a duplicate identity or an illegal state
// transition. CurrentStatus carries the state the caller collided with.
type ConflictError struct {
	Message       string
	CurrentStatus string
}

func (e *ConflictError) Error() string {
	if e.CurrentStatus != "" {
		return fmt.Sprintf("%s (current status: %s)", e.Message, e.CurrentStatus)
	}
	return e.Message
}

func NewConflictError(message, currentStatus string) *ConflictError {
	return &ConflictError{Message: message, CurrentStatus: currentStatus}
}

// NotFoundError reports an unknown asset, ledger entry, user or OTP.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(format string, args ...any) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// UniqueViolationError wraps a PostgreSQL unique constraint violation.
type UniqueViolationError struct {
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

// ForeignKeyViolationError wraps a PostgreSQL FK constraint violation.
type ForeignKeyViolationError struct {
	message string
	code    string
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

// WrapDBError classifies a PostgreSQL error by SQLSTATE code.
func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &UniqueViolationError{message: message, code: code}
	case "23503":
		return &ForeignKeyViolationError{message: "Value is already used by other resources " + message, code: code}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
