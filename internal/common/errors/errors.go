// Package errors provides standardized error handling for the onboarding bot.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationMismatch ErrorCode = "VALIDATION_MISMATCH"

	ErrCodeApplicantNotFound ErrorCode = "APPLICANT_NOT_FOUND"
	ErrCodeQuestionNotFound  ErrorCode = "QUESTION_NOT_FOUND"

	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"

	ErrCodeConfigurationMissing ErrorCode = "CONFIGURATION_MISSING"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeMediaSaveFailed        ErrorCode = "MEDIA_SAVE_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// NewValidationMismatchError reports an answer whose shape does not match the
// expected question type. Recoverable: the applicant is re-prompted and the
// flow state does not advance.
func NewValidationMismatchError(questionType, answerKind string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationMismatch,
		Message:   "Answer does not match question type",
		Details:   fmt.Sprintf("questionType: %s, answerKind: %s", questionType, answerKind),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicantNotFoundError reports a missing applicant at answer time.
// Recoverable: the session is reset.
func NewApplicantNotFoundError(telegramID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeApplicantNotFound,
		Message:   "Applicant not found",
		Details:   fmt.Sprintf("telegramId: %d", telegramID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuestionNotFoundError reports an unknown or deactivated question
// referenced by session state. Recoverable: the session is reset.
func NewQuestionNotFoundError(questionID int64) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuestionNotFound,
		Message:   "Question not found or inactive",
		Details:   fmt.Sprintf("questionId: %d", questionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailureError wraps a persistence-layer error. Fatal to the
// current operation: the inbound message must not be acknowledged.
func NewStorageFailureError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailure,
		Message:   "Storage operation failed",
		Details:   fmt.Sprintf("op: %s, error: %v", op, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewConfigurationMissingError reports an unusable startup configuration.
// Fatal at startup: the process exits non-zero.
func NewConfigurationMissingError(what string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigurationMissing,
		Message:   "Required configuration missing",
		Details:   what,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError wraps an outbound delivery error.
func NewNotificationSendFailedError(kind string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("kind: %s, error: %v", kind, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMediaSaveFailedError wraps a photo download/store error.
func NewMediaSaveFailedError(fieldName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMediaSaveFailed,
		Message:   "Media save failed",
		Details:   fmt.Sprintf("field: %s, error: %v", fieldName, err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// CodeOf extracts the ErrorCode from err, or "" if err is not a StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// IsRecoverable reports whether the error should be absorbed by the message
// handler (re-prompt or session reset) instead of propagated to the transport.
func IsRecoverable(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidationMismatch, ErrCodeApplicantNotFound, ErrCodeQuestionNotFound:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether the transport should redeliver the message.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}
