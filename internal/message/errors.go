package message

import "fmt"

// Error represents a structured error from the message package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeDecode indicates a message could not be decoded from its wire
	// JSON form.
	ErrCodeDecode ErrorCode = "decode"

	// ErrCodeValidation indicates a message or one of its parts is missing
	// required fields or holds invalid values.
	ErrCodeValidation ErrorCode = "validation"

	// ErrCodeUnexpectedSender indicates a verified message whose header
	// sender is not the expected counterparty.
	ErrCodeUnexpectedSender ErrorCode = "unexpected_sender"

	// ErrCodeUnexpectedReceiver indicates a verified message that was not
	// addressed to the expected receiver.
	ErrCodeUnexpectedReceiver ErrorCode = "unexpected_receiver"

	// ErrCodeVerification indicates the message cannot be verified at all,
	// e.g. it was built in memory rather than parsed from wire bytes.
	ErrCodeVerification ErrorCode = "verification"
)

// MessageError represents a structured error from the message package.
type MessageError struct {

	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *MessageError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *MessageError) Code() ErrorCode { return e.code }
func (e *MessageError) Unwrap() error   { return e.wrapped }

// NewDecodeError creates a decode error for malformed wire JSON.
func NewDecodeError(msg string) error {
	return &MessageError{code: ErrCodeDecode, message: msg}
}

// WrapDecodeError wraps an existing error as a decode error, adding context
// while preserving the original error for inspection.
func WrapDecodeError(err error, msg string) error {
	return &MessageError{code: ErrCodeDecode, message: msg, wrapped: err}
}

// NewValidationError creates a validation error for missing or invalid fields.
func NewValidationError(msg string) error {
	return &MessageError{code: ErrCodeValidation, message: msg}
}

// WrapValidationError wraps an existing error as a validation error.
func WrapValidationError(err error, msg string) error {
	return &MessageError{code: ErrCodeValidation, message: msg, wrapped: err}
}

// NewUnexpectedSenderError creates an unexpected sender error.
func NewUnexpectedSenderError(msg string) error {
	return &MessageError{code: ErrCodeUnexpectedSender, message: msg}
}

// NewUnexpectedReceiverError creates an unexpected receiver error.
func NewUnexpectedReceiverError(msg string) error {
	return &MessageError{code: ErrCodeUnexpectedReceiver, message: msg}
}

// NewVerificationError creates a verification error.
func NewVerificationError(msg string) error {
	return &MessageError{code: ErrCodeVerification, message: msg}
}
