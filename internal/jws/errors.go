package jws

import (
	"errors"
	"fmt"
)

// Error represents a structured error from the jws package.
type Error interface {
	error
	Code() ErrorCode
	Unwrap() error
}

type ErrorCode string

const (
	// ErrCodeKeyMismatch indicates the signing certificate's public key does
	// not match the supplied private key. No signature is produced.
	ErrCodeKeyMismatch ErrorCode = "key_mismatch"

	// ErrCodeInvalidJWS indicates a malformed detached JWS: bad compact
	// structure, an undecodable protected header, or a missing/empty x5c
	// certificate chain.
	ErrCodeInvalidJWS ErrorCode = "invalid_jws"

	// ErrCodeInvalidSignature indicates cryptographic verification failed.
	// Tampered payloads, tampered signatures and tampered-but-parseable
	// headers all surface with this code and are deliberately not told apart.
	ErrCodeInvalidSignature ErrorCode = "invalid_signature"

	// ErrCodeCertificateNotWhitelisted indicates the signature verified but
	// the signer certificate is not in the caller's whitelist.
	ErrCodeCertificateNotWhitelisted ErrorCode = "certificate_not_whitelisted"

	// ErrCodeInternal indicates internal processing failures.
	ErrCodeInternal ErrorCode = "internal"
)

// SignatureError represents a structured error from the jws package.
type SignatureError struct {

	// code is the error code
	code ErrorCode

	// message is a human-readable error message
	message string

	// wrapped is the optional underlying error
	wrapped error
}

func (e *SignatureError) Error() string {
	if e.wrapped != nil {
		return fmt.Sprintf("%s: %v", e.message, e.wrapped)
	}
	return e.message
}

func (e *SignatureError) Code() ErrorCode { return e.code }
func (e *SignatureError) Unwrap() error   { return e.wrapped }

// NewKeyMismatchError creates a key mismatch error.
// Use this when the certificate supplied for signing does not embed the
// public half of the signing key.
func NewKeyMismatchError(msg string) error {
	return &SignatureError{code: ErrCodeKeyMismatch, message: msg}
}

// NewInvalidJWSError creates an invalid JWS structure error.
// Use this for compact-form parse failures and missing or empty x5c headers.
func NewInvalidJWSError(msg string) error {
	return &SignatureError{code: ErrCodeInvalidJWS, message: msg}
}

// WrapInvalidJWSError wraps an existing error as an invalid JWS error,
// adding context while preserving the original error for inspection.
func WrapInvalidJWSError(err error, msg string) error {
	return &SignatureError{code: ErrCodeInvalidJWS, message: msg, wrapped: err}
}

// NewInvalidSignatureError creates a signature verification error.
// The message must not disclose which part of the signing input failed.
func NewInvalidSignatureError(msg string) error {
	return &SignatureError{code: ErrCodeInvalidSignature, message: msg}
}

// NewCertificateNotWhitelistedError creates a whitelist rejection error.
// Use this only after cryptographic verification has succeeded.
func NewCertificateNotWhitelistedError(msg string) error {
	return &SignatureError{code: ErrCodeCertificateNotWhitelisted, message: msg}
}

// NewInternalError creates an internal error for unexpected failures.
func NewInternalError(msg string) error {
	return &SignatureError{code: ErrCodeInternal, message: msg}
}

// WrapInternalError wraps an existing error as an internal error.
func WrapInternalError(err error, msg string) error {
	return &SignatureError{code: ErrCodeInternal, message: msg, wrapped: err}
}

// CodeOf returns the error code of a jws package error, or ErrCodeInternal
// for errors that did not originate here.
func CodeOf(err error) ErrorCode {
	var jwsErr Error
	if errors.As(err, &jwsErr) {
		return jwsErr.Code()
	}
	return ErrCodeInternal
}
