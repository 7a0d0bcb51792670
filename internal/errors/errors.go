// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrConnectionFailed   = errors.New("connection failed")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDataNotFound       = errors.New("data not found")
	ErrDatabaseError      = errors.New("database error")
	ErrInputValidation    = errors.New("input validation failed")
	ErrUnknownKind        = errors.New("unknown simulation kind")
)

// GenericServerMessage is surfaced when a non-success response has no detail.
const GenericServerMessage = "Server Error"

// ValidationFailure is raised locally, before any request is sent.
type ValidationFailure struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationFailure) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrInputValidation.
func (e *ValidationFailure) Unwrap() error {
	return ErrInputValidation
}

// NewValidationFailure creates a new ValidationFailure.
func NewValidationFailure(field string, value interface{}, message string) *ValidationFailure {
	return &ValidationFailure{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// TransportFailure means the request never completed (dial, TLS, reset, read).
type TransportFailure struct {
	Method   string
	Endpoint string
	Err      error
}

func (e *TransportFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("connection failed: %s %s: %v", e.Method, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("connection failed: %s %s", e.Method, e.Endpoint)
}

// Is reports ErrConnectionFailed as part of the chain.
func (e *TransportFailure) Is(target error) bool {
	return target == ErrConnectionFailed
}

func (e *TransportFailure) Unwrap() error {
	return e.Err
}

// NewTransportFailure creates a new TransportFailure.
func NewTransportFailure(method, endpoint string, err error) *TransportFailure {
	return &TransportFailure{
		Method:   method,
		Endpoint: endpoint,
		Err:      err,
	}
}

// ServerFailure is a non-success status returned by the pricing engine.
type ServerFailure struct {
	Status int
	Detail string
}

func (e *ServerFailure) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return GenericServerMessage
}

// NewServerFailure creates a new ServerFailure.
func NewServerFailure(status int, detail string) *ServerFailure {
	return &ServerFailure{
		Status: status,
		Detail: detail,
	}
}

// Cause names the failure class shown in a screen's error banner.
type Cause string

const (
	CauseNone       Cause = ""
	CauseValidation Cause = "validation"
	CauseTransport  Cause = "connection failed"
	CauseServer     Cause = "server"
	CauseUnknown    Cause = "unknown"
)

// Classify maps an error onto the banner taxonomy.
func Classify(err error) Cause {
	if err == nil {
		return CauseNone
	}
	var vf *ValidationFailure
	if errors.As(err, &vf) {
		return CauseValidation
	}
	var sf *ServerFailure
	if errors.As(err, &sf) {
		return CauseServer
	}
	if errors.Is(err, ErrConnectionFailed) {
		return CauseTransport
	}
	return CauseUnknown
}

// Message returns the text shown in a screen's error banner: the local
// validation message, the engine's detail verbatim, or "connection failed".
func Message(err error) string {
	if err == nil {
		return ""
	}
	var vf *ValidationFailure
	if errors.As(err, &vf) {
		return vf.Message
	}
	var sf *ServerFailure
	if errors.As(err, &sf) {
		return sf.Error()
	}
	if errors.Is(err, ErrConnectionFailed) {
		return ErrConnectionFailed.Error()
	}
	return err.Error()
}

// SecurityError is a failure of credential handling.
type SecurityError struct {
	Operation string
	Err       error
}

func (e *SecurityError) Error() string {
	return fmt.Sprintf("security error [%s]: %v", e.Operation, e.Err)
}

func (e *SecurityError) Unwrap() error {
	return e.Err
}

// NewSecurityError creates a new SecurityError.
func NewSecurityError(operation string, err error) *SecurityError {
	return &SecurityError{Operation: operation, Err: err}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
