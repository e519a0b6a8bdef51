package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Workflow structure error codes
const (
	ErrInvalidWorkflow ErrorCode = "INVALID_WORKFLOW"
	ErrNoTriggerNodes  ErrorCode = "NO_TRIGGER_NODES"
	ErrUnknownNodeType ErrorCode = "UNKNOWN_NODE_TYPE"
)

// Execution error codes
const (
	ErrNodeFailed         ErrorCode = "NODE_FAILED"
	ErrNodeTimeout        ErrorCode = "NODE_TIMEOUT"
	ErrExecutionTimeout   ErrorCode = "EXECUTION_TIMEOUT"
	ErrExecutionCancelled ErrorCode = "EXECUTION_CANCELLED"
	ErrProcessorPanic     ErrorCode = "PROCESSOR_PANIC"
	ErrInternalError      ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	NodeID    string    `json:"node_id,omitempty"`
	Retryable bool      `json:"retryable"`
	Cause     error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// NewErrorf creates a new Error with a formatted message.
func NewErrorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithNode attaches the id of the node the error originated from.
func (e *Error) WithNode(nodeID string) *Error {
	e.NodeID = nodeID
	return e
}

// WithRetryable marks whether the operation may be retried.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// IsCode reports whether err wraps a *Error carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
