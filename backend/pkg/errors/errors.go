package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeValidation represents malformed caller input
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeAuth represents token and credential errors
	ErrorTypeAuth ErrorType = "auth"
	// ErrorTypeRelational represents question/answer store errors
	ErrorTypeRelational ErrorType = "relational"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeContext represents context cancellation/timeout errors
	ErrorTypeContext ErrorType = "context"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Validation Errors

// ErrInvalidInput is returned when an argument is rejected before a query is composed
type ErrInvalidInput struct {
	*BaseError
	Field  string
	Reason string
}

func NewInvalidInput(field, reason string) *ErrInvalidInput {
	return &ErrInvalidInput{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("invalid %s: %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrUnknownRelationship is returned when a caller names a relationship kind that is not allow-listed
type ErrUnknownRelationship struct {
	*BaseError
	Kind string
}

func NewUnknownRelationship(kind string, err error) *ErrUnknownRelationship {
	return &ErrUnknownRelationship{
		BaseError: NewBaseError(ErrorTypeValidation, fmt.Sprintf("unknown relationship kind: %q", kind), err),
		Kind:      kind,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("query failed: %s", operation), err),
		Operation: operation,
	}
}

// Auth Errors

// ErrUnauthorized is returned when a token is missing, malformed or expired
var ErrUnauthorized = NewBaseError(ErrorTypeAuth, "please log in", nil)

// NewUnauthorized wraps the reason a token was rejected
func NewUnauthorized(err error) *BaseError {
	return NewBaseError(ErrorTypeAuth, "please log in", err)
}

// Relational Errors

// ErrRelationalQueryFailed is returned when a question/answer statement fails
type ErrRelationalQueryFailed struct {
	*BaseError
	Statement string
}

func NewRelationalQueryFailed(statement string, err error) *ErrRelationalQueryFailed {
	return &ErrRelationalQueryFailed{
		BaseError: NewBaseError(ErrorTypeRelational, fmt.Sprintf("statement failed: %s", statement), err),
		Statement: statement,
	}
}

// Context Errors

// ErrContextCancelled is returned when context is cancelled
type ErrContextCancelled struct {
	*BaseError
	Operation string
}

func NewContextCancelled(operation string, err error) *ErrContextCancelled {
	return &ErrContextCancelled{
		BaseError: NewBaseError(ErrorTypeContext, fmt.Sprintf("context cancelled: %s", operation), err),
		Operation: operation,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// IsErrorType checks if an error, or any error it wraps, is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if typed, ok := err.(interface{ base() *BaseError }); ok {
			if typed.base().Type == errType {
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

func (e *BaseError) base() *BaseError { return e }

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	// Context errors are not retryable
	if IsErrorType(err, ErrorTypeContext) {
		return false
	}
	// Bad input stays bad
	if IsErrorType(err, ErrorTypeValidation) || IsErrorType(err, ErrorTypeAuth) {
		return false
	}
	var conn *ErrGraphConnectionFailed
	return errors.As(err, &conn)
}
