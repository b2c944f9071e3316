package errors

import (
	"fmt"
)

// ParseError represents a failure to read or decode a configuration or data
// file, with optional line metadata for YAML sources.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures pipeline configuration validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ExecutionError represents a runtime failure while executing a stage.
type ExecutionError struct {
	Stage string
	Err   error
}

// NewExecutionError constructs an ExecutionError.
func NewExecutionError(stage string, err error) error {
	return &ExecutionError{Stage: stage, Err: err}
}

func (e *ExecutionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage != "" {
		return fmt.Sprintf("execution error on stage %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("execution error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *ExecutionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// LaunchError indicates a stage executable could not be started at all. The
// scheduler records it with the reserved critical exit code and aborts the run.
type LaunchError struct {
	Stage   string
	Command string
	Err     error
}

// NewLaunchError constructs a LaunchError for the given stage.
func NewLaunchError(stage, command string, err error) error {
	return &LaunchError{Stage: stage, Command: command, Err: err}
}

func (e *LaunchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Command != "" {
		return fmt.Sprintf("launch error [%s]: %s: %v", e.Stage, e.Command, e.Err)
	}
	return fmt.Sprintf("launch error [%s]: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying error.
func (e *LaunchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
