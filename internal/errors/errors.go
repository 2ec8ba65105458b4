package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// InvalidOperator indicates an operator outside the known symbol set
	InvalidOperator ErrorCode = "INVALID_OPERATOR"
	// UnhandledOperator indicates no handler in the chain claimed the request
	UnhandledOperator ErrorCode = "UNHANDLED_OPERATOR"
	// DivisionByZero indicates a divide request with a zero divisor
	DivisionByZero ErrorCode = "DIVISION_BY_ZERO"
	// UnsupportedCharacter indicates a rune with no Morse encoding
	UnsupportedCharacter ErrorCode = "UNSUPPORTED_CHARACTER"
	// UnknownWeapon indicates a weapon name the factory does not know
	UnknownWeapon ErrorCode = "UNKNOWN_WEAPON"
	// InvalidInput indicates a malformed expression or request file
	InvalidInput ErrorCode = "INVALID_INPUT"
	// ConfigInvalid indicates configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditConfig suggests changing a configuration value
	EditConfig FixActionType = "edit-config"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Error is a coded error with an optional cause and details
type Error struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates an Error with the suggested fixes registered for its code.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:           code,
		Message:        message,
		SuggestedFixes: GetSuggestedFixes(code),
	}
}

// Newf creates an Error with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an Error that carries cause as its underlying error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	e := New(code, message)
	e.cause = cause
	return e
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// As is errors.As from the standard library, re-exported so callers need a
// single errors import.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// HasCode reports whether err's chain contains an *Error with the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	InvalidOperator: {
		{
			Type:        RunCommand,
			Command:     "croissant eval \"5 - 3\"",
			Description: "Use one of the operators + - * /",
		},
	},
	UnhandledOperator: {
		{
			Type:        EditConfig,
			Command:     "croissant config show",
			Description: "Add the operator to the configured chain",
		},
	},
	ConfigInvalid: {
		{
			Type:        RunCommand,
			Command:     "croissant config show --format json",
			Description: "Inspect the effective configuration",
		},
	},
	UnknownWeapon: {
		{
			Type:        RunCommand,
			Command:     "croissant weapon --list",
			Description: "List the available weapons",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
