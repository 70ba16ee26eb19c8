// SPDX-License-Identifier: MPL-2.0

// Package errs defines the error kinds shared by the girder framework
// packages. Every error produced by the framework core is one of these
// three kinds; errors raised inside user hook subscribers or command
// functions are never wrapped and propagate as-is.
package errs

import "fmt"

type (
	// ConfigurationError reports an invalid framework setup: a duplicate
	// hook or controller label, an unresolvable stacking relationship, a
	// conflicting argument flag, or an invalid default-func name. It is
	// always fatal at startup and never recovered.
	ConfigurationError struct {
		Reason string
	}

	// LookupError reports a miss against a registry: running a hook name
	// that was never registered, or routing to a controller label with no
	// matching registration.
	LookupError struct {
		// Kind names the registry that was queried (e.g. "hook", "controller").
		Kind string
		// Key is the name that failed to resolve.
		Key string
	}

	// UsageError reports command-line input rejected by the parser. It is
	// fatal for the current invocation and carries the parser's own error
	// so the caller can print a usage message.
	UsageError struct {
		Err error
	}
)

// Configurationf builds a ConfigurationError from a format string.
func Configurationf(format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// Error returns the error message for ConfigurationError.
func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// NewLookupError builds a LookupError for the given registry kind and key.
func NewLookupError(kind, key string) *LookupError {
	return &LookupError{Kind: kind, Key: key}
}

// Error returns the error message for LookupError.
func (e *LookupError) Error() string {
	return fmt.Sprintf("no %s named %q is registered", e.Kind, e.Key)
}

// NewUsageError wraps a parser rejection as a UsageError.
func NewUsageError(err error) *UsageError {
	return &UsageError{Err: err}
}

// Error returns the error message for UsageError.
func (e *UsageError) Error() string {
	if e.Err != nil {
		return "usage error: " + e.Err.Error()
	}
	return "usage error"
}

// Unwrap returns the parser's original error, if any.
func (e *UsageError) Unwrap() error {
	return e.Err
}
