package extract

import (
	"errors"
	"fmt"
)

// ErrBackendUnavailable marks a backend whose underlying tool or library is
// not present at runtime. Such backends are excluded from scoring without
// aborting the overall request.
var ErrBackendUnavailable = errors.New("backend unavailable")

// ConfigError reports a missing environment credential. It is fatal for the
// backend that needs the credential and invisible to every other backend.
type ConfigError struct {
	Variable string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s environment variable not set", e.Variable)
}

// InputNotFoundError reports a request referencing a nonexistent file.
// It fails the request before any backend is invoked.
type InputNotFoundError struct {
	Path string
}

func (e *InputNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %s", e.Path)
}

// SchemaError reports a malformed JSON-schema argument.
// It fails the request before any backend is invoked.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid JSON schema format: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ExtractionError reports a backend that executed but failed during parsing.
// The underlying message is preserved verbatim for diagnostics.
type ExtractionError struct {
	Backend string
	Tier    Mode
	Err     error
}

func (e *ExtractionError) Error() string {
	if e.Tier != "" {
		return fmt.Sprintf("%s (%s tier): %v", e.Backend, e.Tier, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Backend, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
