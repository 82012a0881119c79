package episode

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates missing or invalid configuration. It is raised
// before any file is read or written.
type ConfigurationError struct {
	// Field is the configuration key at fault (e.g. "base_directory")
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Field, e.Message)
}

// ParseError indicates an input file that is not well-formed XML.
type ParseError struct {
	Path    string
	Wrapped error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("the file '%s' is invalid XML: %v", e.Path, e.Wrapped)
}

func (e *ParseError) Unwrap() error {
	return e.Wrapped
}

// ValidationError indicates an input file that parses but is not a binding
// document of the expected shape.
type ValidationError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ValidationError) Error() string {
	if e.Actual == "" {
		return fmt.Sprintf("the file '%s' does not seem to be a JAXB binding file (expected %s)", e.Path, e.Expected)
	}
	return fmt.Sprintf("the file '%s' does not seem to be a JAXB binding file (expected %s, found %s)", e.Path, e.Expected, e.Actual)
}

// IOError indicates a read, scan or write failure on a path.
type IOError struct {
	Op      string // "read", "scan" or "write"
	Path    string
	Wrapped error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s '%s': %v", e.Op, e.Path, e.Wrapped)
}

func (e *IOError) Unwrap() error {
	return e.Wrapped
}

// IsConfigurationError checks if an error is a configuration error
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsIOError checks if an error is an I/O error
func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}
