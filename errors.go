package graphapi

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for build and print failures.
var (
	// ErrUnsupportedTypeKind is returned when the source graph contains a named
	// type whose kind the registry does not recognize.
	ErrUnsupportedTypeKind = errors.New("graphapi: unsupported type kind")

	// ErrMalformedNullableUnion is returned when a oneOf fragment is not the
	// two-branch shape with exactly one null member.
	ErrMalformedNullableUnion = errors.New("graphapi: malformed nullable union")

	// ErrUnresolvedReference is returned when a $ref does not resolve within
	// the document components.
	ErrUnresolvedReference = errors.New("graphapi: unresolved reference")

	// ErrMalformedTypeRef is returned when a type fragment has no recognizable
	// shape, or is a list without items.
	ErrMalformedTypeRef = errors.New("graphapi: malformed type reference")

	// ErrInvalidConfig indicates a configuration error.
	ErrInvalidConfig = errors.New("graphapi: invalid configuration")
)

// BuildError represents a failure to translate a source graph into a document.
type BuildError struct {
	Type    string // Named type
	Field   string // Field name (if applicable)
	Kind    string // Offending kind discriminant
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	var b strings.Builder
	b.WriteString("graphapi: build error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Kind != "" {
		fmt.Fprintf(&b, " (kind %q)", e.Kind)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *BuildError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error for BuildError.
// Only errors naming an offending kind are unsupported-kind errors.
func (e *BuildError) Is(target error) bool {
	return target == ErrUnsupportedTypeKind && e.Kind != ""
}

// NewBuildError creates a new BuildError.
func NewBuildError(typeName, kind, message string) *BuildError {
	return &BuildError{
		Type:    typeName,
		Kind:    kind,
		Message: message,
	}
}

// IsBuildError returns true if the error is a BuildError.
func IsBuildError(err error) bool {
	if err == nil {
		return false
	}
	var e *BuildError
	return errors.As(err, &e)
}

// PrintError represents a failure to print a document as schema text.
// Err holds the sentinel describing the failure class.
type PrintError struct {
	Type    string
	Field   string
	Ref     string
	Message string
	Err     error
	Cause   error
}

// Error implements the error interface.
func (e *PrintError) Error() string {
	var b strings.Builder
	b.WriteString("graphapi: print error")
	if e.Type != "" {
		b.WriteString(" on type ")
		b.WriteString(e.Type)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Ref != "" {
		fmt.Fprintf(&b, " (%s)", e.Ref)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *PrintError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the failure class of the error.
func (e *PrintError) Is(target error) bool {
	return e.Err != nil && target == e.Err
}

// NewPrintError creates a new PrintError of the given class.
func NewPrintError(class error, ref, message string) *PrintError {
	return &PrintError{
		Ref:     ref,
		Message: message,
		Err:     class,
	}
}

// WithLocation returns a copy of err scoped to the given type and field.
// Context already present is kept.
func (e *PrintError) WithLocation(typeName, fieldName string) *PrintError {
	c := *e
	if c.Type == "" {
		c.Type = typeName
	}
	if c.Field == "" {
		c.Field = fieldName
	}
	return &c
}

// IsPrintError returns true if the error is a PrintError.
func IsPrintError(err error) bool {
	if err == nil {
		return false
	}
	var e *PrintError
	return errors.As(err, &e)
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("graphapi: config error for %q (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("graphapi: config error for %q: %s", e.Option, e.Message)
}

// Is reports whether the target matches the sentinel error for ConfigError.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfig
}

// NewConfigError creates a new ConfigError.
func NewConfigError(option string, value any, message string) *ConfigError {
	return &ConfigError{
		Option:  option,
		Value:   value,
		Message: message,
	}
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var e *ConfigError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidConfig)
}
