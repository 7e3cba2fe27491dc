package mobius

import (
	"errors"
	"fmt"
)

// Domain errors for engine configuration and evaluation.
var (
	// ErrConfiguration indicates a rejected configuration value.
	ErrConfiguration = errors.New("moebius: invalid configuration")

	// ErrUnknownFamily indicates a transform family that is not registered.
	ErrUnknownFamily = errors.New("moebius: unknown transform family")

	// ErrNotConfigured indicates an engine used before its first configuration.
	ErrNotConfigured = errors.New("moebius: engine not configured")
)

// ConfigurationError describes a single rejected configuration field.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
	// Wrapped defaults to ErrConfiguration when nil.
	Wrapped error
}

// NewConfigurationError returns a ConfigurationError wrapping ErrConfiguration.
func NewConfigurationError(field string, value any, reason string) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("moebius: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	if e.Wrapped != nil {
		return e.Wrapped
	}
	return ErrConfiguration
}

// Is reports every ConfigurationError as ErrConfiguration, including those
// that wrap a more specific sentinel.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}
