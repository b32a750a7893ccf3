package common

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("configuration error")

	// ErrSurfaceUnavailable matches every SurfaceUnavailableError via errors.Is.
	ErrSurfaceUnavailable = errors.New("surface unavailable")
)

// ConfigurationError reports an invalid count, dimension, range or lifecycle request.
// It is returned synchronously to the caller and values are never clamped in its place.
type ConfigurationError struct {
	// Field names the offending configuration field or operation.
	Field string
	// Reason describes what is wrong with it.
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// SurfaceUnavailableError reports a missing mount target or a render context that could not be acquired.
// Err carries the underlying platform error, if any.
type SurfaceUnavailableError struct {
	Reason string
	Err    error
}

func (e *SurfaceUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("surface unavailable: %s", e.Reason)
	}
	return fmt.Sprintf("surface unavailable: %s: %v", e.Reason, e.Err)
}

func (e *SurfaceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *SurfaceUnavailableError) Is(target error) bool {
	return target == ErrSurfaceUnavailable
}
