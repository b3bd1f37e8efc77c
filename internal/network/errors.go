package network

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is wrapped by every parameter validation failure.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrOutputNotWritten reports a primitive that did not write one of its
	// outputs during a cycle. It is an implementation error of the primitive.
	ErrOutputNotWritten = errors.New("output not written this cycle")
	// ErrTypeMismatch reports a connection between ports of different types.
	ErrTypeMismatch = errors.New("port type mismatch")
	// ErrAlreadyConnected reports a second connection to the same input port.
	ErrAlreadyConnected = errors.New("input port already connected")
	// ErrCycle reports a dependency cycle that does not pass a feedback primitive.
	ErrCycle = errors.New("dependency cycle")
	// ErrState reports an operation that is not allowed in the net's current state.
	ErrState = errors.New("invalid net state")
)

// ConfigError is a configuration failure detected before any cycle runs.
type ConfigError struct {
	Primitive string
	Kind      string
	Parameter string
	Err       error
}

// Error names the primitive and, when known, its kind.
func (e *ConfigError) Error() string {
	var where string
	switch {
	case e.Primitive != "" && e.Kind != "":
		where = fmt.Sprintf("primitive '%s' (%s)", e.Primitive, e.Kind)
	case e.Primitive != "":
		where = fmt.Sprintf("primitive '%s'", e.Primitive)
	default:
		where = "net"
	}
	if e.Parameter != "" {
		return fmt.Sprintf("%s: parameter '%s': %v", where, e.Parameter, e.Err)
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InvalidParam builds the error CheckParameters returns for a bad parameter.
func InvalidParam(name, format string, args ...any) error {
	return &ConfigError{
		Parameter: name,
		Err:       fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...)),
	}
}
