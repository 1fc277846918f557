package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrDegenerateTrajectory indicates launch parameters with no finite flight
	// (zero or negative gravity or speed, or non-finite input).
	ErrDegenerateTrajectory = errors.New("dynamo: degenerate trajectory")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrUnknownPreset indicates a preset lookup that matched nothing.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")

	// ErrSessionClosed indicates a command sent to a stopped session.
	ErrSessionClosed = errors.New("dynamo: session closed")
)

// ParamError wraps an error with the parameter that caused it.
type ParamError struct {
	Param   string
	Value   float64
	Wrapped error
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s=%g: %v", e.Param, e.Value, e.Wrapped)
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
