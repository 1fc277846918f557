// Package dynamo provides the primitives shared by the physlab kernels.
//
// The package defines the small value types and error taxonomy used by the
// simulation packages:
//
//   - [Vec2]: planar vector used for positions, velocities and indicators
//   - [Clamp], [Finite]: numeric guards applied at kernel boundaries
//   - [ErrDegenerateTrajectory], [ErrParameterBounds]: recoverable conditions
//   - [ParamError]: wraps a condition with the offending parameter
//
// # Error Handling
//
// Nothing in the kernels is fatal. Degenerate inputs are reported as errors
// that callers match with [errors.Is]:
//
//	if _, err := launch.FlightTime(); errors.Is(err, dynamo.ErrDegenerateTrajectory) {
//	    // keep the view idle
//	}
package dynamo
