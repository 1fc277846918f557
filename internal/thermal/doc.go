// Package thermal implements the heat-diffusion kernel.
//
// A [Grid] owns an N×N temperature field and evolves it with an explicit
// finite-difference scheme: every interior cell moves a fraction α of the way
// toward the mean of its four neighbours, then cools by [Cooling]. Because the
// update is a linear interpolation rather than a raw Laplacian, it is stable
// for every α in [0, 1].
//
// The outermost ring of cells is never updated and keeps whatever value it
// last held, modelling an insulated edge.
//
// # Thread Safety
//
// Grid instances are NOT thread-safe. Callers that receive heat injections
// from other goroutines must funnel them onto the goroutine that calls
// [Grid.Step] (see package session).
package thermal
