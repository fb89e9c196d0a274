// Package strokemodel turns a live, noisy stream of stylus or touch events
// into a smoothed, upsampled stream of modeled tip states suitable for
// rendering a handwriting or drawing stroke, plus short-horizon predictions
// of where the stroke is going next.
//
// The package is unit-agnostic in both time and space: callers may use
// whatever units make sense for their platform (seconds or milliseconds,
// millimeters or pixels) as long as they're used consistently.
//
// A StrokeModeler instance models exactly one in-progress stroke at a time
// and is not safe for concurrent use; multiple simultaneous strokes require
// multiple independent instances.
package strokemodel
