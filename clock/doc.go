// Package clock reads the Linux monotonic clock as float seconds.
//
// A Reader samples CLOCK_MONOTONIC and converts each reading with a
// multiplier derived from the clock resolution:
//
//	multiplier = 1 / (1e9 / resolution_ns)
//	now        = sec + nsec*multiplier
//
// The multiplier is computed lazily on the first reading and cached for the
// lifetime of the Reader. If the resolution cannot be queried, nanosecond
// resolution is assumed. Readings are only meaningful as differences within
// one process.
package clock
