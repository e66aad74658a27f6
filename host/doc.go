// Package host registers the chronos host module with a wazero runtime.
//
// The module exports a single function:
//
//	(import "chronos" "nanotime" (func (result f64)))
//
// It returns the current monotonic time in seconds. When the clock cannot be
// read the guest call is aborted and the embedder receives an error wrapping
// the clock's ClockUnavailable error, whose message contains
// "clock_gettime() failed:<description>".
package host
